package votes

import (
	"context"
	"testing"

	"github.com/dkhalov/caucus/internal/game"
	"github.com/stretchr/testify/require"
)

func TestJoinVotePassedSeatsCandidate(t *testing.T) {
	s, st, pub := newFixture(t)
	seedGame(t, st, game.PhaseSetup, []string{"p1", "p2"}, []string{"v1"})
	seedPlayer(t, st, "p1", 1)
	seedPlayer(t, st, "p2", 2)
	seedPlayer(t, st, "p3", 3)
	seedVote(t, st, "v1", game.VoteJoin, "p3", 1, 1, nil)

	require.NoError(t, s.TallyVote(context.Background(), "g1", "v1", "p1", true))

	g := loadGame(t, st)
	require.Equal(t, []string{"p1", "p2", "p3"}, g.TurnOrder)
	require.NotContains(t, g.VotesInProgress, "v1")

	_, found := loadVote(t, st, "v1")
	require.False(t, found)

	up := pub.last(t)
	require.Equal(t, "player p3", up.players["p3"]["displayName"])
	require.NotContains(t, up.players["p3"], "role")
	require.Contains(t, up.votes, "v1")
	require.Nil(t, up.votes["v1"])
}

func TestJoinVoteSortsTurnOrderBySeat(t *testing.T) {
	s, st, _ := newFixture(t)
	seedGame(t, st, game.PhaseSetup, []string{"p1", "p2"}, []string{"v1"})
	seedPlayer(t, st, "p1", 1)
	seedPlayer(t, st, "p2", 3)
	seedPlayer(t, st, "p3", 2)
	seedVote(t, st, "v1", game.VoteJoin, "p3", 1, 1, nil)

	require.NoError(t, s.TallyVote(context.Background(), "g1", "v1", "p1", true))

	require.Equal(t, []string{"p1", "p3", "p2"}, loadGame(t, st).TurnOrder)
}

func TestJoinVoteSeatBecameTaken(t *testing.T) {
	s, st, pub := newFixture(t)
	seedGame(t, st, game.PhaseSetup, []string{"p1", "p2"}, []string{"v1"})
	seedPlayer(t, st, "p1", 1)
	seedPlayer(t, st, "p2", 2)
	seedPlayer(t, st, "p3", 2) // candidate's seat is no longer free
	seedVote(t, st, "v1", game.VoteJoin, "p3", 1, 1, nil)

	require.NoError(t, s.TallyVote(context.Background(), "g1", "v1", "p1", true))

	// vote is still consumed, but the contested seat is untouched
	g := loadGame(t, st)
	require.Equal(t, []string{"p1", "p2"}, g.TurnOrder)
	require.NotContains(t, g.VotesInProgress, "v1")

	up := pub.last(t)
	require.Nil(t, up.players)
	require.Contains(t, up.votes, "v1")
	require.Nil(t, up.votes["v1"])
}

func TestJoinVoteFailedDeniesEntry(t *testing.T) {
	s, st, pub := newFixture(t)
	seedGame(t, st, game.PhaseSetup, []string{"p1", "p2"}, []string{"v1"})
	seedPlayer(t, st, "p1", 1)
	seedPlayer(t, st, "p2", 2)
	seedPlayer(t, st, "p3", 3)
	// totalEligible=2, toPass=2: a single no is already decisive
	seedVote(t, st, "v1", game.VoteJoin, "p3", 2, 2, nil)

	require.NoError(t, s.TallyVote(context.Background(), "g1", "v1", "p1", false))

	g := loadGame(t, st)
	require.Equal(t, []string{"p1", "p2"}, g.TurnOrder)
	require.NotContains(t, g.VotesInProgress, "v1")
	require.Nil(t, pub.last(t).players)
}

func TestKickVotePassedDestroysPlayer(t *testing.T) {
	s, st, pub := newFixture(t)
	seedGame(t, st, game.PhaseSetup, []string{"p1", "p2", "p3"}, []string{"v1"})
	seedPlayer(t, st, "p3", 3)
	seedVote(t, st, "v1", game.VoteKick, "p3", 2, 3, []string{"p3"})

	ctx := context.Background()
	require.NoError(t, s.TallyVote(ctx, "g1", "v1", "p1", true))
	require.NoError(t, s.TallyVote(ctx, "g1", "v1", "p2", true))

	g := loadGame(t, st)
	require.Equal(t, []string{"p1", "p2"}, g.TurnOrder)
	require.NotContains(t, g.VotesInProgress, "v1")

	// the player record itself is gone
	probe := game.NewPlayer("p3")
	found, err := probe.Load(ctx, st)
	require.NoError(t, err)
	require.False(t, found)

	up := pub.last(t)
	require.Contains(t, up.players, "p3")
	require.Nil(t, up.players["p3"])
	require.Nil(t, up.votes["v1"])
}

func TestConfirmVoteAdvancesNightToNominate(t *testing.T) {
	s, st, pub := newFixture(t)
	seedGame(t, st, game.PhaseNight, []string{"a", "b", "c"}, []string{"v1"})
	seedVote(t, st, "v1", game.VoteConfirmRole, "", 1, 1, nil)

	s.randInt = func(n int) int { return 2 }

	require.NoError(t, s.TallyVote(context.Background(), "g1", "v1", "a", true))

	g := loadGame(t, st)
	require.Equal(t, game.PhaseNominate, g.Phase)
	require.Equal(t, "c", g.President)
	require.NotContains(t, g.VotesInProgress, "v1")

	_, found := loadVote(t, st, "v1")
	require.False(t, found)
	require.Nil(t, pub.last(t).votes["v1"])
}

func TestConfirmVotePresidentAlwaysSeated(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, 8} {
		s, st, _ := newFixture(t)

		order := make([]string, size)
		for i := range order {
			order[i] = string(rune('a' + i))
		}
		seedGame(t, st, game.PhaseNight, order, []string{"v1"})
		seedVote(t, st, "v1", game.VoteConfirmRole, "", 1, 1, nil)

		require.NoError(t, s.TallyVote(context.Background(), "g1", "v1", order[0], true))

		g := loadGame(t, st)
		require.Contains(t, order, g.President, "size %d", size)
	}
}

func TestOutOfPhaseResolutionDropped(t *testing.T) {
	// a join vote resolving while the game is past setup is discarded
	// without touching any state
	s, st, pub := newFixture(t)
	seedGame(t, st, game.PhaseNight, []string{"p1", "p2"}, []string{"v1"})
	seedVote(t, st, "v1", game.VoteJoin, "p3", 1, 1, nil)

	require.NoError(t, s.TallyVote(context.Background(), "g1", "v1", "p1", true))

	require.Zero(t, pub.count())
	g := loadGame(t, st)
	require.Contains(t, g.VotesInProgress, "v1")
	v, found := loadVote(t, st, "v1")
	require.True(t, found)
	require.Empty(t, v.YesVoters)
}
