package game

import (
	"context"
	"testing"
	"time"

	"github.com/dkhalov/caucus/internal/store"
	"github.com/stretchr/testify/require"
)

func TestNewGameDefaults(t *testing.T) {
	g := NewGame("g1")

	require.Equal(t, PhaseSetup, g.Phase)
	require.Empty(t, g.TurnOrder)
	require.Empty(t, g.VotesInProgress)
	require.Equal(t, 6, g.DeckLiberal)
	require.Equal(t, 11, g.DeckFascist)
	require.Zero(t, g.FailedVotes)
	require.False(t, g.SpecialElection)
}

func TestGameRoundTrip(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	g := NewGame("g1")
	g.SetPhase(PhaseNight)
	g.SetTurnOrder([]string{"p1", "p2", "p3"})
	g.SetPresident("p2")
	_, err := g.Save(ctx, st, time.Hour)
	require.NoError(t, err)

	loaded := NewGame("g1")
	found, err := loaded.Load(ctx, st)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, PhaseNight, loaded.Phase)
	require.Equal(t, []string{"p1", "p2", "p3"}, loaded.TurnOrder)
	require.Equal(t, "p2", loaded.President)
	require.Equal(t, 11, loaded.DeckFascist)
}

func TestLoadPlayers(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	for i, id := range []string{"p1", "p2", "p3"} {
		p := NewPlayer(id)
		p.SetDisplayName("player " + id)
		p.SetSeatNum(i + 1)
		_, err := p.Save(ctx, st, time.Hour)
		require.NoError(t, err)
	}

	g := NewGame("g1")
	g.SetTurnOrder([]string{"p1", "p2", "p3"})

	require.NoError(t, g.LoadPlayers(ctx, st))
	require.Len(t, g.Players, 3)
	require.Equal(t, "player p2", g.Players["p2"].DisplayName)
	require.Equal(t, 3, g.Players["p3"].SeatNum)
}

func TestLoadVotes(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	v := NewVote("v1")
	v.Type = VoteJoin
	v.Target1 = "p9"
	v.MarkDirty("type")
	v.MarkDirty("target1")
	_, err := v.Save(ctx, st, time.Hour)
	require.NoError(t, err)

	g := NewGame("g1")
	g.SetVotesInProgress([]string{"v1"})

	require.NoError(t, g.LoadVotes(ctx, st))
	require.Len(t, g.Votes, 1)
	require.Equal(t, VoteJoin, g.Votes["v1"].Type)
	require.Equal(t, "p9", g.Votes["v1"].Target1)
}

func TestSerializePlayersHidesRoles(t *testing.T) {
	g := NewGame("g1")
	p := NewPlayer("p1")
	p.SetRole(RoleHitler)
	g.Players["p1"] = p

	hidden := g.SerializePlayers(true)
	require.NotContains(t, hidden["p1"], "role")
	require.Contains(t, hidden["p1"], "displayName")

	revealed := g.SerializePlayers(false)
	require.Equal(t, "hitler", revealed["p1"]["role"])
}

func TestVoteHelpers(t *testing.T) {
	v := NewVote("v1")
	v.SetYesVoters([]string{"a"})
	v.SetNoVoters([]string{"b"})
	v.NonVoters = []string{"m"}

	require.True(t, v.HasVoted("a"))
	require.True(t, v.HasVoted("b"))
	require.False(t, v.HasVoted("c"))
	require.True(t, v.Blacklisted("m"))
	require.Equal(t, 2, v.Ballots())
}
