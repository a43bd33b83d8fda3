// Package votes implements the ballot tally engine and the vote resolution
// dispatcher: the only code that mutates game state in response to ballots.
package votes

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/dkhalov/caucus/internal/common"
	"github.com/dkhalov/caucus/internal/game"
	"github.com/dkhalov/caucus/internal/logging"
	"github.com/dkhalov/caucus/internal/notify"
	"github.com/dkhalov/caucus/internal/store"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service tallies ballots and resolves completed votes. All entity reads
// and writes go through the injected store; observers hear about state
// changes through the injected publisher.
type Service struct {
	store store.Store
	pub   notify.Publisher
	log   logging.Logger
	ttl   time.Duration
	locks *keyedMutex

	// randInt selects the opening president; a seam for deterministic tests.
	randInt func(n int) int
}

// NewService constructs the vote service. ttl is the expiry refreshed on
// every entity save.
func NewService(st store.Store, pub notify.Publisher, log logging.Logger, ttl time.Duration) *Service {
	return &Service{
		store:   st,
		pub:     pub,
		log:     log,
		ttl:     ttl,
		locks:   newKeyedMutex(),
		randInt: rand.IntN,
	}
}

// TallyVote records one user's ballot on a vote and, when a threshold is
// crossed, resolves the vote.
//
// Invalid ballots (vote already completed, user not playing, duplicate
// ballot, blacklisted voter) are logged and dropped without error: the
// caller sees no effect and clients learn the truth from the next state
// sync. Store failures are returned and leave the ballot untallied.
//
// Two ballots racing on the same vote id are serialized for the whole
// load→mutate→persist span, so neither can overwrite the other's tally.
func (s *Service) TallyVote(ctx context.Context, gameID, voteID, userID string, approve bool) error {
	unlock := s.locks.lock(voteID)
	defer unlock()

	g := game.NewGame(gameID)
	v := game.NewVote(voteID)

	eg, loadCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		_, err := g.Load(loadCtx, s.store)
		return err
	})
	eg.Go(func() error {
		_, err := v.Load(loadCtx, s.store)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	var reason string
	switch {
	case !slices.Contains(g.VotesInProgress, voteID):
		reason = "vote completed"
	case !slices.Contains(g.TurnOrder, userID):
		reason = "user not playing"
	case v.HasVoted(userID):
		reason = "user has already voted"
	case v.Blacklisted(userID):
		reason = "user is not allowed to vote"
	}
	if reason != "" {
		s.log.Warn(ctx, "invalid ballot, not tallied",
			"reason", reason, "gameId", gameID, "voteId", voteID, "userId", userID)
		return nil
	}

	if approve {
		v.SetYesVoters(append(v.YesVoters, userID))
	} else {
		v.SetNoVoters(append(v.NoVoters, userID))
	}

	// Pass and fail thresholds are each independently sufficient and both
	// are monotone, so they are checked on every ballot; a vote that meets
	// neither stays open for further ballots even past its expected count.
	totalEligible := len(g.TurnOrder) - len(v.NonVoters)
	passes := len(v.YesVoters) >= v.ToPass
	fails := len(v.NoVoters) > totalEligible-v.ToPass
	if passes || fails {
		return s.evaluate(ctx, g, v, passes)
	}

	if _, err := v.Save(ctx, s.store, s.ttl); err != nil {
		return err
	}
	return s.pub.Publish(ctx, gameID,
		map[string]any{"votesInProgress": g.VotesInProgress},
		nil,
		map[string]map[string]any{voteID: v.Serialize()},
	)
}

// VoteParams describes a ballot to open. Zero ToPass/Requires fall back to
// the single-voter defaults.
type VoteParams struct {
	Type      game.VoteType
	Target1   string
	Target2   string
	Data      string
	ToPass    int
	Requires  int
	NonVoters []string
}

// OpenVote creates a ballot record, registers it on the game, and announces
// it to observers. The vote id is freshly generated.
func (s *Service) OpenVote(ctx context.Context, gameID string, params VoteParams) (*game.Vote, error) {
	g := game.NewGame(gameID)
	found, err := g.Load(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("game %s: %w", gameID, common.ErrNotFound)
	}

	v := game.NewVote(uuid.NewString())
	v.Type = params.Type
	v.Target1 = params.Target1
	v.Target2 = params.Target2
	v.Data = params.Data
	if params.ToPass > 0 {
		v.ToPass = params.ToPass
	}
	if params.Requires > 0 {
		v.Requires = params.Requires
	}
	if params.NonVoters != nil {
		v.NonVoters = params.NonVoters
	}

	if _, err := v.Save(ctx, s.store, s.ttl); err != nil {
		return nil, err
	}

	g.SetVotesInProgress(append(g.VotesInProgress, v.ID()))
	gd, err := g.Save(ctx, s.store, s.ttl)
	if err != nil {
		return nil, err
	}

	if err := s.pub.Publish(ctx, gameID, gd, nil, map[string]map[string]any{v.ID(): v.Serialize()}); err != nil {
		return nil, err
	}
	return v, nil
}

// CreateGame persists a fresh game record and returns it.
func (s *Service) CreateGame(ctx context.Context) (*game.Game, error) {
	g := game.NewGame(uuid.NewString())
	if _, err := g.Save(ctx, s.store, s.ttl); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "game created", "gameId", g.ID())
	return g, nil
}

// RequestJoin creates the candidate's player record and opens a join vote
// among the seated players. The first player to join an empty game is
// seated immediately as its moderator.
func (s *Service) RequestJoin(ctx context.Context, gameID, displayName string, seatNum int) (*game.Player, *game.Vote, error) {
	g := game.NewGame(gameID)
	found, err := g.Load(ctx, s.store)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, fmt.Errorf("game %s: %w", gameID, common.ErrNotFound)
	}

	p := game.NewPlayer(uuid.NewString())
	p.DisplayName = displayName
	p.SeatNum = seatNum

	if len(g.TurnOrder) == 0 {
		p.IsModerator = true
		if _, err := p.Save(ctx, s.store, s.ttl); err != nil {
			return nil, nil, err
		}
		g.SetTurnOrder([]string{p.ID()})
		gd, err := g.Save(ctx, s.store, s.ttl)
		if err != nil {
			return nil, nil, err
		}
		err = s.pub.Publish(ctx, gameID, gd,
			map[string]map[string]any{p.ID(): p.Serialize(true)}, nil)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	}

	if _, err := p.Save(ctx, s.store, s.ttl); err != nil {
		return nil, nil, err
	}

	v, err := s.OpenVote(ctx, gameID, VoteParams{
		Type:     game.VoteJoin,
		Target1:  p.ID(),
		Data:     displayName,
		ToPass:   len(g.TurnOrder)/2 + 1,
		Requires: len(g.TurnOrder),
	})
	if err != nil {
		return nil, nil, err
	}
	return p, v, nil
}
