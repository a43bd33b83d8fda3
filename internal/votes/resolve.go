package votes

import (
	"context"
	"slices"
	"sort"

	"github.com/dkhalov/caucus/internal/game"
	"golang.org/x/sync/errgroup"
)

// evaluate applies the consequence of a resolved vote. Dispatch is over the
// vote type and the game's current phase; a resolution that arrives out of
// phase is dropped, not erred.
func (s *Service) evaluate(ctx context.Context, g *game.Game, v *game.Vote, passed bool) error {
	switch {
	case v.Type == game.VoteJoin && g.Phase == game.PhaseSetup:
		return s.evaluateJoin(ctx, g, v, passed)
	case v.Type == game.VoteKick && g.Phase == game.PhaseSetup:
		return s.evaluateKick(ctx, g, v, passed)
	case v.Type == game.VoteConfirmRole && g.Phase == game.PhaseNight:
		return s.evaluateConfirm(ctx, g, v)
	default:
		s.log.Warn(ctx, "vote resolved out of phase, dropped",
			"gameId", g.ID(), "voteId", v.ID(), "type", string(v.Type), "phase", string(g.Phase))
		return nil
	}
}

// evaluateJoin seats the candidate if the vote passed and the world has not
// moved on since it opened: the seat must still be free and the candidate
// must not already be seated. The vote is consumed either way.
func (s *Service) evaluateJoin(ctx context.Context, g *game.Game, v *game.Vote, passed bool) error {
	p := game.NewPlayer(v.Target1)

	eg, loadCtx := errgroup.WithContext(ctx)
	eg.Go(func() error { return g.LoadPlayers(loadCtx, s.store) })
	eg.Go(func() error {
		_, err := p.Load(loadCtx, s.store)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	seatTaken := false
	for _, id := range g.TurnOrder {
		if g.Players[id].SeatNum == p.SeatNum {
			seatTaken = true
			break
		}
	}
	alreadySeated := slices.Contains(g.TurnOrder, p.ID())

	admitted := passed && !seatTaken && !alreadySeated
	switch {
	case admitted:
		s.log.Info(ctx, "join vote passed, player seated", "gameId", g.ID(), "userId", p.ID())
		g.Players[p.ID()] = p
		ids := append(g.TurnOrder, p.ID())
		sort.Slice(ids, func(i, j int) bool {
			return g.Players[ids[i]].SeatNum < g.Players[ids[j]].SeatNum
		})
		g.SetTurnOrder(ids)
	case !passed:
		s.log.Info(ctx, "join vote failed, player denied entry", "gameId", g.ID(), "userId", p.ID())
	case seatTaken:
		s.log.Info(ctx, "join vote passed, but seat became taken", "gameId", g.ID(), "userId", p.ID())
	default:
		s.log.Info(ctx, "join vote passed, but player already seated", "gameId", g.ID(), "userId", p.ID())
	}

	g.SetVotesInProgress(removeID(g.VotesInProgress, v.ID()))

	gd, err := s.persistResolution(ctx, g, v)
	if err != nil {
		return err
	}

	var players map[string]map[string]any
	if admitted {
		players = map[string]map[string]any{p.ID(): p.Serialize(true)}
	}
	return s.pub.Publish(ctx, g.ID(), gd, players, map[string]map[string]any{v.ID(): nil})
}

// evaluateKick removes the target from the seating order and deletes the
// player record entirely when the vote passed. The vote is consumed either
// way.
func (s *Service) evaluateKick(ctx context.Context, g *game.Game, v *game.Vote, passed bool) error {
	p := game.NewPlayer(v.Target1)

	if passed {
		s.log.Info(ctx, "kick vote passed, removing player", "gameId", g.ID(), "userId", p.ID())
		g.SetTurnOrder(removeID(g.TurnOrder, p.ID()))
	} else {
		s.log.Info(ctx, "kick vote failed", "gameId", g.ID(), "userId", p.ID())
	}

	g.SetVotesInProgress(removeID(g.VotesInProgress, v.ID()))

	eg, egCtx := errgroup.WithContext(ctx)
	var gd map[string]any
	eg.Go(func() error {
		d, err := g.Save(egCtx, s.store, s.ttl)
		gd = d
		return err
	})
	eg.Go(func() error { return v.Destroy(egCtx, s.store) })
	if passed {
		eg.Go(func() error { return p.Destroy(egCtx, s.store) })
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var players map[string]map[string]any
	if passed {
		players = map[string]map[string]any{p.ID(): nil}
	}
	return s.pub.Publish(ctx, g.ID(), gd, players, map[string]map[string]any{v.ID(): nil})
}

// evaluateConfirm advances night to nominate once everyone has seen their
// role. Confirmation votes only resolve one way, so the outcome is not
// consulted. The opening president is drawn uniformly from the seating
// order.
func (s *Service) evaluateConfirm(ctx context.Context, g *game.Game, v *game.Vote) error {
	s.log.Info(ctx, "roles confirmed, continuing", "gameId", g.ID())

	players := g.TurnOrder
	g.SetPresident(players[s.randInt(len(players))])
	g.SetPhase(game.PhaseNominate)
	g.SetVotesInProgress(removeID(g.VotesInProgress, v.ID()))

	gd, err := s.persistResolution(ctx, g, v)
	if err != nil {
		return err
	}
	return s.pub.Publish(ctx, g.ID(), gd, nil, map[string]map[string]any{v.ID(): nil})
}

// persistResolution saves the game and destroys the consumed vote in
// parallel, returning the game's delta for notification.
func (s *Service) persistResolution(ctx context.Context, g *game.Game, v *game.Vote) (map[string]any, error) {
	var gd map[string]any
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		d, err := g.Save(egCtx, s.store, s.ttl)
		gd = d
		return err
	})
	eg.Go(func() error { return v.Destroy(egCtx, s.store) })
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return gd, nil
}

// removeID returns ids without the given id, preserving order.
func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, e := range ids {
		if e != id {
			out = append(out, e)
		}
	}
	return out
}
