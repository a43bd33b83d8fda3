// Package game declares the persisted record kinds of a session — Game,
// Player, Vote — and their derived behavior: nested collection loading and
// observer-safe serialization.
package game

import (
	"context"

	"github.com/dkhalov/caucus/internal/entity"
	"github.com/dkhalov/caucus/internal/store"
	"golang.org/x/sync/errgroup"
)

// Phase is the stage a game session is in.
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhaseNight     Phase = "night"
	PhaseNominate  Phase = "nominate"
	PhaseVote      Phase = "vote"
	PhaseLegislate Phase = "legislate"
)

// Game is the singleton record of one session. TurnOrder is seating order
// (seat-number order, not join order) and contains each player id at most
// once. VotesInProgress references only Vote records that exist.
type Game struct {
	entity.Record

	Phase           Phase
	TurnOrder       []string
	VotesInProgress []string
	President       string
	Chancellor      string
	LastPresident   string
	LastChancellor  string
	LiberalPolicies int
	FascistPolicies int
	DeckLiberal     int
	DeckFascist     int
	DiscardLiberal  int
	DiscardFascist  int
	SpecialElection bool
	FailedVotes     int

	// Players and Votes hold the nested records after LoadPlayers /
	// LoadVotes; they are not persisted on the game record itself.
	Players map[string]*Player
	Votes   map[string]*Vote
}

// NewGame constructs a game with fresh-session defaults: setup phase, empty
// seating, and a full policy deck.
func NewGame(id string) *Game {
	g := &Game{
		Phase:           PhaseSetup,
		TurnOrder:       []string{},
		VotesInProgress: []string{},
		DeckLiberal:     6,
		DeckFascist:     11,
		Players:         make(map[string]*Player),
		Votes:           make(map[string]*Vote),
	}

	g.Init("game", id, []entity.Field{
		{Name: "state", Type: entity.TypeString,
			Get: func() any { return string(g.Phase) },
			Set: func(v any) { g.Phase = Phase(v.(string)) }},
		{Name: "turnOrder", Type: entity.TypeCSV,
			Get: func() any { return g.TurnOrder },
			Set: func(v any) { g.TurnOrder = v.([]string) }},
		{Name: "votesInProgress", Type: entity.TypeCSV,
			Get: func() any { return g.VotesInProgress },
			Set: func(v any) { g.VotesInProgress = v.([]string) }},
		{Name: "president", Type: entity.TypeString,
			Get: func() any { return g.President },
			Set: func(v any) { g.President = v.(string) }},
		{Name: "chancellor", Type: entity.TypeString,
			Get: func() any { return g.Chancellor },
			Set: func(v any) { g.Chancellor = v.(string) }},
		{Name: "lastPresident", Type: entity.TypeString,
			Get: func() any { return g.LastPresident },
			Set: func(v any) { g.LastPresident = v.(string) }},
		{Name: "lastChancellor", Type: entity.TypeString,
			Get: func() any { return g.LastChancellor },
			Set: func(v any) { g.LastChancellor = v.(string) }},
		{Name: "liberalPolicies", Type: entity.TypeInt,
			Get: func() any { return g.LiberalPolicies },
			Set: func(v any) { g.LiberalPolicies = v.(int) }},
		{Name: "fascistPolicies", Type: entity.TypeInt,
			Get: func() any { return g.FascistPolicies },
			Set: func(v any) { g.FascistPolicies = v.(int) }},
		{Name: "deckLiberal", Type: entity.TypeInt,
			Get: func() any { return g.DeckLiberal },
			Set: func(v any) { g.DeckLiberal = v.(int) }},
		{Name: "deckFascist", Type: entity.TypeInt,
			Get: func() any { return g.DeckFascist },
			Set: func(v any) { g.DeckFascist = v.(int) }},
		{Name: "discardLiberal", Type: entity.TypeInt,
			Get: func() any { return g.DiscardLiberal },
			Set: func(v any) { g.DiscardLiberal = v.(int) }},
		{Name: "discardFascist", Type: entity.TypeInt,
			Get: func() any { return g.DiscardFascist },
			Set: func(v any) { g.DiscardFascist = v.(int) }},
		{Name: "specialElection", Type: entity.TypeBool,
			Get: func() any { return g.SpecialElection },
			Set: func(v any) { g.SpecialElection = v.(bool) }},
		{Name: "failedVotes", Type: entity.TypeInt,
			Get: func() any { return g.FailedVotes },
			Set: func(v any) { g.FailedVotes = v.(int) }},
	})

	return g
}

func (g *Game) SetPhase(p Phase) {
	g.Phase = p
	g.MarkDirty("state")
}

func (g *Game) SetTurnOrder(ids []string) {
	g.TurnOrder = ids
	g.MarkDirty("turnOrder")
}

func (g *Game) SetVotesInProgress(ids []string) {
	g.VotesInProgress = ids
	g.MarkDirty("votesInProgress")
}

func (g *Game) SetPresident(id string) {
	g.President = id
	g.MarkDirty("president")
}

func (g *Game) SetChancellor(id string) {
	g.Chancellor = id
	g.MarkDirty("chancellor")
}

func (g *Game) SetLastPresident(id string) {
	g.LastPresident = id
	g.MarkDirty("lastPresident")
}

func (g *Game) SetLastChancellor(id string) {
	g.LastChancellor = id
	g.MarkDirty("lastChancellor")
}

func (g *Game) SetSpecialElection(on bool) {
	g.SpecialElection = on
	g.MarkDirty("specialElection")
}

func (g *Game) SetFailedVotes(n int) {
	g.FailedVotes = n
	g.MarkDirty("failedVotes")
}

// LoadPlayers loads every player referenced by TurnOrder in parallel and
// exposes them keyed by id. Either all referenced players load or the whole
// operation fails.
func (g *Game) LoadPlayers(ctx context.Context, st store.Store) error {
	g.Players = make(map[string]*Player, len(g.TurnOrder))

	eg, ctx := errgroup.WithContext(ctx)
	for _, id := range g.TurnOrder {
		p := NewPlayer(id)
		g.Players[id] = p
		eg.Go(func() error {
			_, err := p.Load(ctx, st)
			return err
		})
	}
	return eg.Wait()
}

// LoadVotes loads every vote referenced by VotesInProgress in parallel,
// keyed by id.
func (g *Game) LoadVotes(ctx context.Context, st store.Store) error {
	g.Votes = make(map[string]*Vote, len(g.VotesInProgress))

	eg, ctx := errgroup.WithContext(ctx)
	for _, id := range g.VotesInProgress {
		v := NewVote(id)
		g.Votes[id] = v
		eg.Go(func() error {
			_, err := v.Load(ctx, st)
			return err
		})
	}
	return eg.Wait()
}

// SerializePlayers returns observer snapshots of the loaded players. With
// hideSecrets (the only safe choice for untrusted observers) each player's
// secret role is omitted.
func (g *Game) SerializePlayers(hideSecrets bool) map[string]map[string]any {
	out := make(map[string]map[string]any, len(g.Players))
	for id, p := range g.Players {
		out[id] = p.Serialize(hideSecrets)
	}
	return out
}

// SerializeVotes returns snapshots of the loaded in-progress votes.
func (g *Game) SerializeVotes() map[string]map[string]any {
	out := make(map[string]map[string]any, len(g.Votes))
	for id, v := range g.Votes {
		out[id] = v.Serialize()
	}
	return out
}
