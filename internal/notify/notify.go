// Package notify delivers state deltas to game observers.
//
// A published update carries the game's changed fields plus per-player and
// per-vote snapshot maps. A nil map value is a tombstone: observers must
// drop that id from their local state.
package notify

import "context"

// Publisher broadcasts a state delta to every observer of a game room.
type Publisher interface {
	Publish(ctx context.Context, roomID string, gameDelta map[string]any, players map[string]map[string]any, votes map[string]map[string]any) error
}
