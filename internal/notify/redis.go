package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// publishTimeout bounds each broadcast so a slow broker cannot stall the
// request flow that resolved a vote.
const publishTimeout = 2 * time.Second

// update is the wire form of a state delta. Nil player/vote snapshots
// marshal as JSON null, which observers treat as tombstones.
type update struct {
	Game    map[string]any            `json:"game,omitempty"`
	Players map[string]map[string]any `json:"players,omitempty"`
	Votes   map[string]map[string]any `json:"votes,omitempty"`
}

// RedisPublisher broadcasts updates on a per-game Pub/Sub channel.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher constructs a publisher. Channel names are prefix+roomID,
// so multiple deployments can share one Redis server without interference.
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, roomID string, gameDelta map[string]any, players map[string]map[string]any, votes map[string]map[string]any) error {
	payload, err := json.Marshal(update{Game: gameDelta, Players: players, Votes: votes})
	if err != nil {
		return fmt.Errorf("marshal update for %s: %w", roomID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.prefix+roomID, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", roomID, err)
	}
	return nil
}
