package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Store over a Redis hash per record. HSET plus EXPIRE run
// inside a MULTI/EXEC pipeline so a save is all-or-nothing.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Store bound to the given Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) GetFields(ctx context.Context, key string, fields []string) (map[string]string, error) {
	vals, err := r.client.HMGet(ctx, key, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("hmget %s: %w", key, err)
	}

	result := make(map[string]string, len(fields))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("hmget %s: unexpected value type %T for field %s", key, v, fields[i])
		}
		result[fields[i]] = s
	}
	return result, nil
}

func (r *Redis) SetFields(ctx context.Context, key string, values map[string]string, ttl time.Duration) error {
	flat := make([]any, 0, len(values)*2)
	for f, v := range values {
		flat = append(flat, f, v)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, flat...)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}
