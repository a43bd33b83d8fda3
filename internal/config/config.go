// Package config handles configuration for the game server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the game server.
//
// Fields:
//   - BindAddr: bind address for the HTTP ballot gateway.
//   - RedisAddr / RedisPassword / RedisDB: Redis connection settings; Redis
//     backs the entity store (unless DatabaseDSN is set) and always backs
//     the Pub/Sub notification channel.
//   - DatabaseDSN: optional PostgreSQL DSN; when set, entity records are
//     persisted in Postgres instead of Redis.
//   - EntityTTL: expiry refreshed on every save; abandoned games self-expire.
//   - ChannelPrefix: prefix for per-game Pub/Sub channel names.
type Config struct {
	BindAddr      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseDSN   string
	EntityTTL     time.Duration
	ChannelPrefix string
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.BindAddr = ":8080"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.DatabaseDSN = ""
	c.EntityTTL = 24 * time.Hour
	c.ChannelPrefix = "game:"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
