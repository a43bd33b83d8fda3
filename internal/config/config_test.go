package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, ":8080", cfg.BindAddr)
	require.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	require.Empty(t, cfg.DatabaseDSN)
	require.Equal(t, 24*time.Hour, cfg.EntityTTL)
	require.Equal(t, "game:", cfg.ChannelPrefix)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"server", "-a", ":9090", "-r", "redis:6379", "-t", "48", "-unrelated", "x"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, 48*time.Hour, cfg.EntityTTL)
}

func TestParseJson(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"bind_addr": ":7070",
		"redis_addr": "10.0.0.1:6379",
		"database_dsn": "postgres://localhost/caucus",
		"entity_ttl_seconds": 3600,
		"channel_prefix": "room:"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, ":7070", cfg.BindAddr)
	require.Equal(t, "10.0.0.1:6379", cfg.RedisAddr)
	require.Equal(t, "postgres://localhost/caucus", cfg.DatabaseDSN)
	require.Equal(t, time.Hour, cfg.EntityTTL)
	require.Equal(t, "room:", cfg.ChannelPrefix)
}
