package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkhalov/caucus/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-r string   Redis address (host:port)
//	-p string   Redis password
//	-n int      Redis database number
//	-d string   PostgreSQL DSN (enables the Postgres store backend)
//	-t int      entity TTL, hours
//	-x string   Pub/Sub channel prefix
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-p", "-n", "-d", "-t", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.BindAddr, "a", config.BindAddr, "address and port to run server")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "p", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "n", config.RedisDB, "redis database number")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	entityTTL := fs.Int("t", int(config.EntityTTL.Hours()), "entity TTL (in hours)")

	fs.StringVar(&config.ChannelPrefix, "x", config.ChannelPrefix, "pub/sub channel prefix")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.EntityTTL = time.Duration(*entityTTL) * time.Hour
}
