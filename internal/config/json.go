package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkhalov/caucus/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, its fields are copied into the
// runtime Config. The TTL is given in seconds.
type JsonConfig struct {
	BindAddr         string `json:"bind_addr"`
	RedisAddr        string `json:"redis_addr"`
	RedisPassword    string `json:"redis_password"`
	RedisDB          int    `json:"redis_db"`
	DatabaseDSN      string `json:"database_dsn"`
	EntityTTLSeconds int    `json:"entity_ttl_seconds"`
	ChannelPrefix    string `json:"channel_prefix"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.BindAddr = c.BindAddr
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.RedisDB = c.RedisDB
	config.DatabaseDSN = c.DatabaseDSN
	config.EntityTTL = time.Duration(c.EntityTTLSeconds) * time.Second
	config.ChannelPrefix = c.ChannelPrefix
}
