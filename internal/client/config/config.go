// Package config assembles the client's runtime settings from layered
// sources: built-in defaults, a .env file, an optional JSON file and
// command-line flags. Later sources override earlier ones.
package config

import (
	"time"

	"github.com/arthlor/yeser/internal/client/assets"
)

// Config holds runtime settings for the Yeser client.
type Config struct {
	// BackendURL is the base URL of the journaling backend
	// (e.g. https://xyz.supabase.co).
	BackendURL string

	// BackendAPIKey is the public API key sent with every request.
	BackendAPIKey string

	// RequestTimeout bounds each gateway round trip.
	RequestTimeout time.Duration

	// LocalDBPath is the SQLite file holding the persisted entry cache.
	LocalDBPath string

	// Storage locates the avatar bucket for signed-URL issuance.
	Storage assets.StorageConfig
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:54321"
	c.BackendAPIKey = ""
	c.RequestTimeout = 10 * time.Second
	c.LocalDBPath = "yeser.db"
	c.Storage = assets.StorageConfig{
		Region: "us-east-1",
		Bucket: "avatars",
	}
}

// LoadConfig constructs a Config: defaults, then .env, then JSON file (if
// given via -c/-config), then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
