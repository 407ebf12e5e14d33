// Package config loads runtime settings for the TaskMaster CLI. Sources are
// applied in order of increasing precedence: built-in defaults, a JSON file
// (-c/-config), environment variables (with optional .env file), and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the TaskMaster CLI.
//
// Fields:
//   - ServerBaseURL: root of the backend REST API, including the /api prefix.
//   - RequestTimeout: per-request HTTP timeout.
//   - SearchDebounce: quiet period before a user search is issued.
//   - DatabasePath: location of the local sqlite database that persists the
//     credential pair.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api"
	c.RequestTimeout = 15 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.DatabasePath = "taskmaster.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON, environment, and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
