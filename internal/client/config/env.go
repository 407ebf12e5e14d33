package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by parseEnv.
const (
	envServerBaseURL  = "TASKMASTER_SERVER_URL"
	envRequestTimeout = "TASKMASTER_REQUEST_TIMEOUT"
	envSearchDebounce = "TASKMASTER_SEARCH_DEBOUNCE"
	envDatabasePath   = "TASKMASTER_DB_PATH"
)

// parseEnv overlays cfg with values from the process environment. A .env
// file in the working directory is loaded first when present; variables
// already set in the environment win over the file. Durations use
// time.ParseDuration syntax; unparseable values are ignored.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(envServerBaseURL); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv(envRequestTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv(envSearchDebounce); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SearchDebounce = d
		}
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
}
