package config

import (
	"encoding/json"
	"os"

	"github.com/taskmaster-app/taskmaster-cli/internal/flagx"
	"github.com/taskmaster-app/taskmaster-cli/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations can
// be given either as strings like "300ms" or as integer nanoseconds.
type jsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	SearchDebounce timex.Duration `json:"search_debounce"`
	DatabasePath   string         `json:"database_path"`
}

// parseJSON overlays cfg with values from the JSON file named by the -c or
// -config flag. When no flag is given, nothing is loaded. Only fields
// present in the file override the current values. Read or unmarshal errors
// panic; the file was explicitly requested, so silently ignoring it would
// be worse.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SearchDebounce.Duration > 0 {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
}
