package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/moneylog/internal/flagx"
	"github.com/dmitrijs2005/moneylog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the sync timeout either as a string
// like "30s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL string         `json:"server_base_url"`
	DatabasePath  string         `json:"database_path"`
	PrefsDir      string         `json:"prefs_dir"`
	SyncTimeout   timex.Duration `json:"sync_timeout"`
}

// parseJson overlays Config with values loaded from the JSON file selected
// via -c/-config. Fields absent from the file keep their current values.
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PrefsDir != "" {
		cfg.PrefsDir = jc.PrefsDir
	}
	if jc.SyncTimeout.Duration != 0 {
		cfg.SyncTimeout = jc.SyncTimeout.Duration
	}
}
