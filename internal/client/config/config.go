package config

import "time"

// Config holds runtime settings for the MoneyLog CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the vault server, no trailing slash.
//   - DatabasePath: SQLite DSN of the local ledger.
//   - PrefsDir: directory of the device preference store.
//   - SyncTimeout: wall-clock budget for one sync pass.
type Config struct {
	ServerBaseURL string
	DatabasePath  string
	PrefsDir      string
	SyncTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "moneylog.db"
	c.PrefsDir = ".moneylog"
	c.SyncTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
