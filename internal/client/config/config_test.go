package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, "moneylog.db", cfg.DatabasePath)
	assert.Equal(t, ".moneylog", cfg.PrefsDir)
	assert.Equal(t, 30*time.Second, cfg.SyncTimeout)
}

func TestParseFlags(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()
	os.Args = []string{"client", "-a", "http://vault.local:9000", "-t", "5"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://vault.local:9000", cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.SyncTimeout)
	assert.Equal(t, "moneylog.db", cfg.DatabasePath, "unset flags keep defaults")
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte(
		`{"server_base_url": "http://other:8081", "sync_timeout": "45s"}`), 0o600))

	orig := os.Args
	defer func() { os.Args = orig }()
	os.Args = []string{"client", "-c", file}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "http://other:8081", cfg.ServerBaseURL)
	assert.Equal(t, 45*time.Second, cfg.SyncTimeout)
	assert.Equal(t, ".moneylog", cfg.PrefsDir, "fields absent from JSON keep defaults")
}

func TestFlagsOverrideJson(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"server_base_url": "http://json:1"}`), 0o600))

	orig := os.Args
	defer func() { os.Args = orig }()
	os.Args = []string{"client", "-c", file, "-a", "http://flag:2"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)

	assert.Equal(t, "http://flag:2", cfg.ServerBaseURL)
}
