package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/moneylog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the vault server
//	-d string   path of the local ledger database
//	-p string   directory of the device preference store
//	-t int      sync pass timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-p", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the vault server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local ledger database")
	fs.StringVar(&cfg.PrefsDir, "p", cfg.PrefsDir, "directory of the device preference store")
	syncTimeout := fs.Int("t", int(cfg.SyncTimeout.Seconds()), "sync pass timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncTimeout = time.Duration(*syncTimeout) * time.Second
}
