package cli

import (
	"bufio"
	"context"
	"database/sql"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/moneylog/internal/client/config"
	"github.com/dmitrijs2005/moneylog/internal/client/localdb"
	"github.com/dmitrijs2005/moneylog/internal/client/prefs"
	"github.com/dmitrijs2005/moneylog/internal/client/remote"
	"github.com/dmitrijs2005/moneylog/internal/client/repositories/transactions"
	"github.com/dmitrijs2005/moneylog/internal/client/services"
	syncx "github.com/dmitrijs2005/moneylog/internal/client/sync"
	"github.com/dmitrijs2005/moneylog/internal/client/vault"
	"github.com/dmitrijs2005/moneylog/internal/logging"
)

// App wires the device-side components behind the REPL. The engine and
// scheduler are rebuilt whenever the vault identity changes (link, pair,
// unlink), since the remote adapter is bound to one vault namespace.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	prefs   prefs.Store
	vaults  *vault.Service
	intents *syncx.IntentQueue
	ledger  *services.Ledger

	mu        sync.Mutex
	engine    *syncx.Engine
	scheduler *syncx.Scheduler
	stop      context.CancelFunc

	runCtx context.Context
}

// NewApp opens the local stores and builds the sync machinery. The passed
// ctx bounds the lifetime of the background sync worker.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	store, err := prefs.OpenBadger(c.PrefsDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		config:  c,
		log:     log,
		db:      db,
		prefs:   store,
		vaults:  vault.NewService(store),
		intents: syncx.NewIntentQueue(store),
		runCtx:  ctx,
	}

	// First launch mints the vault identity this device will host.
	if _, err := a.vaults.GetOrCreate(); err != nil {
		a.Close()
		return nil, err
	}

	// The app itself is the ledger's sync requester, so the ledger never
	// holds a stale scheduler after a rebuild.
	a.ledger = services.NewLedger(db, a.intents, a, log)

	if err := a.rebuildSync(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Schedule requests a background sync pass on the current scheduler.
func (a *App) Schedule(forcePush bool) {
	a.mu.Lock()
	s := a.scheduler
	a.mu.Unlock()
	if s != nil {
		s.Schedule(forcePush)
	}
}

// rebuildSync tears down the running sync worker and builds a fresh
// adapter, engine and scheduler against the current vault.
func (a *App) rebuildSync() error {
	v, err := a.vaults.Current()
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stop != nil {
		a.stop()
	}
	workerCtx, cancel := context.WithCancel(a.runCtx)
	a.stop = cancel

	store := remote.NewHTTPStore(a.config.ServerBaseURL, v.ID, &http.Client{Timeout: a.config.SyncTimeout})
	a.engine = syncx.NewEngine(transactions.NewSQLiteRepository(a.db), store, a.vaults, a.intents, a.log)
	a.scheduler = syncx.NewScheduler(a.engine, a.log, a.config.SyncTimeout)
	a.scheduler.Start(workerCtx)
	return nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close releases the local stores and stops the sync worker.
func (a *App) Close() {
	a.mu.Lock()
	if a.stop != nil {
		a.stop()
	}
	a.mu.Unlock()

	if a.prefs != nil {
		if err := a.prefs.Close(); err != nil {
			a.log.Warn(a.runCtx, "failed to close prefs store", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(a.runCtx, "failed to close database", "error", err)
		}
	}
}

func (a *App) getStatus() string {
	v, err := a.vaults.Current()
	if err != nil || len(v.ID) < 8 {
		return ""
	}
	return "(" + v.ID[:8] + ")"
}
