// Package services holds the client-side use cases above the repositories:
// the ledger operations the CLI invokes, each of which records the sync
// intent the mutation implies.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moneylog/internal/client/models"
	"github.com/dmitrijs2005/moneylog/internal/client/repositories/transactions"
	syncx "github.com/dmitrijs2005/moneylog/internal/client/sync"
	"github.com/dmitrijs2005/moneylog/internal/common"
	"github.com/dmitrijs2005/moneylog/internal/dbx"
	"github.com/dmitrijs2005/moneylog/internal/logging"
)

// duplicateWindowMs is how far apart two otherwise identical records may sit
// before an import considers them distinct.
const duplicateWindowMs = 60_000

// timestampRetries bounds the millisecond bump loop when minting a creation
// timestamp that is already taken.
const timestampRetries = 5

// SyncRequester is the slice of the scheduler the ledger needs. May be
// satisfied by *sync.Scheduler.
type SyncRequester interface {
	Schedule(forcePush bool)
}

// Ledger implements the transaction use cases. Every mutation queues the
// matching intent before requesting a background sync, so a crash between
// the two leaves the intent queued rather than the change unflagged.
type Ledger struct {
	db      *sql.DB
	repo    transactions.Repository
	intents *syncx.IntentQueue
	syncer  SyncRequester
	log     logging.Logger

	now func() time.Time
}

// Totals aggregates the three headline figures.
type Totals struct {
	Balance     float64
	Assets      float64
	Liabilities float64
}

func NewLedger(db *sql.DB, intents *syncx.IntentQueue, syncer SyncRequester, log logging.Logger) *Ledger {
	return &Ledger{
		db:      db,
		repo:    transactions.NewSQLiteRepository(db),
		intents: intents,
		syncer:  syncer,
		log:     log,
		now:     time.Now,
	}
}

// Add creates a ledger entry with a freshly minted timestamp. For ASSET and
// LIABILITY entries the obligation amount is the negation of the cash
// amount: lending out 500 is Amount=-500, ObligationAmount=+500.
func (l *Ledger) Add(ctx context.Context, originalText string, amount float64, description string, nature models.Nature) (*models.Transaction, error) {
	if !nature.Valid() {
		return nil, fmt.Errorf("unknown nature %q", nature)
	}

	ts, err := l.mintTimestamp(ctx, l.repo)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		OriginalText: originalText,
		Amount:       amount,
		Description:  description,
		Timestamp:    ts,
		Nature:       nature,
	}
	if nature.IsObligation() {
		t.ObligationAmount = -amount
	}

	if err := l.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	l.noteEdit(ctx, t.Timestamp)
	l.requestSync()
	return t, nil
}

// Update rewrites the mutable fields of an existing record. The timestamp
// is the identity and never changes.
func (l *Ledger) Update(ctx context.Context, t *models.Transaction) error {
	if !t.Nature.Valid() {
		return fmt.Errorf("unknown nature %q", t.Nature)
	}
	if err := l.repo.Update(ctx, t); err != nil {
		return err
	}
	l.noteEdit(ctx, t.Timestamp)
	l.requestSync()
	return nil
}

// Delete removes the record locally and queues the deletion for
// propagation. The remote copy stays until the next sync pass drains the
// intent into a tombstone.
func (l *Ledger) Delete(ctx context.Context, ts int64) error {
	t, err := l.repo.GetByTimestamp(ctx, ts)
	if err != nil {
		return err
	}
	if err := l.repo.Delete(ctx, t); err != nil {
		return err
	}
	if err := l.intents.QueueDelete(ts); err != nil {
		l.log.Warn(ctx, "failed to queue delete intent", "timestamp", ts, "error", err)
	}
	l.requestSync()
	return nil
}

// Settle closes an open obligation: a new NORMAL record books the repayment
// cash flow (amount = the obligation amount), and the original is
// reclassified to NORMAL in place so it stops counting as open. Both writes
// happen in one local transaction; the original's timestamp is untouched.
func (l *Ledger) Settle(ctx context.Context, ts int64) (*models.Transaction, error) {
	var settlement *models.Transaction

	err := dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := transactions.NewSQLiteRepository(tx)

		orig, err := repo.GetByTimestamp(ctx, ts)
		if err != nil {
			return err
		}
		if !orig.Nature.IsObligation() {
			return common.ErrNotObligation
		}

		settleTS, err := l.mintTimestamp(ctx, repo)
		if err != nil {
			return err
		}

		settlement = &models.Transaction{
			OriginalText: fmt.Sprintf("Settlement: %s", orig.Description),
			Amount:       orig.ObligationAmount,
			Description:  fmt.Sprintf("Settlement: %s", orig.Description),
			Timestamp:    settleTS,
			Nature:       models.NatureNormal,
		}
		if err := repo.Insert(ctx, settlement); err != nil {
			return err
		}

		orig.Nature = models.NatureNormal
		return repo.Update(ctx, orig)
	})
	if err != nil {
		return nil, err
	}

	l.noteEdit(ctx, ts)
	l.noteEdit(ctx, settlement.Timestamp)
	l.requestSync()
	return settlement, nil
}

// Unmark reclassifies an obligation to NORMAL without booking a settlement,
// for records that were marked by mistake.
func (l *Ledger) Unmark(ctx context.Context, ts int64) error {
	t, err := l.repo.GetByTimestamp(ctx, ts)
	if err != nil {
		return err
	}
	if !t.Nature.IsObligation() {
		return common.ErrNotObligation
	}
	t.Nature = models.NatureNormal
	if err := l.repo.Update(ctx, t); err != nil {
		return err
	}
	l.noteEdit(ctx, ts)
	l.requestSync()
	return nil
}

// Import inserts a batch of externally sourced records, skipping any whose
// amount and description already exist within a minute of its timestamp.
// Returns how many were added and how many were skipped as duplicates.
func (l *Ledger) Import(ctx context.Context, records []models.Transaction) (added, skipped int, err error) {
	for i := range records {
		rec := records[i]

		count, err := l.repo.CheckDuplicate(ctx, rec.Amount, rec.Description,
			rec.Timestamp-duplicateWindowMs, rec.Timestamp+duplicateWindowMs)
		if err != nil {
			return added, skipped, err
		}
		if count > 0 {
			skipped++
			continue
		}

		if rec.Nature == "" {
			rec.Nature = models.NatureNormal
		}
		// Same instant, different content: shift forward rather than
		// colliding with the existing identity.
		ts, err := l.freeTimestamp(ctx, l.repo, rec.Timestamp)
		if err != nil {
			return added, skipped, err
		}
		rec.Timestamp = ts

		if err := l.repo.Insert(ctx, &rec); err != nil {
			return added, skipped, err
		}
		l.noteEdit(ctx, rec.Timestamp)
		added++
	}

	if added > 0 {
		l.requestSync()
	}
	return added, skipped, nil
}

func (l *Ledger) List(ctx context.Context) ([]models.Transaction, error) {
	return l.repo.GetAll(ctx)
}

func (l *Ledger) Assets(ctx context.Context) ([]models.Transaction, error) {
	return l.repo.GetAssets(ctx)
}

func (l *Ledger) Liabilities(ctx context.Context) ([]models.Transaction, error) {
	return l.repo.GetLiabilities(ctx)
}

func (l *Ledger) Search(ctx context.Context, query string) ([]models.Transaction, error) {
	return l.repo.Search(ctx, query)
}

func (l *Ledger) Get(ctx context.Context, ts int64) (*models.Transaction, error) {
	return l.repo.GetByTimestamp(ctx, ts)
}

// Totals reads the three headline figures in one call.
func (l *Ledger) Totals(ctx context.Context) (Totals, error) {
	balance, err := l.repo.TotalBalance(ctx)
	if err != nil {
		return Totals{}, err
	}
	assets, err := l.repo.TotalAssets(ctx)
	if err != nil {
		return Totals{}, err
	}
	liabilities, err := l.repo.TotalLiabilities(ctx)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Balance: balance, Assets: assets, Liabilities: liabilities}, nil
}

// mintTimestamp returns the current wall clock in milliseconds, bumped past
// any taken slot. Collisions only happen when two records are created within
// the same millisecond on one device.
func (l *Ledger) mintTimestamp(ctx context.Context, repo transactions.Repository) (int64, error) {
	return l.freeTimestamp(ctx, repo, l.now().UnixMilli())
}

// freeTimestamp bumps ts by one millisecond at a time until the slot is
// free, giving up after a few tries.
func (l *Ledger) freeTimestamp(ctx context.Context, repo transactions.Repository, ts int64) (int64, error) {
	for i := 0; i < timestampRetries; i++ {
		_, err := repo.GetByTimestamp(ctx, ts)
		if errors.Is(err, common.ErrNotFound) {
			return ts, nil
		}
		if err != nil {
			return 0, err
		}
		ts++
	}
	return 0, common.ErrDuplicateTimestamp
}

// noteEdit records the pending-edit intent. Failure to record it only
// weakens conflict resolution for this record, so it is logged, not fatal.
func (l *Ledger) noteEdit(ctx context.Context, ts int64) {
	if err := l.intents.QueueEdit(ts); err != nil {
		l.log.Warn(ctx, "failed to queue edit intent", "timestamp", ts, "error", err)
	}
}

func (l *Ledger) requestSync() {
	if l.syncer != nil {
		l.syncer.Schedule(false)
	}
}
