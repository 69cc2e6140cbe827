package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/moneylog/internal/client/localdb"
	"github.com/dmitrijs2005/moneylog/internal/client/models"
	"github.com/dmitrijs2005/moneylog/internal/client/prefs"
	syncx "github.com/dmitrijs2005/moneylog/internal/client/sync"
	"github.com/dmitrijs2005/moneylog/internal/common"
	"github.com/dmitrijs2005/moneylog/internal/logging"

	_ "modernc.org/sqlite"
)

type recordingSyncer struct {
	calls int
}

func (r *recordingSyncer) Schedule(forcePush bool) { r.calls++ }

func newLedger(t *testing.T) (*Ledger, *syncx.IntentQueue, *recordingSyncer) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, localdb.RunMigrations(context.Background(), db))

	intents := syncx.NewIntentQueue(prefs.NewMemoryStore())
	syncer := &recordingSyncer{}
	l := NewLedger(db, intents, syncer, logging.NewNopLogger())
	return l, intents, syncer
}

func TestAdd_NormalEntry(t *testing.T) {
	l, intents, syncer := newLedger(t)
	ctx := context.Background()

	got, err := l.Add(ctx, "coffee 3.5", -3.5, "coffee", models.NatureNormal)
	require.NoError(t, err)
	assert.NotZero(t, got.Timestamp)
	assert.Zero(t, got.ObligationAmount)

	edits, err := intents.PendingEdits()
	require.NoError(t, err)
	assert.Len(t, edits, 1)
	assert.Equal(t, 1, syncer.calls)
}

func TestAdd_ObligationNegatesAmount(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()

	lent, err := l.Add(ctx, "lent sam 500", -500, "loan to sam", models.NatureAsset)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, lent.ObligationAmount, 1e-9)

	borrowed, err := l.Add(ctx, "borrowed 200", 200, "borrowed from kim", models.NatureLiability)
	require.NoError(t, err)
	assert.InDelta(t, -200.0, borrowed.ObligationAmount, 1e-9)
}

func TestAdd_RejectsUnknownNature(t *testing.T) {
	l, _, syncer := newLedger(t)
	_, err := l.Add(context.Background(), "x", 1, "x", models.Nature("WEIRD"))
	require.Error(t, err)
	assert.Zero(t, syncer.calls)
}

func TestAdd_SameMillisecondGetsDistinctTimestamps(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()
	frozen := time.UnixMilli(1_700_000_000_000)
	l.now = func() time.Time { return frozen }

	first, err := l.Add(ctx, "a", -1, "a", models.NatureNormal)
	require.NoError(t, err)
	second, err := l.Add(ctx, "b", -2, "b", models.NatureNormal)
	require.NoError(t, err)

	assert.Equal(t, int64(1_700_000_000_000), first.Timestamp)
	assert.Equal(t, int64(1_700_000_000_001), second.Timestamp)
}

func TestUpdate_KeepsTimestampAndQueuesEdit(t *testing.T) {
	l, intents, _ := newLedger(t)
	ctx := context.Background()

	tx, err := l.Add(ctx, "dinner", -40, "dinner", models.NatureNormal)
	require.NoError(t, err)

	tx.Description = "dinner with kim"
	tx.Amount = -55
	require.NoError(t, l.Update(ctx, tx))

	reread, err := l.Get(ctx, tx.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, "dinner with kim", reread.Description)
	assert.InDelta(t, -55.0, reread.Amount, 1e-9)
	assert.Equal(t, tx.Timestamp, reread.Timestamp)

	edits, err := intents.PendingEdits()
	require.NoError(t, err)
	assert.Len(t, edits, 1)
}

func TestDelete_QueuesIntentAndRemovesRow(t *testing.T) {
	l, intents, syncer := newLedger(t)
	ctx := context.Background()

	tx, err := l.Add(ctx, "dinner", -40, "dinner", models.NatureNormal)
	require.NoError(t, err)

	require.NoError(t, l.Delete(ctx, tx.Timestamp))

	_, err = l.Get(ctx, tx.Timestamp)
	assert.ErrorIs(t, err, common.ErrNotFound)

	deletes, err := intents.PendingDeletes()
	require.NoError(t, err)
	assert.Len(t, deletes, 1)
	assert.Equal(t, 2, syncer.calls)
}

func TestDelete_MissingRecord(t *testing.T) {
	l, _, _ := newLedger(t)
	err := l.Delete(context.Background(), 12345)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSettle_BooksRepaymentAndReclassifies(t *testing.T) {
	l, intents, _ := newLedger(t)
	ctx := context.Background()

	loan, err := l.Add(ctx, "lent sam 500", -500, "loan to sam", models.NatureAsset)
	require.NoError(t, err)

	settlement, err := l.Settle(ctx, loan.Timestamp)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, settlement.Amount, 1e-9)
	assert.Equal(t, "Settlement: loan to sam", settlement.Description)
	assert.Equal(t, models.NatureNormal, settlement.Nature)
	assert.NotEqual(t, loan.Timestamp, settlement.Timestamp)

	reread, err := l.Get(ctx, loan.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, models.NatureNormal, reread.Nature)
	assert.Equal(t, loan.Timestamp, reread.Timestamp)

	// No open obligations remain and the cash washed out.
	totals, err := l.Totals(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, totals.Balance, 1e-9)
	assert.InDelta(t, 0.0, totals.Assets, 1e-9)

	edits, err := intents.PendingEdits()
	require.NoError(t, err)
	assert.Len(t, edits, 2)
}

func TestSettle_RejectsNormalRecord(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()

	tx, err := l.Add(ctx, "coffee", -3, "coffee", models.NatureNormal)
	require.NoError(t, err)

	_, err = l.Settle(ctx, tx.Timestamp)
	assert.ErrorIs(t, err, common.ErrNotObligation)
}

func TestUnmark_ReclassifiesWithoutCashFlow(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()

	loan, err := l.Add(ctx, "lent 100", -100, "small loan", models.NatureAsset)
	require.NoError(t, err)

	require.NoError(t, l.Unmark(ctx, loan.Timestamp))

	reread, err := l.Get(ctx, loan.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, models.NatureNormal, reread.Nature)

	all, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "unmark must not create a record")
}

func TestImport_SkipsNearDuplicates(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()

	existing, err := l.Add(ctx, "rent", -900, "rent", models.NatureNormal)
	require.NoError(t, err)

	batch := []models.Transaction{
		// Same amount and description 30s later: a duplicate.
		{OriginalText: "rent", Amount: -900, Description: "rent", Timestamp: existing.Timestamp + 30_000},
		// Same amount and description well outside the window: distinct.
		{OriginalText: "rent", Amount: -900, Description: "rent", Timestamp: existing.Timestamp + 3_600_000},
		{OriginalText: "gym", Amount: -25, Description: "gym", Timestamp: existing.Timestamp + 1},
	}

	added, skipped, err := l.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, skipped)

	all, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImport_SecondRunIsIdempotent(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()

	batch := []models.Transaction{
		{OriginalText: "gas", Amount: -50, Description: "gas", Timestamp: 1_700_000_000_000},
	}

	added, skipped, err := l.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Zero(t, skipped)

	added, skipped, err = l.Import(ctx, batch)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, 1, skipped)
}

func TestTotals(t *testing.T) {
	l, _, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.Add(ctx, "salary", 3000, "salary", models.NatureNormal)
	require.NoError(t, err)
	_, err = l.Add(ctx, "lent 500", -500, "loan", models.NatureAsset)
	require.NoError(t, err)
	_, err = l.Add(ctx, "borrowed 200", 200, "borrowed", models.NatureLiability)
	require.NoError(t, err)

	totals, err := l.Totals(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2700.0, totals.Balance, 1e-9)
	assert.InDelta(t, 500.0, totals.Assets, 1e-9)
	assert.InDelta(t, -200.0, totals.Liabilities, 1e-9)
}
