package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/moneylog/internal/common"
)

func parseTimestampArg(args []string, usage string) (int64, bool) {
	if len(args) != 1 {
		printlnFn(usage)
		return 0, false
	}
	ts, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Invalid timestamp:", args[0])
		return 0, false
	}
	return ts, true
}

// Settle closes an open obligation by its timestamp (as shown by list).
func (a *App) Settle(ctx context.Context, args []string) error {
	ts, ok := parseTimestampArg(args, "Usage: settle <timestamp>")
	if !ok {
		return nil
	}

	settlement, err := a.ledger.Settle(ctx, ts)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			printlnFn("No entry with timestamp", ts)
		case errors.Is(err, common.ErrNotObligation):
			printlnFn("Entry is not an open obligation")
		default:
			printlnFn("Failed to settle:", err.Error())
		}
		return err
	}
	printlnFn("Settled. Booked", formatTransaction(settlement))
	return nil
}

// Unmark reclassifies an obligation as a normal entry without booking a
// repayment.
func (a *App) Unmark(ctx context.Context, args []string) error {
	ts, ok := parseTimestampArg(args, "Usage: unmark <timestamp>")
	if !ok {
		return nil
	}

	if err := a.ledger.Unmark(ctx, ts); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			printlnFn("No entry with timestamp", ts)
		case errors.Is(err, common.ErrNotObligation):
			printlnFn("Entry is not an open obligation")
		default:
			printlnFn("Failed to unmark:", err.Error())
		}
		return err
	}
	printlnFn("Unmarked", ts)
	return nil
}
