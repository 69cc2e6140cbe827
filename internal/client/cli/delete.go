package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/moneylog/internal/common"
)

// Delete removes an entry locally and queues the deletion for propagation
// to the other devices.
func (a *App) Delete(ctx context.Context, args []string) error {
	ts, ok := parseTimestampArg(args, "Usage: delete <timestamp>")
	if !ok {
		return nil
	}

	if err := a.ledger.Delete(ctx, ts); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No entry with timestamp", ts)
		} else {
			printlnFn("Failed to delete:", err.Error())
		}
		return err
	}
	printlnFn("Deleted", ts)
	return nil
}
