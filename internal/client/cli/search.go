package cli

import (
	"context"
	"strings"
)

// Search lists entries whose description or original text contains the
// given text.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: search <text>")
		return nil
	}

	items, err := a.ledger.Search(ctx, strings.Join(args, " "))
	if err != nil {
		printlnFn("Search failed:", err.Error())
		return err
	}
	a.printList(items, "No matches")
	return nil
}
