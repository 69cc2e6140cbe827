package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moneylog/internal/client/models"
)

// formatTransaction renders one entry for the terminal. The timestamp is
// printed raw as well, since it is what settle/delete commands take.
func formatTransaction(t *models.Transaction) string {
	when := time.UnixMilli(t.Timestamp).Format("2006-01-02 15:04")
	s := fmt.Sprintf("[%d] %s  %+.2f  %s", t.Timestamp, when, t.Amount, t.Description)
	if t.Nature.IsObligation() {
		s += fmt.Sprintf("  (%s %+.2f)", t.Nature, t.ObligationAmount)
	}
	return s
}

func (a *App) printList(items []models.Transaction, empty string) {
	if len(items) == 0 {
		printlnFn(empty)
		return
	}
	for i := range items {
		printlnFn(formatTransaction(&items[i]))
	}
}

func (a *App) List(ctx context.Context) error {
	items, err := a.ledger.List(ctx)
	if err != nil {
		printlnFn("Failed to list entries:", err.Error())
		return err
	}
	a.printList(items, "No entries yet")
	return nil
}

func (a *App) Assets(ctx context.Context) error {
	items, err := a.ledger.Assets(ctx)
	if err != nil {
		printlnFn("Failed to list assets:", err.Error())
		return err
	}
	a.printList(items, "No open assets")
	return nil
}

func (a *App) Liabilities(ctx context.Context) error {
	items, err := a.ledger.Liabilities(ctx)
	if err != nil {
		printlnFn("Failed to list liabilities:", err.Error())
		return err
	}
	a.printList(items, "No open liabilities")
	return nil
}

func (a *App) Totals(ctx context.Context) error {
	totals, err := a.ledger.Totals(ctx)
	if err != nil {
		printlnFn("Failed to compute totals:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Balance: %+.2f  Assets: %+.2f  Liabilities: %+.2f",
		totals.Balance, totals.Assets, totals.Liabilities))
	return nil
}
