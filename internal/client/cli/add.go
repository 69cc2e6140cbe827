package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/moneylog/internal/client/models"
)

// Add records a new ledger entry. The first argument is the signed cash
// amount, the rest is the description. For asset/liability entries the
// obligation amount is derived by the ledger service.
func (a *App) Add(ctx context.Context, nature models.Nature, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: add <amount> <description>")
		return nil
	}

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		printlnFn("Invalid amount:", args[0])
		return nil
	}
	description := strings.Join(args[1:], " ")

	t, err := a.ledger.Add(ctx, strings.Join(args, " "), amount, description, nature)
	if err != nil {
		printlnFn("Failed to add entry:", err.Error())
		return err
	}
	printlnFn("Added", formatTransaction(t))
	return nil
}
