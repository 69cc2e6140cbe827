// Package transactions provides the local ledger store. The sync engine
// consumes it through the Repository interface; SQLiteRepository is the
// production implementation.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/moneylog/internal/client/models"
)

// Repository is the CRUD surface over the device-local ledger.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Transaction, error)
	GetByTimestamp(ctx context.Context, ts int64) (*models.Transaction, error)
	Insert(ctx context.Context, t *models.Transaction) error
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, t *models.Transaction) error
	Search(ctx context.Context, query string) ([]models.Transaction, error)

	// CheckDuplicate counts records with the same amount and description in
	// the [start, end] timestamp window. Used by imports to avoid re-adding
	// an entry that only differs by a few seconds.
	CheckDuplicate(ctx context.Context, amount float64, description string, start, end int64) (int, error)

	GetAssets(ctx context.Context) ([]models.Transaction, error)
	GetLiabilities(ctx context.Context) ([]models.Transaction, error)
	TotalBalance(ctx context.Context) (float64, error)
	TotalAssets(ctx context.Context) (float64, error)
	TotalLiabilities(ctx context.Context) (float64, error)
}
