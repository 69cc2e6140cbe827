package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moneylog/internal/client/models"
	"github.com/dmitrijs2005/moneylog/internal/common"
	"github.com/dmitrijs2005/moneylog/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, original_text, amount, description, timestamp, nature, obligation_amount`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	t := &models.Transaction{}
	var nature string
	if err := row.Scan(&t.ID, &t.OriginalText, &t.Amount, &t.Description, &t.Timestamp, &nature, &t.ObligationAmount); err != nil {
		return nil, err
	}
	t.Nature = models.Nature(nature)
	return t, nil
}

func (r *SQLiteRepository) queryList(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAll lists every transaction, newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Transaction, error) {
	query := `select ` + selectColumns + ` from transactions order by timestamp desc`
	return r.queryList(ctx, query)
}

// GetByTimestamp returns the transaction with the exact timestamp, or
// common.ErrNotFound when no row matches.
func (r *SQLiteRepository) GetByTimestamp(ctx context.Context, ts int64) (*models.Transaction, error) {
	query := `select ` + selectColumns + ` from transactions where timestamp=?`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, ts))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return t, nil
}

// Insert stores a new transaction and fills in its row id.
func (r *SQLiteRepository) Insert(ctx context.Context, t *models.Transaction) error {
	query := `insert into transactions (original_text, amount, description, timestamp, nature, obligation_amount)
			values (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		t.OriginalText, t.Amount, t.Description, t.Timestamp, string(t.Nature), t.ObligationAmount)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	t.ID = id
	return nil
}

// Update rewrites the mutable fields of an existing row. The timestamp
// column is deliberately not part of the SET list.
func (r *SQLiteRepository) Update(ctx context.Context, t *models.Transaction) error {
	query := `update transactions set original_text=?, amount=?, description=?, nature=?, obligation_amount=?
			where id=?`
	res, err := r.db.ExecContext(ctx, query,
		t.OriginalText, t.Amount, t.Description, string(t.Nature), t.ObligationAmount, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

// Delete removes the row for good. Tombstoning happens remotely, not here.
func (r *SQLiteRepository) Delete(ctx context.Context, t *models.Transaction) error {
	query := `delete from transactions where id=?`
	if _, err := r.db.ExecContext(ctx, query, t.ID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// Search matches the query against description and original text.
func (r *SQLiteRepository) Search(ctx context.Context, query string) ([]models.Transaction, error) {
	q := `select ` + selectColumns + ` from transactions
			where description like ? or original_text like ? order by timestamp desc`
	pattern := "%" + query + "%"
	return r.queryList(ctx, q, pattern, pattern)
}

// CheckDuplicate counts rows with the same amount and description whose
// timestamp falls in [start, end].
func (r *SQLiteRepository) CheckDuplicate(ctx context.Context, amount float64, description string, start, end int64) (int, error) {
	query := `select count(*) from transactions where amount=? and description=? and timestamp between ? and ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, amount, description, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count duplicates: %w", err)
	}
	return count, nil
}

// GetAssets lists open asset records (money lent out, not yet settled).
func (r *SQLiteRepository) GetAssets(ctx context.Context) ([]models.Transaction, error) {
	query := `select ` + selectColumns + ` from transactions where nature='ASSET' order by timestamp desc`
	return r.queryList(ctx, query)
}

// GetLiabilities lists open liability records.
func (r *SQLiteRepository) GetLiabilities(ctx context.Context) ([]models.Transaction, error) {
	query := `select ` + selectColumns + ` from transactions where nature='LIABILITY' order by timestamp desc`
	return r.queryList(ctx, query)
}

func (r *SQLiteRepository) sum(ctx context.Context, query string, args ...any) (float64, error) {
	var total sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total.Float64, nil
}

// TotalBalance sums cash amounts over every record.
func (r *SQLiteRepository) TotalBalance(ctx context.Context) (float64, error) {
	return r.sum(ctx, `select sum(amount) from transactions`)
}

// TotalAssets sums the obligation amounts of open assets.
func (r *SQLiteRepository) TotalAssets(ctx context.Context) (float64, error) {
	return r.sum(ctx, `select sum(obligation_amount) from transactions where nature='ASSET'`)
}

// TotalLiabilities sums the obligation amounts of open liabilities.
func (r *SQLiteRepository) TotalLiabilities(ctx context.Context) (float64, error) {
	return r.sum(ctx, `select sum(obligation_amount) from transactions where nature='LIABILITY'`)
}
