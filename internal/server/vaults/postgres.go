package vaults

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/moneylog/internal/dbx"
	"github.com/dmitrijs2005/moneylog/internal/server/migrations"
)

// PostgresRepository implements Repository over PostgreSQL. Writes use
// upsert semantics so replaying a device's retry is harmless.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to the database at dsn and brings the schema up to date.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}

func (r *PostgresRepository) Records(ctx context.Context, vaultID string) (map[string]string, error) {
	query := `SELECT stable_id, payload FROM vault_records WHERE vault_id = $1`
	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := map[string]string{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		result[id] = payload
	}
	return result, rows.Err()
}

func (r *PostgresRepository) PutRecord(ctx context.Context, vaultID, stableID, payload string) error {
	query := `INSERT INTO vault_records (vault_id, stable_id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (vault_id, stable_id) DO UPDATE SET payload = EXCLUDED.payload`
	if _, err := r.db.ExecContext(ctx, query, vaultID, stableID, payload); err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveRecord(ctx context.Context, vaultID, stableID string) (bool, error) {
	query := `DELETE FROM vault_records WHERE vault_id = $1 AND stable_id = $2`
	res, err := r.db.ExecContext(ctx, query, vaultID, stableID)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return ra > 0, nil
}

func (r *PostgresRepository) Tombstones(ctx context.Context, vaultID string) (map[string]int64, error) {
	query := `SELECT stable_id, deleted_at_ms FROM vault_tombstones WHERE vault_id = $1`
	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tombstones: %w", err)
	}
	defer rows.Close()

	result := map[string]int64{}
	for rows.Next() {
		var id string
		var deletedAt int64
		if err := rows.Scan(&id, &deletedAt); err != nil {
			return nil, err
		}
		result[id] = deletedAt
	}
	return result, rows.Err()
}

func (r *PostgresRepository) PutTombstone(ctx context.Context, vaultID, stableID string, deletedAtMs int64) error {
	query := `INSERT INTO vault_tombstones (vault_id, stable_id, deleted_at_ms)
		VALUES ($1, $2, $3)
		ON CONFLICT (vault_id, stable_id) DO UPDATE SET deleted_at_ms = EXCLUDED.deleted_at_ms`
	if _, err := r.db.ExecContext(ctx, query, vaultID, stableID, deletedAtMs); err != nil {
		return fmt.Errorf("failed to upsert tombstone: %w", err)
	}
	return nil
}
