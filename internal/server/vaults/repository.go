// Package vaults stores the per-vault record and tombstone collections the
// devices reconcile against. The server never inspects payloads; they are
// opaque encrypted tokens.
package vaults

import "context"

// Repository is the storage surface behind the HTTP API. All operations are
// scoped to one vault namespace.
type Repository interface {
	Records(ctx context.Context, vaultID string) (map[string]string, error)
	PutRecord(ctx context.Context, vaultID, stableID, payload string) error
	// RemoveRecord reports whether the record existed.
	RemoveRecord(ctx context.Context, vaultID, stableID string) (bool, error)

	Tombstones(ctx context.Context, vaultID string) (map[string]int64, error)
	PutTombstone(ctx context.Context, vaultID, stableID string, deletedAtMs int64) error
}
