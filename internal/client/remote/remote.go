// Package remote abstracts the shared backend as two sub-collections under
// a vault namespace: live encrypted records and deletion tombstones. The
// backend is untrusted and content-blind; every value it sees is either an
// opaque base64 token or a deletion timestamp.
package remote

import (
	"context"

	"github.com/dmitrijs2005/moneylog/internal/common"
)

// ErrUnavailable marks any transport-level failure talking to the backend.
// It is the same sentinel the engine uses to abort a pass.
var ErrUnavailable = common.ErrRemoteUnavailable

// Store is the adapter surface the reconciliation engine drives. No
// transactions or multi-key atomicity are assumed: the engine must stay
// correct under read-then-write races between devices.
type Store interface {
	// Transactions snapshot-reads the live collection: stable id -> token.
	Transactions(ctx context.Context) (map[string]string, error)

	// Tombstones snapshot-reads the deleted collection:
	// stable id -> deletion timestamp (ms).
	Tombstones(ctx context.Context) (map[string]int64, error)

	PutTransaction(ctx context.Context, id, token string) error
	RemoveTransaction(ctx context.Context, id string) error
	PutTombstone(ctx context.Context, id string, deletedAt int64) error
}
