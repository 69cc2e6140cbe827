// Package sync implements the reconciliation engine: the per-pass algorithm
// that converges the local ledger and the shared encrypted vault across
// partially-connected devices.
//
// The protocol carries no logical clocks. When two copies of a record
// diverge the engine cannot tell which is newer, so it biases toward the
// copy most likely to be current: a device that just mutated a record
// remembers that (pending edit) and gets to override; otherwise the remote
// copy wins over a possibly-stale local cache. Concurrent edits on two
// devices between syncs can therefore silently lose one side. That is an
// accepted trade-off of the design, not a bug.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/moneylog/internal/client/remote"
	"github.com/dmitrijs2005/moneylog/internal/client/repositories/transactions"
	"github.com/dmitrijs2005/moneylog/internal/client/vault"
	"github.com/dmitrijs2005/moneylog/internal/common"
	"github.com/dmitrijs2005/moneylog/internal/logging"
)

// Outcome summarizes one sync pass for the caller.
type Outcome struct {
	Success bool
	Message string
	Changes int
}

// Engine drives a full sync pass. It owns no persistent state itself: the
// local store, the remote adapter and the intent queues are injected, and
// every pass is a self-contained, retry-safe unit of work. Two passes for
// the same vault must never run concurrently on one device; the Scheduler
// guarantees that.
type Engine struct {
	local   transactions.Repository
	remote  remote.Store
	vaults  *vault.Service
	intents *IntentQueue
	log     logging.Logger

	now func() time.Time // test seam
}

func NewEngine(local transactions.Repository, remoteStore remote.Store, vaults *vault.Service, intents *IntentQueue, log logging.Logger) *Engine {
	return &Engine{
		local:   local,
		remote:  remoteStore,
		vaults:  vaults,
		intents: intents,
		log:     log,
		now:     time.Now,
	}
}

// Run executes one pass in strict order: drain pending deletes, snapshot
// the remote state, capture intents, push, pull, report. forcePush makes
// local data win every conflict regardless of pending-edit status.
//
// A remote or local-store failure in the snapshot/push/pull phases aborts
// the pass; everything not yet applied stays queued for the next one. A
// single unreadable record never aborts anything: it is skipped and the
// pass continues.
func (e *Engine) Run(ctx context.Context, forcePush bool) (Outcome, error) {
	v, err := e.vaults.Current()
	if err != nil {
		if errors.Is(err, common.ErrVaultNotLinked) {
			return Outcome{Success: true, Message: "Sync skipped: no vault linked"}, nil
		}
		return e.fail(err)
	}

	e.drainPendingDeletes(ctx)

	// The snapshot is the authority for the rest of the pass: two bulk
	// reads, no further remote reads.
	remoteRecords, err := e.remote.Transactions(ctx)
	if err != nil {
		return e.fail(err)
	}
	tombstones, err := e.remote.Tombstones(ctx)
	if err != nil {
		return e.fail(err)
	}

	// Intents are captured after the snapshot read, not before, to shrink
	// the window in which an edit made mid-pass could be invisibly
	// overridden by the pull phase.
	pendingEdits, err := e.intents.PendingEdits()
	if err != nil {
		return e.fail(err)
	}
	pendingDeletes, err := e.intents.PendingDeletes()
	if err != nil {
		return e.fail(err)
	}

	changes := 0
	pushed := make(map[string]struct{})

	if err := e.pushPhase(ctx, v, forcePush, remoteRecords, tombstones, pendingEdits, &changes, pushed); err != nil {
		return e.fail(err)
	}
	if err := e.pullPhase(ctx, v, remoteRecords, pushed, pendingDeletes, pendingEdits, &changes); err != nil {
		return e.fail(err)
	}

	msg := "Up to date"
	if changes > 0 {
		msg = fmt.Sprintf("Synced: %d updates", changes)
	}
	return Outcome{Success: true, Message: msg, Changes: changes}, nil
}

// drainPendingDeletes propagates queued local deletions: remove the live
// record, write a tombstone, then clear the intent. Best effort; a failure
// leaves the timestamp queued so the next pass retries it, and both remote
// operations are idempotent.
func (e *Engine) drainPendingDeletes(ctx context.Context) {
	pending, err := e.intents.PendingDeletes()
	if err != nil {
		e.log.Warn(ctx, "failed to read pending deletes", "error", err)
		return
	}

	for tsKey := range pending {
		ts, err := strconv.ParseInt(tsKey, 10, 64)
		if err != nil {
			e.log.Warn(ctx, "skipping unparsable pending delete", "value", tsKey)
			continue
		}

		id := StableID(ts)
		if err := e.remote.RemoveTransaction(ctx, id); err != nil {
			e.log.Warn(ctx, "failed to remove remote record, will retry", "id", id, "error", err)
			continue
		}
		if err := e.remote.PutTombstone(ctx, id, e.now().UnixMilli()); err != nil {
			e.log.Warn(ctx, "failed to write tombstone, will retry", "id", id, "error", err)
			continue
		}
		if err := e.intents.RemovePendingDelete(ts); err != nil {
			e.log.Warn(ctx, "failed to clear pending delete", "id", id, "error", err)
		}
	}
}

// pushPhase walks every local record and decides: delete locally (remote
// tombstone wins), push, or skip. Ids written here are recorded in pushed
// so the pull phase does not treat them as foreign changes.
func (e *Engine) pushPhase(ctx context.Context, v *vault.Vault, forcePush bool,
	remoteRecords map[string]string, tombstones map[string]int64,
	pendingEdits map[string]struct{}, changes *int, pushed map[string]struct{}) error {

	locals, err := e.local.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read local ledger: %w", err)
	}

	for i := range locals {
		t := &locals[i]
		id := StableID(t.Timestamp)

		// A tombstone beats any locally surviving copy, whatever its content.
		if _, dead := tombstones[id]; dead {
			if err := e.local.Delete(ctx, t); err != nil {
				return fmt.Errorf("failed to apply remote deletion: %w", err)
			}
			*changes++
			continue
		}

		tsKey := strconv.FormatInt(t.Timestamp, 10)
		_, isPendingEdit := pendingEdits[tsKey]

		shouldPush := true
		if token, exists := remoteRecords[id]; exists {
			remoteCopy, ok := decodeRecord(token, v.Secret)
			switch {
			case !ok:
				// Unreadable remote copy: treat as absent and overwrite.
				e.log.Warn(ctx, "remote record unreadable, overwriting", "id", id)
			case contentMatches(t, remoteCopy):
				shouldPush = false
				if isPendingEdit {
					// The remote already reflects the edit.
					if err := e.intents.RemovePendingEdit(t.Timestamp); err != nil {
						e.log.Warn(ctx, "failed to clear pending edit", "error", err)
					}
				}
			case !forcePush && !isPendingEdit:
				// Diverged with no local claim to be newer: server wins.
				shouldPush = false
			}
		}

		if shouldPush {
			token, err := encodeRecord(t, v.Secret)
			if err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}
			if err := e.remote.PutTransaction(ctx, id, token); err != nil {
				return err
			}
			pushed[id] = struct{}{}
			if isPendingEdit {
				if err := e.intents.RemovePendingEdit(t.Timestamp); err != nil {
					e.log.Warn(ctx, "failed to clear pending edit", "error", err)
				}
			}
		}
	}
	return nil
}

// pullPhase merges every remote record the push phase did not just write:
// insert it, update the local copy in place, or leave it alone. Records
// whose timestamp carries a local intent are never clobbered within the
// same pass.
func (e *Engine) pullPhase(ctx context.Context, v *vault.Vault,
	remoteRecords map[string]string, pushed map[string]struct{},
	pendingDeletes, pendingEdits map[string]struct{}, changes *int) error {

	for id, token := range remoteRecords {
		if _, ok := pushed[id]; ok {
			continue
		}

		remoteCopy, ok := decodeRecord(token, v.Secret)
		if !ok {
			e.log.Warn(ctx, "skipping unreadable remote record", "id", id)
			continue
		}

		tsKey := strconv.FormatInt(remoteCopy.Timestamp, 10)
		if _, ok := pendingDeletes[tsKey]; ok {
			continue
		}
		if _, ok := pendingEdits[tsKey]; ok {
			continue
		}

		existing, err := e.local.GetByTimestamp(ctx, remoteCopy.Timestamp)
		switch {
		case errors.Is(err, common.ErrNotFound):
			if err := e.local.Insert(ctx, remoteCopy); err != nil {
				return fmt.Errorf("failed to insert pulled record: %w", err)
			}
			*changes++
		case err != nil:
			return fmt.Errorf("failed to look up local record: %w", err)
		case !contentMatches(existing, remoteCopy):
			updated := *existing
			updated.OriginalText = remoteCopy.OriginalText
			updated.Amount = remoteCopy.Amount
			updated.Description = remoteCopy.Description
			updated.Nature = remoteCopy.Nature
			updated.ObligationAmount = remoteCopy.ObligationAmount
			if err := e.local.Update(ctx, &updated); err != nil {
				return fmt.Errorf("failed to update pulled record: %w", err)
			}
			*changes++
		}
	}
	return nil
}

func (e *Engine) fail(err error) (Outcome, error) {
	msg := "Sync failed"
	if errors.Is(err, common.ErrRemoteUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		msg = "Server busy, retry later"
	}
	return Outcome{Success: false, Message: msg}, err
}
