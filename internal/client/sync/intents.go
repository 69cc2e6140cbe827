package sync

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/moneylog/internal/client/prefs"
)

const (
	keyPendingDeletes = "pending_deletes"
	keyPendingEdits   = "pending_edits"
)

// IntentQueue persists the two pending-intent sets that bias conflict
// resolution toward just-made local changes. Entries are record timestamps
// rendered as decimal strings; values are JSON string arrays in the prefs
// store with set semantics.
//
// An entry is added when the local mutation happens and removed only once
// the engine has confirmed the intent was honored remotely, so an
// interrupted pass retries it on the next one.
type IntentQueue struct {
	prefs prefs.Store
}

func NewIntentQueue(store prefs.Store) *IntentQueue {
	return &IntentQueue{prefs: store}
}

func (q *IntentQueue) QueueDelete(ts int64) error { return q.add(keyPendingDeletes, ts) }
func (q *IntentQueue) QueueEdit(ts int64) error   { return q.add(keyPendingEdits, ts) }

func (q *IntentQueue) RemovePendingDelete(ts int64) error { return q.remove(keyPendingDeletes, ts) }
func (q *IntentQueue) RemovePendingEdit(ts int64) error   { return q.remove(keyPendingEdits, ts) }

// PendingDeletes returns the current pending-delete set.
func (q *IntentQueue) PendingDeletes() (map[string]struct{}, error) {
	return q.readSet(keyPendingDeletes)
}

// PendingEdits returns the current pending-edit set.
func (q *IntentQueue) PendingEdits() (map[string]struct{}, error) {
	return q.readSet(keyPendingEdits)
}

func (q *IntentQueue) add(key string, ts int64) error {
	set, err := q.readSet(key)
	if err != nil {
		return err
	}
	set[strconv.FormatInt(ts, 10)] = struct{}{}
	return q.writeSet(key, set)
}

func (q *IntentQueue) remove(key string, ts int64) error {
	set, err := q.readSet(key)
	if err != nil {
		return err
	}
	delete(set, strconv.FormatInt(ts, 10))
	return q.writeSet(key, set)
}

func (q *IntentQueue) readSet(key string) (map[string]struct{}, error) {
	raw, ok, err := q.prefs.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent set %q: %w", key, err)
	}
	set := make(map[string]struct{})
	if !ok || raw == "" {
		return set, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("corrupt intent set %q: %w", key, err)
	}
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set, nil
}

func (q *IntentQueue) writeSet(key string, set map[string]struct{}) error {
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)

	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := q.prefs.Set(key, string(raw)); err != nil {
		return fmt.Errorf("failed to write intent set %q: %w", key, err)
	}
	return nil
}
