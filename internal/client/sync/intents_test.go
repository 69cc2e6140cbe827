package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/moneylog/internal/client/prefs"
)

func TestIntentQueue_SetSemantics(t *testing.T) {
	q := NewIntentQueue(prefs.NewMemoryStore())

	require.NoError(t, q.QueueDelete(1000))
	require.NoError(t, q.QueueDelete(1000))
	require.NoError(t, q.QueueDelete(2000))

	set, err := q.PendingDeletes()
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Contains(t, set, "1000")
	assert.Contains(t, set, "2000")
}

func TestIntentQueue_DeletesAndEditsAreIndependent(t *testing.T) {
	q := NewIntentQueue(prefs.NewMemoryStore())

	require.NoError(t, q.QueueDelete(1))
	require.NoError(t, q.QueueEdit(2))

	deletes, err := q.PendingDeletes()
	require.NoError(t, err)
	edits, err := q.PendingEdits()
	require.NoError(t, err)

	assert.Contains(t, deletes, "1")
	assert.NotContains(t, deletes, "2")
	assert.Contains(t, edits, "2")
	assert.NotContains(t, edits, "1")
}

func TestIntentQueue_Remove(t *testing.T) {
	q := NewIntentQueue(prefs.NewMemoryStore())

	require.NoError(t, q.QueueEdit(5))
	require.NoError(t, q.RemovePendingEdit(5))
	require.NoError(t, q.RemovePendingEdit(5)) // removing twice is fine

	edits, err := q.PendingEdits()
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestIntentQueue_EmptyStore(t *testing.T) {
	q := NewIntentQueue(prefs.NewMemoryStore())
	set, err := q.PendingDeletes()
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestIntentQueue_SurvivesReopen(t *testing.T) {
	store := prefs.NewMemoryStore()
	q1 := NewIntentQueue(store)
	require.NoError(t, q1.QueueDelete(7))

	q2 := NewIntentQueue(store)
	set, err := q2.PendingDeletes()
	require.NoError(t, err)
	assert.Contains(t, set, "7")
}
