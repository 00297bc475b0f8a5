package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStore_Add(t *testing.T) {
	store := NewHistoryStore(setupTestDB(t))

	h := &HistoryEntry{
		BatchID:    "batch-1",
		Profile:    "Friends",
		Status:     StatusImported,
		SourcePath: "/data/LethalCompany/profiles/Friends",
	}

	require.NoError(t, store.Add(h))

	assert.NotZero(t, h.ID, "ID should be set after Add")
	assert.False(t, h.CreatedAt.IsZero(), "CreatedAt should be set")
}

func TestHistoryStore_List(t *testing.T) {
	store := NewHistoryStore(setupTestDB(t))

	entries := []HistoryEntry{
		{BatchID: "a", Profile: "One", Status: StatusImported},
		{BatchID: "a", Profile: "Two", Status: StatusFailed, Error: "boom"},
		{BatchID: "b", Profile: "One", Status: StatusImported},
	}
	for i := range entries {
		require.NoError(t, store.Add(&entries[i]))
		time.Sleep(time.Millisecond) // Ensure different timestamps
	}

	// List all
	got, err := store.List(HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// List by batch
	batch := "a"
	got, err = store.List(HistoryFilter{BatchID: &batch})
	require.NoError(t, err, "List by batch")
	assert.Len(t, got, 2)

	// List by status
	status := StatusFailed
	got, err = store.List(HistoryFilter{Status: &status})
	require.NoError(t, err, "List by status")
	require.Len(t, got, 1)
	assert.Equal(t, "Two", got[0].Profile)
	assert.Equal(t, "boom", got[0].Error)

	// List with limit
	got, err = store.List(HistoryFilter{Limit: 2})
	require.NoError(t, err, "List with limit")
	assert.Len(t, got, 2, "expected 2 entries with limit")
}

func TestHistoryStore_List_OrderByRecent(t *testing.T) {
	store := NewHistoryStore(setupTestDB(t))

	for _, name := range []string{"First", "Second", "Third"} {
		require.NoError(t, store.Add(&HistoryEntry{BatchID: "x", Profile: name, Status: StatusImported}))
		time.Sleep(time.Millisecond)
	}

	entries, err := store.List(HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Third", entries[0].Profile)
	assert.Equal(t, "First", entries[2].Profile)
}
