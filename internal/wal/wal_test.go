package wal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzzcdf/cube.js/internal/coltype"
	"github.com/zzzcdf/cube.js/internal/values"
)

func TestAppendAssignsUUID(t *testing.T) {
	store := NewInMemoryStore()
	rows := [][]values.Cell{{{Type: coltype.Int, Int: 1}}}

	e1, err := store.Append(7, rows)
	require.NoError(t, err)
	e2, err := store.Append(7, rows)
	require.NoError(t, err)

	assert.NotEmpty(t, e1.ID)
	assert.NotEqual(t, e1.ID, e2.ID)
}

func TestGetRoundTrips(t *testing.T) {
	store := NewInMemoryStore()
	rows := [][]values.Cell{{{Type: coltype.String, Str: "x"}}}
	e, err := store.Append(3, rows)
	require.NoError(t, err)

	got, ok := store.Get(e.ID)
	require.True(t, ok)
	assert.Equal(t, uint64(3), got.TableID)
	assert.Equal(t, rows, got.Rows)
}

func TestGetMissingReturnsFalse(t *testing.T) {
	store := NewInMemoryStore()
	_, ok := store.Get("nonexistent")
	assert.False(t, ok)
}

func TestRemoveDeletesEntry(t *testing.T) {
	store := NewInMemoryStore()
	e, err := store.Append(1, nil)
	require.NoError(t, err)

	require.NoError(t, store.Remove(e.ID))
	_, ok := store.Get(e.ID)
	assert.False(t, ok)
}

func TestRemoveMissingErrors(t *testing.T) {
	store := NewInMemoryStore()
	err := store.Remove("nonexistent")
	require.Error(t, err)
}

func TestListByTableFiltersAndAccumulates(t *testing.T) {
	store := NewInMemoryStore()
	e1, err := store.Append(1, [][]values.Cell{{{Type: coltype.Int, Int: 1}}})
	require.NoError(t, err)
	e2, err := store.Append(1, [][]values.Cell{{{Type: coltype.Int, Int: 2}}})
	require.NoError(t, err)
	_, err = store.Append(2, [][]values.Cell{{{Type: coltype.Int, Int: 3}}})
	require.NoError(t, err)

	entries := store.ListByTable(1)
	require.Len(t, entries, 2)
	ids := []string{entries[0].ID, entries[1].ID}
	assert.Contains(t, ids, e1.ID)
	assert.Contains(t, ids, e2.ID)
}

func TestListByTableEmptyForUnknownTable(t *testing.T) {
	store := NewInMemoryStore()
	assert.Empty(t, store.ListByTable(99))
}
