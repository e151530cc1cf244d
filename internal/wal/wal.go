// Package wal implements the WAL entry store: entries are produced by
// ingest, consumed by the partitioning job, and destroyed after successful
// partitioning. The partitioning job itself is the external cluster job
// engine; this package only owns the entries while they wait for it.
package wal

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zzzcdf/cube.js/internal/values"
)

// Entry is (id, table_id, row batch).
type Entry struct {
	ID      string
	TableID uint64
	Rows    [][]values.Cell
}

// Store persists WAL entries. Append does not check that the owning table
// exists (callers look the table up first), and entries are not removed
// when their table or schema is dropped.
type Store interface {
	Append(tableID uint64, rows [][]values.Cell) (Entry, error)
	Get(id string) (Entry, bool)
	// Remove destroys a WAL entry after its partitioning job reports
	// success.
	Remove(id string) error
	// ListByTable returns every WAL entry still pending against a table,
	// used when an external CREATE TABLE enumerates the WALs its CSV
	// import produced.
	ListByTable(tableID uint64) []Entry
}

type memStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewInMemoryStore creates an empty WAL store.
func NewInMemoryStore() Store {
	return &memStore{entries: make(map[string]Entry)}
}

func (s *memStore) Append(tableID uint64, rows [][]values.Cell) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{ID: uuid.NewString(), TableID: tableID, Rows: rows}
	s.entries[e.ID] = e
	return e, nil
}

func (s *memStore) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *memStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("WAL entry %q does not exist", id)
	}
	delete(s.entries, id)
	return nil
}

func (s *memStore) ListByTable(tableID uint64) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, e := range s.entries {
		if e.TableID == tableID {
			out = append(out, e)
		}
	}
	return out
}
