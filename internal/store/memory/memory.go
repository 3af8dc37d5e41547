// Package memory provides an in-process transaction store, used as the
// default backend and as a fake in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// NewWithClock injects the timestamp source, for deterministic tests.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// List returns the stored transactions sorted by date descending. Records
// sharing a date keep their insertion order relative to each other.
func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

// BulkAppend validates and stores the batch, assigning each record an id
// and creation timestamp. Nothing is stored when any record fails
// validation.
func (s *Store) BulkAppend(_ context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]core.Transaction, len(txs))
	for i, tx := range txs {
		tx.ID = uuid.NewString()
		tx.CreatedDate = s.now()
		s.items = append(s.items, tx)
		stored[i] = tx
	}
	return stored, nil
}

// Clear removes all stored transactions.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}
