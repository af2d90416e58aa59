// Package ledger holds the in-memory transaction list mirrored to a durable
// slot. The list is always sorted descending by date; every successful
// mutation is followed by a persistence attempt. Persistence failures are
// logged and never roll back the in-memory state.
package ledger

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/JimmyPun610/expense-tracker/internal/core"
)

type Store struct {
	mu        sync.Mutex
	items     []core.Transaction
	persister Persister
	listeners []Listener
}

// Open builds a store backed by the given persister and loads the existing
// snapshot. A failed or corrupt load starts the session empty rather than
// failing: the durable slot is best-effort by contract.
func Open(ctx context.Context, p Persister) *Store {
	s := &Store{persister: p}
	if p == nil {
		return s
	}
	items, err := p.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Loading transactions failed, starting empty", "error", err)
		return s
	}
	s.items = items
	s.sortLocked()
	slog.InfoContext(ctx, "Transactions loaded", "count", len(items))
	return s
}

// Subscribe registers a mutation listener. Registration is expected during
// composition, before the store is shared.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Add validates the draft, assigns a fresh ID, inserts it keeping the
// descending date order, persists, and returns the created record.
func (s *Store) Add(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	draft.ID = uuid.NewString()
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	s.items = append(s.items, draft)
	s.sortLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, Event{Kind: EventCreated, Transaction: draft})
	return draft, nil
}

// Delete removes the transaction with the given id and re-persists. Deleting
// an unknown id is a no-op, not an error.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	var removed *core.Transaction
	for i, tx := range s.items {
		if tx.ID == id {
			removed = &tx
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	if removed != nil {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if removed != nil {
		s.notify(ctx, Event{Kind: EventDeleted, Transaction: *removed})
	}
}

// List returns a copy of the current snapshot, descending by date.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) sortLocked() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].Date.After(s.items[j].Date)
	})
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.persister == nil {
		return
	}
	snapshot := make([]core.Transaction, len(s.items))
	copy(snapshot, s.items)
	if err := s.persister.Save(ctx, snapshot); err != nil {
		// In-memory state stays authoritative for the session.
		slog.ErrorContext(ctx, "Persisting transactions failed", "error", err, "count", len(snapshot))
	}
}

func (s *Store) notify(ctx context.Context, ev Event) {
	for _, fn := range s.listeners {
		fn(ctx, ev)
	}
}
