package ledger

import (
	"context"

	"github.com/JimmyPun610/expense-tracker/internal/core"
)

// Persister is the outbound port to the durable slot. Save receives the full
// snapshot after every mutation; Load is called once at startup.
type Persister interface {
	Save(ctx context.Context, txs []core.Transaction) error
	Load(ctx context.Context) ([]core.Transaction, error)
}

// EventKind discriminates mutation notifications.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventDeleted EventKind = "deleted"
)

// Event describes one completed store mutation.
type Event struct {
	Kind        EventKind
	Transaction core.Transaction
}

// Listener receives mutation events after the in-memory state and the
// persistence attempt have both completed.
type Listener func(ctx context.Context, ev Event)
