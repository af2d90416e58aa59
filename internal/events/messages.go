package events

import (
	"encoding/json"
	"time"

	"github.com/JimmyPun610/expense-tracker/internal/core"
)

const (
	RoutingKeyCreated = "transaction.created"
	RoutingKeyDeleted = "transaction.deleted"
)

// ChangeMessage notifies external consumers that a transaction was created
// or deleted. It carries the full record so consumers do not need read
// access to the data store.
type ChangeMessage struct {
	Kind        string           `json:"kind"`
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

func NewChangeMessage(kind string, tx core.Transaction) *ChangeMessage {
	return &ChangeMessage{
		Kind:        kind,
		Transaction: tx,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
