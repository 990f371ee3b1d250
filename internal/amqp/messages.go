package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"gastos/internal/core"
)

// TransactionEvent is published after a transaction is created or deleted.
// EventID is unique per event so consumers can drop redeliveries.
type TransactionEvent struct {
	EventID       string     `json:"eventId"`
	Type          string     `json:"type"`
	TransactionID int64      `json:"transactionId"`
	Description   string     `json:"description"`
	Amount        core.Money `json:"amount"`
	Kind          core.Kind  `json:"kind"`
	PersonID      int64      `json:"personId"`
	CategoryID    int64      `json:"categoryId"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

func NewTransactionEvent(eventType string, t core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		TransactionID: t.ID,
		Description:   t.Description,
		Amount:        t.Amount,
		Kind:          t.Kind,
		PersonID:      t.PersonID,
		CategoryID:    t.CategoryID,
		OccurredAt:    time.Now().UTC(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Activity converts the event into an activity log entry.
func (e *TransactionEvent) Activity() core.ActivityEntry {
	return core.ActivityEntry{
		EventID:       e.EventID,
		EventType:     e.Type,
		TransactionID: e.TransactionID,
		Description:   e.Description,
		Amount:        e.Amount,
		Kind:          e.Kind,
		PersonID:      e.PersonID,
		CategoryID:    e.CategoryID,
		OccurredAt:    e.OccurredAt,
	}
}
