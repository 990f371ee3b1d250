package core

import "time"

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionDeleted = "transaction.deleted"
)

// ActivityEntry is one recorded transaction event.
type ActivityEntry struct {
	ID            int64     `json:"id"`
	EventID       string    `json:"eventId"`
	EventType     string    `json:"eventType"`
	TransactionID int64     `json:"transactionId"`
	Description   string    `json:"description"`
	Amount        Money     `json:"amount"`
	Kind          Kind      `json:"kind"`
	PersonID      int64     `json:"personId"`
	CategoryID    int64     `json:"categoryId"`
	OccurredAt    time.Time `json:"occurredAt"`
	RecordedAt    time.Time `json:"recordedAt"`
}
