package services

import (
	"context"

	"gastos/internal/core"
)

// PersonFinder looks up people. A missing person is reported as (nil, nil).
type PersonFinder interface {
	FindPersonByID(ctx context.Context, id int64) (*core.Person, error)
}

// CategoryFinder looks up categories. A missing category is reported as (nil, nil).
type CategoryFinder interface {
	FindCategoryByID(ctx context.Context, id int64) (*core.Category, error)
}

// TransactionWriter persists a transaction and returns the id assigned to it.
type TransactionWriter interface {
	InsertTransaction(ctx context.Context, t core.Transaction) (int64, error)
}

// TransactionStore is everything the transaction service needs from storage.
type TransactionStore interface {
	PersonFinder
	CategoryFinder
	TransactionWriter
	ListTransactions(ctx context.Context) ([]core.TransactionSummary, error)
	FindTransactionByID(ctx context.Context, id int64) (*core.Transaction, error)
	// DeleteTransaction reports false when no row matched.
	DeleteTransaction(ctx context.Context, id int64) (bool, error)
}

// ReportReader yields the flat rows the reports are aggregated from.
type ReportReader interface {
	ListTransactionsJoinedWithPerson(ctx context.Context) ([]core.GroupedAmount, error)
	ListTransactionsJoinedWithCategory(ctx context.Context) ([]core.GroupedAmount, error)
}

type PersonStore interface {
	PersonFinder
	CreatePerson(ctx context.Context, p core.Person) (int64, error)
	ListPersons(ctx context.Context) ([]core.Person, error)
	// DeletePerson removes the person and every transaction it owns.
	// It reports false when no row matched.
	DeletePerson(ctx context.Context, id int64) (bool, error)
}

type CategoryStore interface {
	CategoryFinder
	CreateCategory(ctx context.Context, c core.Category) (int64, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	// DeleteCategory removes the category unless a transaction references it,
	// checking and deleting atomically. A referenced category yields
	// core.ErrCategoryInUse; a missing one reports false.
	DeleteCategory(ctx context.Context, id int64) (bool, error)
}

type ActivityStore interface {
	// RecordActivity stores an entry once per EventID. It reports false for duplicates.
	RecordActivity(ctx context.Context, e core.ActivityEntry) (bool, error)
	ListActivity(ctx context.Context, limit int) ([]core.ActivityEntry, error)
}

// Repository is implemented by every storage backend.
type Repository interface {
	TransactionStore
	ReportReader
	PersonStore
	CategoryStore
	ActivityStore
	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher announces transaction changes. Implementations may be nil-safe no-ops.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, eventType string, t core.Transaction) error
}
