package services

import (
	"context"
	"fmt"

	"gastos/internal/core"
	applog "gastos/internal/log"
)

// TransactionService validates and records transactions.
//
// Create runs its checks in a fixed order and stops at the first failure:
// request fields, person lookup, minor/income rule, category lookup, then
// category purpose. Only a request that passes every check reaches storage,
// and it does so with exactly one insert.
type TransactionService struct {
	store     TransactionStore
	publisher EventPublisher
}

// NewTransactionService builds the service. publisher may be nil.
func NewTransactionService(store TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

// Create validates req against the referenced person and category and stores it.
func (s *TransactionService) Create(ctx context.Context, req core.CreateTransactionRequest) (core.TransactionSummary, error) {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentTransaction)

	if err := req.Validate(); err != nil {
		return core.TransactionSummary{}, s.reject(ctx, logger, req, err)
	}

	person, err := s.store.FindPersonByID(ctx, req.PersonID)
	if err != nil {
		return core.TransactionSummary{}, fmt.Errorf("find person %d: %w", req.PersonID, err)
	}
	if person == nil {
		return core.TransactionSummary{}, s.reject(ctx, logger, req, core.ErrPersonNotFound)
	}
	if person.IsMinor() && req.Kind == core.KindIncome {
		return core.TransactionSummary{}, s.reject(ctx, logger, req, core.ErrMinorIncome)
	}

	category, err := s.store.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return core.TransactionSummary{}, fmt.Errorf("find category %d: %w", req.CategoryID, err)
	}
	if category == nil {
		return core.TransactionSummary{}, s.reject(ctx, logger, req, core.ErrCategoryNotFound)
	}
	if !category.Purpose.Permits(req.Kind) {
		return core.TransactionSummary{}, s.reject(ctx, logger, req, core.ErrKindNotPermitted)
	}

	tx := req.Transaction()
	id, err := s.store.InsertTransaction(ctx, tx)
	if err != nil {
		return core.TransactionSummary{}, fmt.Errorf("insert transaction: %w", err)
	}
	tx.ID = id

	logger.InfoContext(ctx, "Transaction created",
		append(applog.NewFields().WithTransaction(req).WithOperation(applog.OpCreate).ToSlice(),
			applog.FieldTransactionID, id)...)

	s.publish(ctx, logger, core.EventTransactionCreated, tx)

	return core.TransactionSummary{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Kind:        tx.Kind,
		Person:      person.Summary(),
		Category:    category.Summary(),
	}, nil
}

// List returns every transaction ordered by id.
func (s *TransactionService) List(ctx context.Context) ([]core.TransactionSummary, error) {
	items, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if items == nil {
		items = []core.TransactionSummary{}
	}
	return items, nil
}

// Delete removes a single transaction.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentTransaction)

	tx, err := s.store.FindTransactionByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find transaction %d: %w", id, err)
	}
	if tx == nil {
		return core.ErrTransactionNotFound
	}

	deleted, err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if !deleted {
		return core.ErrTransactionNotFound
	}

	logger.InfoContext(ctx, "Transaction deleted",
		applog.FieldTransactionID, id,
		applog.FieldOperation, applog.OpDelete)

	s.publish(ctx, logger, core.EventTransactionDeleted, *tx)
	return nil
}

func (s *TransactionService) reject(ctx context.Context, logger *applog.Logger, req core.CreateTransactionRequest, err error) error {
	logger.WarnContext(ctx, "Transaction rejected",
		applog.NewFields().WithTransaction(req).WithError(err).WithOperation(applog.OpValidate).ToSlice()...)
	return err
}

// publish is best effort: the transaction is already stored, so a broker
// failure is logged and never returned.
func (s *TransactionService) publish(ctx context.Context, logger *applog.Logger, eventType string, tx core.Transaction) {
	if s.publisher == nil {
		logger.DebugContext(ctx, "No event publisher configured, skipping event", applog.FieldEventType, eventType)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, eventType, tx); err != nil {
		logger.ErrorContext(ctx, "Failed to publish transaction event",
			applog.FieldEventType, eventType,
			applog.FieldTransactionID, tx.ID,
			applog.FieldError, err)
	}
}
