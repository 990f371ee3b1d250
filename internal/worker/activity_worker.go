package worker

import (
	"context"
	"fmt"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/services"
)

// ActivityWorker turns transaction events into activity log entries and
// periodically logs a balance snapshot.
type ActivityWorker struct {
	activity *services.ActivityService
	reports  *services.ReportService
	now      func() time.Time
}

func NewActivityWorker(activity *services.ActivityService, reports *services.ReportService) *ActivityWorker {
	return &ActivityWorker{
		activity: activity,
		reports:  reports,
		now:      time.Now,
	}
}

// HandleTransactionEvent records one event. Redelivered events are ignored.
func (w *ActivityWorker) HandleTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentWorker)

	switch event.Type {
	case core.EventTransactionCreated, core.EventTransactionDeleted:
	default:
		logger.WarnContext(ctx, "Ignoring unknown event type",
			applog.FieldEventID, event.EventID,
			applog.FieldEventType, event.Type)
		return nil
	}

	entry := event.Activity()
	entry.RecordedAt = w.now().UTC()

	inserted, err := w.activity.Record(ctx, entry)
	if err != nil {
		if core.IsValidation(err) {
			// Retrying a malformed event cannot succeed
			logger.ErrorContext(ctx, "Dropping invalid event",
				applog.FieldEventID, event.EventID,
				applog.FieldError, err)
			return nil
		}
		return fmt.Errorf("record event %s: %w", event.EventID, err)
	}

	if !inserted {
		logger.DebugContext(ctx, "Duplicate event skipped", applog.FieldEventID, event.EventID)
		return nil
	}

	logger.InfoContext(ctx, "Recorded transaction event",
		applog.FieldEventID, event.EventID,
		applog.FieldEventType, event.Type,
		applog.FieldTransactionID, event.TransactionID,
		applog.FieldPersonID, event.PersonID,
		applog.FieldAmount, event.Amount.String())
	return nil
}

// LogSnapshot logs the household grand totals.
func (w *ActivityWorker) LogSnapshot(ctx context.Context) error {
	report, err := w.reports.PersonReport(ctx)
	if err != nil {
		return fmt.Errorf("balance snapshot: %w", err)
	}
	applog.FromContext(ctx).WithComponent(applog.ComponentWorker).InfoContext(ctx, "Balance snapshot",
		"persons", len(report.Items),
		"income", report.GrandIncome.String(),
		"expense", report.GrandExpense.String(),
		"net", report.NetBalance.String())
	return nil
}

// RunSnapshots calls LogSnapshot every interval until ctx is done.
func (w *ActivityWorker) RunSnapshots(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.LogSnapshot(ctx); err != nil {
				applog.FromContext(ctx).WithComponent(applog.ComponentWorker).ErrorContext(ctx, "Periodic snapshot failed",
					applog.FieldError, err)
			}
		}
	}
}
