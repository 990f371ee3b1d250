package services

import (
	"context"
	"fmt"

	"gastos/internal/core"
	applog "gastos/internal/log"
)

// ReportService builds the per-person and per-category summaries.
//
// Every call performs its own storage read, so a report reflects all
// transactions committed before the call began.
type ReportService struct {
	reader ReportReader
}

func NewReportService(reader ReportReader) *ReportService {
	return &ReportService{reader: reader}
}

// PersonReport totals income and expense per person.
func (s *ReportService) PersonReport(ctx context.Context) (core.PersonReport, error) {
	if err := ctx.Err(); err != nil {
		return core.PersonReport{}, err
	}
	rows, err := s.reader.ListTransactionsJoinedWithPerson(ctx)
	if err != nil {
		return core.PersonReport{}, fmt.Errorf("list transactions by person: %w", err)
	}
	report := core.NewPersonReport(rows)
	s.logComputed(ctx, "by-person", len(report.Items))
	return report, nil
}

// CategoryReport totals income and expense per category.
func (s *ReportService) CategoryReport(ctx context.Context) (core.CategoryReport, error) {
	if err := ctx.Err(); err != nil {
		return core.CategoryReport{}, err
	}
	rows, err := s.reader.ListTransactionsJoinedWithCategory(ctx)
	if err != nil {
		return core.CategoryReport{}, fmt.Errorf("list transactions by category: %w", err)
	}
	report := core.NewCategoryReport(rows)
	s.logComputed(ctx, "by-category", len(report.Items))
	return report, nil
}

func (s *ReportService) logComputed(ctx context.Context, name string, items int) {
	applog.FromContext(ctx).WithComponent(applog.ComponentReport).DebugContext(ctx, "Report computed",
		applog.FieldOperation, applog.OpReport,
		"report", name,
		"items", items)
}
