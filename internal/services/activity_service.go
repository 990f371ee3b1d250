package services

import (
	"context"
	"fmt"

	"gastos/internal/core"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
)

// ActivityService reads and writes the transaction activity log.
type ActivityService struct {
	store ActivityStore
}

func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{store: store}
}

// Record stores e unless an entry with the same EventID already exists.
// It reports whether a new entry was written.
func (s *ActivityService) Record(ctx context.Context, e core.ActivityEntry) (bool, error) {
	if e.EventID == "" {
		return false, fmt.Errorf("%w: missing event id", core.ErrInvalidInput)
	}
	inserted, err := s.store.RecordActivity(ctx, e)
	if err != nil {
		return false, fmt.Errorf("record activity %s: %w", e.EventID, err)
	}
	return inserted, nil
}

// Recent returns the newest entries first. limit is clamped to [1, MaxActivityLimit].
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]core.ActivityEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	entries, err := s.store.ListActivity(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	if entries == nil {
		entries = []core.ActivityEntry{}
	}
	return entries, nil
}
