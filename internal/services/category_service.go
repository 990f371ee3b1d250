package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gastos/internal/core"
	applog "gastos/internal/log"
)

// CategoryService manages transaction categories.
type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) Create(ctx context.Context, req core.CreateCategoryRequest) (core.Category, error) {
	c := core.Category{Description: strings.TrimSpace(req.Description), Purpose: req.Purpose}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	id, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID = id

	applog.FromContext(ctx).WithComponent(applog.ComponentCategory).InfoContext(ctx, "Category created",
		applog.FieldCategoryID, id,
		"purpose", c.Purpose.String(),
		applog.FieldOperation, applog.OpCreate)
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []core.Category{}
	}
	return categories, nil
}

// Delete removes a category that no transaction references. The reference
// check and the removal happen in one storage step, so a transaction recorded
// concurrently either blocks the delete or fails its own insert.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteCategory(ctx, id)
	if errors.Is(err, core.ErrCategoryInUse) {
		return core.ErrCategoryInUse
	}
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if !deleted {
		return core.ErrCategoryNotFound
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentCategory).InfoContext(ctx, "Category deleted",
		applog.FieldCategoryID, id,
		applog.FieldOperation, applog.OpDelete)
	return nil
}
