package services

import (
	"context"
	"fmt"
	"strings"

	"gastos/internal/core"
	applog "gastos/internal/log"
)

// PersonService manages the people transactions are attributed to.
type PersonService struct {
	store PersonStore
}

func NewPersonService(store PersonStore) *PersonService {
	return &PersonService{store: store}
}

func (s *PersonService) Create(ctx context.Context, req core.CreatePersonRequest) (core.Person, error) {
	p := core.Person{Name: strings.TrimSpace(req.Name), Age: req.Age}
	if err := p.Validate(); err != nil {
		return core.Person{}, err
	}

	id, err := s.store.CreatePerson(ctx, p)
	if err != nil {
		return core.Person{}, fmt.Errorf("create person: %w", err)
	}
	p.ID = id

	applog.FromContext(ctx).WithComponent(applog.ComponentPerson).InfoContext(ctx, "Person created",
		applog.FieldPersonID, id,
		applog.FieldOperation, applog.OpCreate)
	return p, nil
}

func (s *PersonService) List(ctx context.Context) ([]core.Person, error) {
	people, err := s.store.ListPersons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	if people == nil {
		people = []core.Person{}
	}
	return people, nil
}

// Delete removes the person together with all of their transactions.
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeletePerson(ctx, id)
	if err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	if !deleted {
		return core.ErrPersonNotFound
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentPerson).InfoContext(ctx, "Person deleted",
		applog.FieldPersonID, id,
		applog.FieldOperation, applog.OpDelete)
	return nil
}
