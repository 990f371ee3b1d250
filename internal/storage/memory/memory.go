// Package memory is a process-local storage backend for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"gastos/internal/core"
	"gastos/internal/services"
)

var _ services.Repository = (*Store)(nil)

// Store keeps every record in maps guarded by one RWMutex. Ids are assigned
// per table starting at 1, like the SQLite backend.
type Store struct {
	mu           sync.RWMutex
	persons      map[int64]core.Person
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
	activity     []core.ActivityEntry
	seenEvents   map[string]struct{}

	lastPersonID      int64
	lastCategoryID    int64
	lastTransactionID int64
}

func New() *Store {
	return &Store{
		persons:      make(map[int64]core.Person),
		categories:   make(map[int64]core.Category),
		transactions: make(map[int64]core.Transaction),
		seenEvents:   make(map[string]struct{}),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) FindPersonByID(_ context.Context, id int64) (*core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) FindCategoryByID(_ context.Context, id int64) (*core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// InsertTransaction enforces the same references a foreign key would.
func (s *Store) InsertTransaction(_ context.Context, t core.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[t.PersonID]; !ok {
		return 0, errForeignKey
	}
	if _, ok := s.categories[t.CategoryID]; !ok {
		return 0, errForeignKey
	}
	s.lastTransactionID++
	t.ID = s.lastTransactionID
	s.transactions[t.ID] = t
	return t.ID, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.TransactionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.TransactionSummary, 0, len(s.transactions))
	for _, t := range sortedValues(s.transactions) {
		out = append(out, core.TransactionSummary{
			ID:          t.ID,
			Description: t.Description,
			Amount:      t.Amount,
			Kind:        t.Kind,
			Person:      s.persons[t.PersonID].Summary(),
			Category:    s.categories[t.CategoryID].Summary(),
		})
	}
	return out, nil
}

func (s *Store) FindTransactionByID(_ context.Context, id int64) (*core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return false, nil
	}
	delete(s.transactions, id)
	return true, nil
}

func (s *Store) ListTransactionsJoinedWithPerson(_ context.Context) ([]core.GroupedAmount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.GroupedAmount, 0, len(s.transactions))
	for _, t := range sortedValues(s.transactions) {
		out = append(out, core.GroupedAmount{Key: t.PersonID, Label: s.persons[t.PersonID].Name, Kind: t.Kind, Amount: t.Amount})
	}
	return out, nil
}

func (s *Store) ListTransactionsJoinedWithCategory(_ context.Context) ([]core.GroupedAmount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.GroupedAmount, 0, len(s.transactions))
	for _, t := range sortedValues(s.transactions) {
		out = append(out, core.GroupedAmount{Key: t.CategoryID, Label: s.categories[t.CategoryID].Description, Kind: t.Kind, Amount: t.Amount})
	}
	return out, nil
}

func (s *Store) CreatePerson(_ context.Context, p core.Person) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPersonID++
	p.ID = s.lastPersonID
	s.persons[p.ID] = p
	return p.ID, nil
}

func (s *Store) ListPersons(_ context.Context) ([]core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.persons), nil
}

// DeletePerson cascades to the person's transactions.
func (s *Store) DeletePerson(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[id]; !ok {
		return false, nil
	}
	for tid, t := range s.transactions {
		if t.PersonID == id {
			delete(s.transactions, tid)
		}
	}
	delete(s.persons, id)
	return true, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCategoryID++
	c.ID = s.lastCategoryID
	s.categories[c.ID] = c
	return c.ID, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.categories), nil
}

// DeleteCategory refuses with core.ErrCategoryInUse while transactions
// reference the category.
func (s *Store) DeleteCategory(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return false, nil
	}
	if s.categoryReferenced(id) {
		return false, core.ErrCategoryInUse
	}
	delete(s.categories, id)
	return true, nil
}

func (s *Store) categoryReferenced(id int64) bool {
	for _, t := range s.transactions {
		if t.CategoryID == id {
			return true
		}
	}
	return false
}

func (s *Store) RecordActivity(_ context.Context, e core.ActivityEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seenEvents[e.EventID]; dup {
		return false, nil
	}
	s.seenEvents[e.EventID] = struct{}{}
	e.ID = int64(len(s.activity) + 1)
	s.activity = append(s.activity, e)
	return true, nil
}

func (s *Store) ListActivity(_ context.Context, limit int) ([]core.ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		return []core.ActivityEntry{}, nil
	}
	out := make([]core.ActivityEntry, 0, min(limit, len(s.activity)))
	for i := len(s.activity) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.activity[i])
	}
	return out, nil
}

// sortedValues returns the map values in ascending id order.
func sortedValues[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
