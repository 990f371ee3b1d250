package services

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"gastos/internal/core"
)

// fakeStore is an in-memory Repository that counts calls and can be made to fail.
type fakeStore struct {
	mu           sync.Mutex
	persons      map[int64]core.Person
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
	activity     []core.ActivityEntry
	nextID       int64

	findPersonCalls   int
	findCategoryCalls int
	insertCalls       int
	reportCalls       int

	findPersonErr   error
	findCategoryErr error
	insertErr       error
	reportErr       error

	// reportGate, when set, holds the next report read after it has taken
	// its snapshot, until the gate is closed. reportStarted, if non-nil,
	// receives once that snapshot is taken.
	reportGate    chan struct{}
	reportStarted chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		persons:      map[int64]core.Person{},
		categories:   map[int64]core.Category{},
		transactions: map[int64]core.Transaction{},
	}
}

func (f *fakeStore) addPerson(name string, age int) core.Person {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := core.Person{ID: f.nextID, Name: name, Age: age}
	f.persons[p.ID] = p
	return p
}

func (f *fakeStore) addCategory(desc string, purpose core.Purpose) core.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := core.Category{ID: f.nextID, Description: desc, Purpose: purpose}
	f.categories[c.ID] = c
	return c
}

func (f *fakeStore) FindPersonByID(_ context.Context, id int64) (*core.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findPersonCalls++
	if f.findPersonErr != nil {
		return nil, f.findPersonErr
	}
	p, ok := f.persons[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) FindCategoryByID(_ context.Context, id int64) (*core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCategoryCalls++
	if f.findCategoryErr != nil {
		return nil, f.findCategoryErr
	}
	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeStore) InsertTransaction(_ context.Context, t core.Transaction) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	t.ID = f.nextID
	f.transactions[t.ID] = t
	return t.ID, nil
}

func (f *fakeStore) ListTransactions(_ context.Context) ([]core.TransactionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.TransactionSummary
	for _, t := range f.transactions {
		out = append(out, core.TransactionSummary{
			ID: t.ID, Description: t.Description, Amount: t.Amount, Kind: t.Kind,
			Person:   f.persons[t.PersonID].Summary(),
			Category: f.categories[t.CategoryID].Summary(),
		})
	}
	slices.SortFunc(out, func(a, b core.TransactionSummary) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeStore) FindTransactionByID(_ context.Context, id int64) (*core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[id]; !ok {
		return false, nil
	}
	delete(f.transactions, id)
	return true, nil
}

func (f *fakeStore) rows(key func(core.Transaction) (int64, string)) ([]core.GroupedAmount, error) {
	f.mu.Lock()
	f.reportCalls++
	if f.reportErr != nil {
		err := f.reportErr
		f.mu.Unlock()
		return nil, err
	}
	var out []core.GroupedAmount
	for _, t := range f.transactions {
		k, label := key(t)
		out = append(out, core.GroupedAmount{Key: k, Label: label, Kind: t.Kind, Amount: t.Amount})
	}
	gate, started := f.reportGate, f.reportStarted
	f.reportGate = nil
	f.mu.Unlock()

	if gate != nil {
		if started != nil {
			started <- struct{}{}
		}
		<-gate
	}
	return out, nil
}

func (f *fakeStore) ListTransactionsJoinedWithPerson(_ context.Context) ([]core.GroupedAmount, error) {
	return f.rows(func(t core.Transaction) (int64, string) { return t.PersonID, f.persons[t.PersonID].Name })
}

func (f *fakeStore) ListTransactionsJoinedWithCategory(_ context.Context) ([]core.GroupedAmount, error) {
	return f.rows(func(t core.Transaction) (int64, string) {
		return t.CategoryID, f.categories[t.CategoryID].Description
	})
}

func (f *fakeStore) CreatePerson(_ context.Context, p core.Person) (int64, error) {
	return f.addPerson(p.Name, p.Age).ID, nil
}

func (f *fakeStore) ListPersons(_ context.Context) ([]core.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Person
	for _, p := range f.persons {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b core.Person) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeStore) DeletePerson(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.persons[id]; !ok {
		return false, nil
	}
	delete(f.persons, id)
	for tid, t := range f.transactions {
		if t.PersonID == id {
			delete(f.transactions, tid)
		}
	}
	return true, nil
}

func (f *fakeStore) CreateCategory(_ context.Context, c core.Category) (int64, error) {
	return f.addCategory(c.Description, c.Purpose).ID, nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b core.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return false, nil
	}
	for _, t := range f.transactions {
		if t.CategoryID == id {
			return false, core.ErrCategoryInUse
		}
	}
	delete(f.categories, id)
	return true, nil
}

func (f *fakeStore) RecordActivity(_ context.Context, e core.ActivityEntry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.activity {
		if existing.EventID == e.EventID {
			return false, nil
		}
	}
	e.ID = int64(len(f.activity) + 1)
	f.activity = append(f.activity, e)
	return true, nil
}

func (f *fakeStore) ListActivity(_ context.Context, limit int) ([]core.ActivityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.ActivityEntry
	for i := len(f.activity) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.activity[i])
	}
	return out, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) Close() error { return nil }

var _ Repository = (*fakeStore)(nil)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, eventType string, _ core.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return p.err
}
