package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/services"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "gastos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_PersonsAndCategories(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	missing, err := repo.FindPersonByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	anaID, err := repo.CreatePerson(ctx, core.Person{Name: "Ana", Age: 16})
	require.NoError(t, err)
	bobID, err := repo.CreatePerson(ctx, core.Person{Name: "Bob", Age: 40})
	require.NoError(t, err)

	ana, err := repo.FindPersonByID(ctx, anaID)
	require.NoError(t, err)
	require.NotNil(t, ana)
	assert.Equal(t, core.Person{ID: anaID, Name: "Ana", Age: 16}, *ana)

	people, err := repo.ListPersons(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, bobID, people[1].ID)

	catID, err := repo.CreateCategory(ctx, core.Category{Description: "Groceries", Purpose: core.PurposeExpense})
	require.NoError(t, err)
	cat, err := repo.FindCategoryByID(ctx, catID)
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, core.PurposeExpense, cat.Purpose)

	noCat, err := repo.FindCategoryByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, noCat)

	_, err = repo.CreatePerson(ctx, core.Person{Name: "Zero", Age: 0})
	assert.Error(t, err, "age check constraint")
}

func TestSQLiteRepository_TransactionsAndReports(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	carla, err := repo.CreatePerson(ctx, core.Person{Name: "Carla", Age: 34})
	require.NoError(t, err)
	salary, err := repo.CreateCategory(ctx, core.Category{Description: "Salary", Purpose: core.PurposeIncome})
	require.NoError(t, err)
	rent, err := repo.CreateCategory(ctx, core.Category{Description: "Rent", Purpose: core.PurposeExpense})
	require.NoError(t, err)

	id1, err := repo.InsertTransaction(ctx, core.Transaction{
		Description: "Pay", Amount: core.MustParseMoney("200.10"), Kind: core.KindIncome, PersonID: carla, CategoryID: salary,
	})
	require.NoError(t, err)
	_, err = repo.InsertTransaction(ctx, core.Transaction{
		Description: "Flat", Amount: core.MustParseMoney("50.05"), Kind: core.KindExpense, PersonID: carla, CategoryID: rent,
	})
	require.NoError(t, err)

	tx, err := repo.FindTransactionByID(ctx, id1)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, "200.10", tx.Amount.String())
	assert.Equal(t, core.KindIncome, tx.Kind)

	list, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Carla", list[0].Person.Name)
	assert.Equal(t, "Rent", list[1].Category.Description)

	byPerson, err := repo.ListTransactionsJoinedWithPerson(ctx)
	require.NoError(t, err)
	report := core.NewPersonReport(byPerson)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "150.05", report.Items[0].Balance.String())

	byCategory, err := repo.ListTransactionsJoinedWithCategory(ctx)
	require.NoError(t, err)
	assert.Len(t, core.NewCategoryReport(byCategory).Items, 2)

	_, err = repo.InsertTransaction(ctx, core.Transaction{
		Description: "Ghost", Amount: core.MustParseMoney("1"), Kind: core.KindExpense, PersonID: 9999, CategoryID: rent,
	})
	assert.Error(t, err, "foreign key on person")

	deleted, err := repo.DeleteTransaction(ctx, id1)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.DeleteTransaction(ctx, id1)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSQLiteRepository_DeleteCascadesAndRestricts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	dan, err := repo.CreatePerson(ctx, core.Person{Name: "Dan", Age: 30})
	require.NoError(t, err)
	food, err := repo.CreateCategory(ctx, core.Category{Description: "Food", Purpose: core.PurposeBoth})
	require.NoError(t, err)
	_, err = repo.InsertTransaction(ctx, core.Transaction{
		Description: "Lunch", Amount: core.MustParseMoney("12.50"), Kind: core.KindExpense, PersonID: dan, CategoryID: food,
	})
	require.NoError(t, err)

	deleted, err := repo.DeleteCategory(ctx, food)
	require.ErrorIs(t, err, core.ErrCategoryInUse, "restricted while referenced")
	assert.False(t, deleted)

	deleted, err = repo.DeletePerson(ctx, dan)
	require.NoError(t, err)
	assert.True(t, deleted)

	list, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	deleted, err = repo.DeleteCategory(ctx, food)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeletePerson(ctx, dan)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSQLiteRepository_CategoryDeleteRacesInserts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	dan, err := repo.CreatePerson(ctx, core.Person{Name: "Dan", Age: 30})
	require.NoError(t, err)
	misc, err := repo.CreateCategory(ctx, core.Category{Description: "Misc", Purpose: core.PurposeBoth})
	require.NoError(t, err)
	txSvc := services.NewTransactionService(repo, nil)

	var (
		wg        sync.WaitGroup
		deleteErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, _ = txSvc.Create(ctx, core.CreateTransactionRequest{
				Description: "coffee", Amount: core.MustParseMoney("1"), Kind: core.KindExpense, PersonID: dan, CategoryID: misc,
			})
		}
	}()
	go func() {
		defer wg.Done()
		deleteErr = services.NewCategoryService(repo).Delete(ctx, misc)
	}()
	wg.Wait()

	c, err := repo.FindCategoryByID(ctx, misc)
	require.NoError(t, err)
	list, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	if deleteErr == nil {
		assert.Nil(t, c)
		assert.Empty(t, list)
	} else {
		require.ErrorIs(t, deleteErr, core.ErrCategoryInUse)
		assert.True(t, core.IsConflict(deleteErr))
		assert.NotNil(t, c)
	}
}

func TestSQLiteRepository_Activity(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entry := core.ActivityEntry{
		EventID: "evt-1", EventType: core.EventTransactionCreated, TransactionID: 7,
		Description: "Pay", Amount: core.MustParseMoney("10"), Kind: core.KindIncome,
		PersonID: 1, CategoryID: 2, OccurredAt: occurred,
	}
	inserted, err := repo.RecordActivity(ctx, entry)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.RecordActivity(ctx, entry)
	require.NoError(t, err)
	assert.False(t, inserted)

	entry.EventID = "evt-2"
	entry.EventType = core.EventTransactionDeleted
	_, err = repo.RecordActivity(ctx, entry)
	require.NoError(t, err)

	recent, err := repo.ListActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "evt-2", recent[0].EventID)
	assert.True(t, recent[1].OccurredAt.Equal(occurred))
	assert.Equal(t, "10.00", recent[1].Amount.String())
	assert.False(t, recent[1].RecordedAt.IsZero())
}

func TestSQLiteRepository_WithServices(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	people := services.NewPersonService(repo)
	categories := services.NewCategoryService(repo)
	txs := services.NewTransactionService(repo, nil)
	reports := services.NewReportService(repo)

	ana, err := people.Create(ctx, core.CreatePersonRequest{Name: "Ana", Age: 16})
	require.NoError(t, err)
	salary, err := categories.Create(ctx, core.CreateCategoryRequest{Description: "Salary", Purpose: core.PurposeIncome})
	require.NoError(t, err)

	_, err = txs.Create(ctx, core.CreateTransactionRequest{
		Description: "Allowance", Amount: core.MustParseMoney("100"), Kind: core.KindIncome, PersonID: ana.ID, CategoryID: salary.ID,
	})
	require.ErrorIs(t, err, core.ErrMinorIncome)

	report, err := reports.PersonReport(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Items, "a rejected transaction leaves no trace")
}
