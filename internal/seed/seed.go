// Package seed loads starter data from a YAML file.
//
// Records go through the regular services, so seeded transactions obey the
// same rules as any other. Transactions refer to people and categories by
// name; the first record with a matching name wins.
//
//	persons:
//	  - name: Ana
//	    age: 16
//	categories:
//	  - description: Salary
//	    purpose: income
//	transactions:
//	  - description: March pay
//	    amount: "2500.00"
//	    kind: income
//	    person: Ana
//	    category: Salary
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/services"
)

type File struct {
	Persons      []Person      `yaml:"persons"`
	Categories   []Category    `yaml:"categories"`
	Transactions []Transaction `yaml:"transactions"`
}

type Person struct {
	Name string `yaml:"name"`
	Age  int    `yaml:"age"`
}

type Category struct {
	Description string `yaml:"description"`
	Purpose     string `yaml:"purpose"`
}

type Transaction struct {
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	Kind        string `yaml:"kind"`
	Person      string `yaml:"person"`
	Category    string `yaml:"category"`
}

// Load reads and decodes a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// Services groups what Apply writes through.
type Services struct {
	Persons      *services.PersonService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
}

// Result counts the records Apply created.
type Result struct {
	Persons      int
	Categories   int
	Transactions int
	Skipped      bool
}

// Apply writes the seed through svc. It does nothing when people already
// exist, so restarting against a persistent database does not duplicate data.
func (f *File) Apply(ctx context.Context, svc Services) (Result, error) {
	existing, err := svc.Persons.List(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(existing) > 0 {
		return Result{Skipped: true}, nil
	}

	var res Result
	people := make(map[string]int64, len(f.Persons))
	for i, p := range f.Persons {
		created, err := svc.Persons.Create(ctx, core.CreatePersonRequest{Name: p.Name, Age: p.Age})
		if err != nil {
			return res, fmt.Errorf("seed person #%d %q: %w", i+1, p.Name, err)
		}
		if _, ok := people[created.Name]; !ok {
			people[created.Name] = created.ID
		}
		res.Persons++
	}

	categories := make(map[string]int64, len(f.Categories))
	for i, c := range f.Categories {
		purpose, err := core.ParsePurpose(c.Purpose)
		if err != nil {
			return res, fmt.Errorf("seed category #%d %q: %w", i+1, c.Description, err)
		}
		created, err := svc.Categories.Create(ctx, core.CreateCategoryRequest{Description: c.Description, Purpose: purpose})
		if err != nil {
			return res, fmt.Errorf("seed category #%d %q: %w", i+1, c.Description, err)
		}
		if _, ok := categories[created.Description]; !ok {
			categories[created.Description] = created.ID
		}
		res.Categories++
	}

	for i, t := range f.Transactions {
		req, err := t.request(people, categories)
		if err != nil {
			return res, fmt.Errorf("seed transaction #%d %q: %w", i+1, t.Description, err)
		}
		if _, err := svc.Transactions.Create(ctx, req); err != nil {
			return res, fmt.Errorf("seed transaction #%d %q: %w", i+1, t.Description, err)
		}
		res.Transactions++
	}

	applog.FromContext(ctx).InfoContext(ctx, "Seed data applied",
		"persons", res.Persons,
		"categories", res.Categories,
		"transactions", res.Transactions)
	return res, nil
}

func (t Transaction) request(people, categories map[string]int64) (core.CreateTransactionRequest, error) {
	amount, err := core.ParseMoney(t.Amount)
	if err != nil {
		return core.CreateTransactionRequest{}, err
	}
	kind, err := core.ParseKind(t.Kind)
	if err != nil {
		return core.CreateTransactionRequest{}, err
	}
	personID, ok := people[t.Person]
	if !ok {
		return core.CreateTransactionRequest{}, fmt.Errorf("%w: %q", core.ErrPersonNotFound, t.Person)
	}
	categoryID, ok := categories[t.Category]
	if !ok {
		return core.CreateTransactionRequest{}, fmt.Errorf("%w: %q", core.ErrCategoryNotFound, t.Category)
	}
	return core.CreateTransactionRequest{
		Description: t.Description,
		Amount:      amount,
		Kind:        kind,
		PersonID:    personID,
		CategoryID:  categoryID,
	}, nil
}
