package core

import (
	"cmp"
	"slices"
)

// PersonSummary identifies a person inside a response.
type PersonSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategorySummary identifies a category inside a response.
type CategorySummary struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// TransactionSummary is a transaction enriched with the records it references.
type TransactionSummary struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      Money           `json:"amount"`
	Kind        Kind            `json:"kind"`
	Person      PersonSummary   `json:"person"`
	Category    CategorySummary `json:"category"`
}

func (p Person) Summary() PersonSummary {
	return PersonSummary{ID: p.ID, Name: p.Name}
}

func (c Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Description: c.Description}
}

// GroupedAmount is one transaction flattened against the record it is grouped by.
type GroupedAmount struct {
	Key    int64
	Label  string
	Kind   Kind
	Amount Money
}

// Totals holds the per-group figures. Balance is TotalIncome - TotalExpense.
type Totals struct {
	TotalIncome  Money `json:"totalIncome"`
	TotalExpense Money `json:"totalExpense"`
	Balance      Money `json:"balance"`
}

// GrandTotals sums Totals over every group.
type GrandTotals struct {
	GrandIncome  Money `json:"grandIncome"`
	GrandExpense Money `json:"grandExpense"`
	NetBalance   Money `json:"netBalance"`
}

// GroupTotals are the totals of a single group.
type GroupTotals struct {
	Key   int64
	Label string
	Totals
}

type PersonReportItem struct {
	Person PersonSummary `json:"person"`
	Totals
}

type PersonReport struct {
	Items []PersonReportItem `json:"items"`
	GrandTotals
}

type CategoryReportItem struct {
	Category CategorySummary `json:"category"`
	Totals
}

type CategoryReport struct {
	Items []CategoryReportItem `json:"items"`
	GrandTotals
}

// Aggregate partitions rows by Key and totals each partition.
//
// Groups are keyed by identity, so two records sharing a label stay apart;
// the label of a group is the one carried by its first row. The result is
// sorted by Key and never nil. Rows of an unknown kind are ignored.
func Aggregate(rows []GroupedAmount) ([]GroupTotals, GrandTotals) {
	index := make(map[int64]int, len(rows))
	groups := make([]GroupTotals, 0)

	for _, row := range rows {
		if !row.Kind.IsValid() {
			continue
		}
		i, ok := index[row.Key]
		if !ok {
			i = len(groups)
			index[row.Key] = i
			groups = append(groups, GroupTotals{Key: row.Key, Label: row.Label})
		}
		switch row.Kind {
		case KindIncome:
			groups[i].TotalIncome = groups[i].TotalIncome.Add(row.Amount)
		case KindExpense:
			groups[i].TotalExpense = groups[i].TotalExpense.Add(row.Amount)
		}
	}

	slices.SortFunc(groups, func(a, b GroupTotals) int {
		return cmp.Compare(a.Key, b.Key)
	})

	var grand GrandTotals
	for i := range groups {
		groups[i].Balance = groups[i].TotalIncome.Sub(groups[i].TotalExpense)
		grand.GrandIncome = grand.GrandIncome.Add(groups[i].TotalIncome)
		grand.GrandExpense = grand.GrandExpense.Add(groups[i].TotalExpense)
		grand.NetBalance = grand.NetBalance.Add(groups[i].Balance)
	}

	return groups, grand
}

// NewPersonReport aggregates rows grouped by person.
func NewPersonReport(rows []GroupedAmount) PersonReport {
	groups, grand := Aggregate(rows)
	items := make([]PersonReportItem, 0, len(groups))
	for _, g := range groups {
		items = append(items, PersonReportItem{
			Person: PersonSummary{ID: g.Key, Name: g.Label},
			Totals: g.Totals,
		})
	}
	return PersonReport{Items: items, GrandTotals: grand}
}

// NewCategoryReport aggregates rows grouped by category.
func NewCategoryReport(rows []GroupedAmount) CategoryReport {
	groups, grand := Aggregate(rows)
	items := make([]CategoryReportItem, 0, len(groups))
	for _, g := range groups {
		items = append(items, CategoryReportItem{
			Category: CategorySummary{ID: g.Key, Description: g.Label},
			Totals:   g.Totals,
		})
	}
	return CategoryReport{Items: items, GrandTotals: grand}
}
