package core

import "testing"

func TestAggregateEmpty(t *testing.T) {
	groups, grand := Aggregate(nil)
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty non-nil groups, got %#v", groups)
	}
	if !grand.GrandIncome.IsZero() || !grand.GrandExpense.IsZero() || !grand.NetBalance.IsZero() {
		t.Fatalf("expected zero totals, got %+v", grand)
	}

	report := NewPersonReport(nil)
	if report.Items == nil {
		t.Fatalf("expected non-nil items")
	}
}

func TestAggregateSingleIncomeAndExpense(t *testing.T) {
	rows := []GroupedAmount{
		{Key: 1, Label: "Carla", Kind: KindIncome, Amount: MustParseMoney("200")},
		{Key: 1, Label: "Carla", Kind: KindExpense, Amount: MustParseMoney("50")},
	}
	report := NewPersonReport(rows)
	if len(report.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(report.Items))
	}
	item := report.Items[0]
	if item.Person.ID != 1 || item.Person.Name != "Carla" {
		t.Fatalf("unexpected person %+v", item.Person)
	}
	if item.TotalIncome.String() != "200.00" || item.TotalExpense.String() != "50.00" || item.Balance.String() != "150.00" {
		t.Fatalf("unexpected totals %+v", item.Totals)
	}
	if report.GrandIncome.String() != "200.00" || report.GrandExpense.String() != "50.00" || report.NetBalance.String() != "150.00" {
		t.Fatalf("unexpected grand totals %+v", report.GrandTotals)
	}
}

func TestAggregateGroupsByIdentityNotLabel(t *testing.T) {
	rows := []GroupedAmount{
		{Key: 7, Label: "Food", Kind: KindExpense, Amount: MustParseMoney("10")},
		{Key: 3, Label: "Food", Kind: KindExpense, Amount: MustParseMoney("5")},
		{Key: 7, Label: "Food", Kind: KindIncome, Amount: MustParseMoney("1")},
	}
	report := NewCategoryReport(rows)
	if len(report.Items) != 2 {
		t.Fatalf("expected two groups, got %d", len(report.Items))
	}
	if report.Items[0].Category.ID != 3 || report.Items[1].Category.ID != 7 {
		t.Fatalf("expected items sorted by id, got %+v", report.Items)
	}
	if report.Items[1].Balance.String() != "-9.00" {
		t.Fatalf("unexpected balance %s", report.Items[1].Balance)
	}
}

func TestAggregateGrandTotalsBalance(t *testing.T) {
	rows := []GroupedAmount{
		{Key: 1, Label: "a", Kind: KindIncome, Amount: MustParseMoney("0.10")},
		{Key: 2, Label: "b", Kind: KindIncome, Amount: MustParseMoney("0.20")},
		{Key: 2, Label: "b", Kind: KindExpense, Amount: MustParseMoney("0.30")},
		{Key: 3, Label: "c", Kind: KindExpense, Amount: MustParseMoney("1234567.89")},
		{Key: 3, Label: "c", Kind: KindIncome, Amount: MustParseMoney("0.01")},
	}
	groups, grand := Aggregate(rows)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if !grand.GrandIncome.Sub(grand.GrandExpense).Equal(grand.NetBalance) {
		t.Fatalf("grand income - grand expense != net balance: %+v", grand)
	}
	sum := Money{}
	for _, g := range groups {
		sum = sum.Add(g.Balance)
	}
	if !sum.Equal(grand.NetBalance) {
		t.Fatalf("sum of balances %s != net balance %s", sum, grand.NetBalance)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	rows := []GroupedAmount{
		{Key: 2, Label: "b", Kind: KindExpense, Amount: MustParseMoney("3")},
		{Key: 1, Label: "a", Kind: KindIncome, Amount: MustParseMoney("4")},
	}
	first := NewPersonReport(rows)
	second := NewPersonReport(rows)
	if len(first.Items) != len(second.Items) || !first.NetBalance.Equal(second.NetBalance) {
		t.Fatalf("reports differ: %+v vs %+v", first, second)
	}
	for i := range first.Items {
		if first.Items[i].Person != second.Items[i].Person || !first.Items[i].Balance.Equal(second.Items[i].Balance) {
			t.Fatalf("item %d differs", i)
		}
	}
}
