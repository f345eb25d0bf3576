package core

import (
	"testing"
	"time"
)

func expense(desc string, cents int64, category, date string) Expense {
	d, _ := ParseDate(date)
	return Expense{ID: desc, Description: desc, Amount: Money{Cents: cents}, Category: category, Date: d}
}

func TestAvailableBalance(t *testing.T) {
	// salary 5000.00, expenses 1200.50 + 300.00 -> 3499.50 available
	expenses := []Expense{
		expense("Aluguel", 120050, "Moradia", "2025-03-01"),
		expense("Mercado", 30000, "Alimentação", "2025-03-02"),
	}
	got := AvailableBalance(Salary{Amount: Money{Cents: 500000}}, expenses)
	if got.Cents != 349950 {
		t.Fatalf("expected 349950, got %d", got.Cents)
	}
}

func TestAvailableBalanceMayBeNegative(t *testing.T) {
	got := AvailableBalance(Salary{Amount: Money{Cents: 10000}}, []Expense{
		expense("a", 20000, "Outros", "2025-03-01"),
	})
	if got.Cents != -10000 {
		t.Fatalf("expected -10000, got %d", got.Cents)
	}
}

func TestTopCategoriesPartitionAndOrder(t *testing.T) {
	items := []Expense{
		expense("a", 100, "Lazer", "2025-01-01"),
		expense("b", 300, "Moradia", "2025-01-01"),
		expense("c", 200, "Lazer", "2025-01-01"),
		expense("d", 300, "Saúde", "2025-01-01"),
		expense("e", 50, "Transporte", "2025-01-01"),
		expense("f", 40, "Educação", "2025-01-01"),
		expense("g", 30, "Vestuário", "2025-01-01"),
	}
	top := TopCategories(items, 5)
	if len(top) != 5 {
		t.Fatalf("expected 5 groups, got %d", len(top))
	}

	// Grouping over the full set must partition the total.
	all := TopCategories(items, 0)
	var grouped int64
	for _, g := range all {
		grouped += g.Amount.Cents
	}
	if grouped != TotalExpenses(items).Cents {
		t.Fatalf("grouping lost cents: %d != %d", grouped, TotalExpenses(items).Cents)
	}

	// Descending by sum; the 300-cent tie keeps encounter order
	// (Moradia before Saúde).
	if top[0].Name != "Moradia" || top[1].Name != "Saúde" || top[2].Name != "Lazer" {
		t.Fatalf("unexpected order: %+v", top)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Amount.Cents > top[i-1].Amount.Cents {
			t.Fatalf("not descending at %d: %+v", i, top)
		}
	}
}

func TestFilterByPeriod(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	items := []Expense{
		expense("today", 100, "c", "2025-03-15"),
		expense("six days ago", 100, "c", "2025-03-09"),
		expense("eight days ago", 100, "c", "2025-03-07"),
		expense("same month", 100, "c", "2025-03-01"),
		expense("same year", 100, "c", "2025-01-20"),
		expense("last year", 100, "c", "2024-12-31"),
		expense("future", 100, "c", "2025-03-16"),
	}

	cases := []struct {
		period Period
		want   []string
	}{
		{PeriodToday, []string{"today"}},
		{PeriodWeek, []string{"today", "six days ago"}},
		{PeriodMonth, []string{"today", "six days ago", "eight days ago", "same month", "future"}},
		{PeriodYear, []string{"today", "six days ago", "eight days ago", "same month", "same year", "future"}},
	}
	for _, tc := range cases {
		got := FilterByPeriod(items, tc.period, now)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %d items, got %v", tc.period, len(tc.want), names(got))
		}
		for i, w := range tc.want {
			if got[i].Description != w {
				t.Fatalf("%s: expected %v, got %v", tc.period, tc.want, names(got))
			}
		}
	}

	// Unknown period leaves the snapshot untouched.
	if got := FilterByPeriod(items, Period("quinzena"), now); len(got) != len(items) {
		t.Fatalf("unknown period filtered items: %v", names(got))
	}
}

func names(items []Expense) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.Description
	}
	return out
}

func TestNetDeposits(t *testing.T) {
	d, _ := ParseDate("2025-01-01")
	items := []Transaction{
		{ID: "1", Kind: Deposit, Amount: Money{Cents: 1000}, Date: d, Description: "a"},
		{ID: "2", Kind: Withdrawal, Amount: Money{Cents: 300}, Date: d, Description: "b"},
		{ID: "3", Kind: Deposit, Amount: Money{Cents: 50}, Date: d, Description: "c"},
	}
	if got := NetDeposits(items); got.Cents != 750 {
		t.Fatalf("expected 750, got %d", got.Cents)
	}
}

func TestSummarize(t *testing.T) {
	expenses := []Expense{expense("a", 120050, "Moradia", "2025-03-01")}
	investments := []Investment{{ID: "i", Description: "CDB", Amount: Money{Cents: 100000}, Yield: Money{Cents: 10000}, Date: NewDate(2025, 1, 1)}}
	debts := []Debt{{ID: "d", Description: "x", Total: Money{Cents: 500000}, Paid: Money{Cents: 100000}, CreatedAt: NewDate(2025, 1, 1), DueDate: NewDate(2025, 6, 1)}}

	s := Summarize(expenses, investments, debts, Salary{Amount: Money{Cents: 500000}})
	if s.TotalExpenses.Cents != 120050 || s.TotalInvested.Cents != 100000 || s.TotalYields.Cents != 10000 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.DebtBalance.Cents != 400000 {
		t.Fatalf("expected debt balance 400000, got %d", s.DebtBalance.Cents)
	}
	if s.Available.Cents != 379950 {
		t.Fatalf("expected available 379950, got %d", s.Available.Cents)
	}
	if len(s.TopCategories) != 1 || s.TopCategories[0].Name != "Moradia" {
		t.Fatalf("unexpected top categories: %+v", s.TopCategories)
	}
}
