// Pure aggregations over collection snapshots. Nothing here touches
// storage; callers pass the full slice read from the record store.

package core

import (
	"sort"
	"time"
)

const (
	PeriodToday Period = "hoje"
	PeriodWeek  Period = "semana"
	PeriodMonth Period = "mes"
	PeriodYear  Period = "ano"
)

// Period selects a calendar window relative to "now".
type Period string

func (p Period) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// CategoryAmount is a per-category expense sum.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is the dashboard snapshot derived from all collections.
type Summary struct {
	TotalExpenses Money
	TotalInvested Money
	TotalYields   Money
	TotalDebt     Money
	TotalPaid     Money
	DebtBalance   Money
	Salary        Money
	Available     Money // salary minus expenses, may be negative
	TopCategories []CategoryAmount
}

func TotalExpenses(items []Expense) Money {
	var cents int64
	for _, e := range items {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

func TotalInvested(items []Investment) Money {
	var cents int64
	for _, i := range items {
		cents += i.Amount.Cents
	}
	return Money{Cents: cents}
}

func TotalYields(items []Investment) Money {
	var cents int64
	for _, i := range items {
		cents += i.Yield.Cents
	}
	return Money{Cents: cents}
}

func TotalDebt(items []Debt) Money {
	var cents int64
	for _, d := range items {
		cents += d.Total.Cents
	}
	return Money{Cents: cents}
}

func TotalPaid(items []Debt) Money {
	var cents int64
	for _, d := range items {
		cents += d.Paid.Cents
	}
	return Money{Cents: cents}
}

// NetDeposits is deposits minus withdrawals.
func NetDeposits(items []Transaction) Money {
	var cents int64
	for _, t := range items {
		switch t.Kind {
		case Deposit:
			cents += t.Amount.Cents
		case Withdrawal:
			cents -= t.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// AvailableBalance is salary minus total expenses. Negative results are
// returned as-is; the caller decides how to display them.
func AvailableBalance(salary Salary, expenses []Expense) Money {
	return Money{Cents: salary.Amount.Cents - TotalExpenses(expenses).Cents}
}

// TopCategories groups expenses by category, sums each group and returns
// the n largest sums in descending order. Ties keep first-encountered
// order (stable sort over encounter order).
func TopCategories(items []Expense, n int) []CategoryAmount {
	sums := make(map[string]int64)
	var order []string
	for _, e := range items {
		if _, ok := sums[e.Category]; !ok {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: sums[name]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FilterByCategory keeps expenses of the given category. An empty
// category matches everything.
func FilterByCategory(items []Expense, category string) []Expense {
	if category == "" {
		return items
	}
	var out []Expense
	for _, e := range items {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// FilterByPeriod keeps expenses whose stored date falls in the window
// ending at now. Comparisons are made between ISO date strings in the
// caller's local calendar, exactly as the record was stored: near a
// timezone boundary a record can fall on either side of "today".
func FilterByPeriod(items []Expense, p Period, now time.Time) []Expense {
	if !p.Valid() {
		return items
	}
	today := now.Format("2006-01-02")
	var out []Expense
	for _, e := range items {
		iso := e.Date.ISO()
		keep := false
		switch p {
		case PeriodToday:
			keep = iso == today
		case PeriodWeek:
			// Inclusive lower bound seven days back, today as upper bound.
			lower := now.AddDate(0, 0, -7).Format("2006-01-02")
			keep = iso >= lower && iso <= today
		case PeriodMonth:
			keep = iso[:7] == today[:7]
		case PeriodYear:
			keep = iso[:4] == today[:4]
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

// Summarize derives the dashboard figures from full collection snapshots.
func Summarize(expenses []Expense, investments []Investment, debts []Debt, salary Salary) Summary {
	totalDebt := TotalDebt(debts)
	totalPaid := TotalPaid(debts)
	return Summary{
		TotalExpenses: TotalExpenses(expenses),
		TotalInvested: TotalInvested(investments),
		TotalYields:   TotalYields(investments),
		TotalDebt:     totalDebt,
		TotalPaid:     totalPaid,
		DebtBalance:   Money{Cents: totalDebt.Cents - totalPaid.Cents},
		Salary:        salary.Amount,
		Available:     AvailableBalance(salary, expenses),
		TopCategories: TopCategories(expenses, 5),
	}
}
