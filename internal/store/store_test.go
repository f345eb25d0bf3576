package store

import (
	"context"
	"errors"
	"testing"

	"fincontrol/internal/core"
	"fincontrol/internal/kv"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(kv.NewMemory())
}

func TestExpensesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	got, err := s.Expenses(ctx)
	if err != nil {
		t.Fatalf("Expenses on empty store: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %d items", len(got))
	}

	first := core.Expense{ID: "e1", Description: "Aluguel", Amount: core.Money{Cents: 120050}, Category: "Moradia", Date: core.NewDate(2025, 2, 1)}
	second := core.Expense{ID: "e2", Description: "Mercado", Amount: core.Money{Cents: 30000}, Category: "Alimentação", Date: core.NewDate(2025, 2, 3)}
	for _, e := range []core.Expense{first, second} {
		if err := s.AppendExpense(ctx, e); err != nil {
			t.Fatalf("AppendExpense: %v", err)
		}
	}

	got, err = s.Expenses(ctx)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e2" {
		t.Fatalf("unexpected collection: %+v", got)
	}
}

func TestRemoveExpenseKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, id := range []string{"a", "b", "c"} {
		e := core.Expense{ID: id, Description: id, Amount: core.Money{Cents: 100}, Category: "Outros", Date: core.NewDate(2025, 1, 1)}
		if err := s.AppendExpense(ctx, e); err != nil {
			t.Fatalf("AppendExpense: %v", err)
		}
	}

	if err := s.RemoveExpense(ctx, "b"); err != nil {
		t.Fatalf("RemoveExpense: %v", err)
	}
	got, err := s.Expenses(ctx)
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected collection after remove: %+v", got)
	}

	// Removing an unknown id is a no-op.
	if err := s.RemoveExpense(ctx, "zz"); err != nil {
		t.Fatalf("RemoveExpense unknown id: %v", err)
	}
	got, _ = s.Expenses(ctx)
	if len(got) != 2 {
		t.Fatalf("remove of unknown id changed the collection: %+v", got)
	}
}

func TestCategoriesSeedDefaults(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	got, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	want := core.DefaultCategories()
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("category %d: got %q, want %q", i, got[i], want[i])
		}
	}

	// Once persisted, the stored set wins over the defaults.
	if err := s.SaveCategories(ctx, []string{"Moradia"}); err != nil {
		t.Fatalf("SaveCategories: %v", err)
	}
	got, err = s.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(got) != 1 || got[0] != "Moradia" {
		t.Fatalf("unexpected categories: %v", got)
	}
}

func TestAppendInvestmentWithDeposit(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	inv := core.Investment{ID: "i1", Description: "CDB", Amount: core.Money{Cents: 100000}, Date: core.NewDate(2025, 3, 1), Yield: core.Money{Cents: 10000}}
	dep := core.Transaction{ID: "t1", Kind: core.Deposit, Amount: core.Money{Cents: 100000}, Date: inv.Date, Description: "Investimento inicial: CDB"}
	if err := s.AppendInvestmentWithDeposit(ctx, inv, dep); err != nil {
		t.Fatalf("AppendInvestmentWithDeposit: %v", err)
	}

	investments, err := s.Investments(ctx)
	if err != nil {
		t.Fatalf("Investments: %v", err)
	}
	if len(investments) != 1 || investments[0].ID != "i1" {
		t.Fatalf("unexpected investments: %+v", investments)
	}
	transactions, err := s.Transactions(ctx)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(transactions) != 1 || transactions[0].Kind != core.Deposit {
		t.Fatalf("unexpected transactions: %+v", transactions)
	}
}

func TestAppendPaymentToDebt(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	debt := core.Debt{
		ID:          "d1",
		Description: "Financiamento",
		Total:       core.Money{Cents: 500000},
		CreatedAt:   core.NewDate(2025, 1, 10),
		DueDate:     core.NewDate(2025, 12, 10),
	}
	if err := s.AppendDebt(ctx, debt); err != nil {
		t.Fatalf("AppendDebt: %v", err)
	}

	p := core.Payment{ID: "p1", DebtID: "d1", Amount: core.Money{Cents: 150000}, Date: core.NewDate(2025, 2, 10)}
	if err := s.AppendPaymentToDebt(ctx, p); err != nil {
		t.Fatalf("AppendPaymentToDebt: %v", err)
	}

	got, err := s.Debt(ctx, "d1")
	if err != nil {
		t.Fatalf("Debt: %v", err)
	}
	if got.Paid.Cents != 150000 {
		t.Fatalf("paid = %d cents, want 150000", got.Paid.Cents)
	}
	if got.Outstanding().Cents != 350000 {
		t.Fatalf("outstanding = %d cents, want 350000", got.Outstanding().Cents)
	}

	payments, err := s.PaymentsByDebt(ctx, "d1")
	if err != nil {
		t.Fatalf("PaymentsByDebt: %v", err)
	}
	if len(payments) != 1 || payments[0].ID != "p1" {
		t.Fatalf("unexpected payments: %+v", payments)
	}
}

func TestAppendPaymentToMissingDebt(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	p := core.Payment{ID: "p1", DebtID: "nope", Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 2, 10)}
	err := s.AppendPaymentToDebt(ctx, p)
	if !errors.Is(err, ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound, got %v", err)
	}

	// Nothing was written.
	payments, err := s.Payments(ctx)
	if err != nil {
		t.Fatalf("Payments: %v", err)
	}
	if len(payments) != 0 {
		t.Fatalf("payment stored despite missing debt: %+v", payments)
	}
}

func TestRemoveDebtKeepsPayments(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	debt := core.Debt{ID: "d1", Description: "Cartão", Total: core.Money{Cents: 20000}, CreatedAt: core.NewDate(2025, 1, 1), DueDate: core.NewDate(2025, 6, 1)}
	if err := s.AppendDebt(ctx, debt); err != nil {
		t.Fatalf("AppendDebt: %v", err)
	}
	p := core.Payment{ID: "p1", DebtID: "d1", Amount: core.Money{Cents: 5000}, Date: core.NewDate(2025, 2, 1)}
	if err := s.AppendPaymentToDebt(ctx, p); err != nil {
		t.Fatalf("AppendPaymentToDebt: %v", err)
	}

	if err := s.RemoveDebt(ctx, "d1"); err != nil {
		t.Fatalf("RemoveDebt: %v", err)
	}
	if _, err := s.Debt(ctx, "d1"); !errors.Is(err, ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound after removal, got %v", err)
	}
	payments, _ := s.Payments(ctx)
	if len(payments) != 1 {
		t.Fatalf("payments should survive debt removal, got %+v", payments)
	}
}

func TestSalarySingleton(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	sal, err := s.Salary(ctx)
	if err != nil {
		t.Fatalf("Salary on empty store: %v", err)
	}
	if sal.Amount.Cents != 0 {
		t.Fatalf("expected zero salary, got %d cents", sal.Amount.Cents)
	}

	if err := s.SaveSalary(ctx, core.Salary{Amount: core.Money{Cents: 500000}}); err != nil {
		t.Fatalf("SaveSalary: %v", err)
	}
	sal, err = s.Salary(ctx)
	if err != nil {
		t.Fatalf("Salary: %v", err)
	}
	if sal.Amount.Cents != 500000 {
		t.Fatalf("salary = %d cents, want 500000", sal.Amount.Cents)
	}

	// Replacing overwrites, never accumulates.
	if err := s.SaveSalary(ctx, core.Salary{Amount: core.Money{Cents: 520000}}); err != nil {
		t.Fatalf("SaveSalary: %v", err)
	}
	sal, _ = s.Salary(ctx)
	if sal.Amount.Cents != 520000 {
		t.Fatalf("salary = %d cents, want 520000", sal.Amount.Cents)
	}
}
