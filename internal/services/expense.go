package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fincontrol/internal/core"
	"fincontrol/internal/events"
	"fincontrol/internal/store"
)

// ExpenseInput carries the raw form values for a new expense.
type ExpenseInput struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// CreateExpense validates the input, stores the expense and publishes a
// change event.
func (l *Ledger) CreateExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return core.Expense{}, invalid("descricao", ReasonRequired)
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Expense{}, invalid("valor", ReasonInvalidAmount)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		return core.Expense{}, invalid("categoria", ReasonRequired)
	}
	known, err := l.knownCategory(ctx, category)
	if err != nil {
		return core.Expense{}, err
	}
	if !known {
		return core.Expense{}, invalid("categoria", ReasonUnknownCategory)
	}

	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Expense{}, invalid("data", ReasonInvalidDate)
	}

	expense := core.Expense{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
	}

	if err := l.store.AppendExpense(ctx, expense); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	l.publishEvent(ctx, store.KeyExpenses, expense.ID, events.OpCreated)

	return expense, nil
}

// DeleteExpense removes the expense; deleting an unknown id is a no-op.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) error {
	if err := l.store.RemoveExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	l.publishEvent(ctx, store.KeyExpenses, id, events.OpDeleted)

	return nil
}

// Expenses lists expenses filtered by category and period. Empty filter
// values match everything.
func (l *Ledger) Expenses(ctx context.Context, category string, period core.Period) ([]core.Expense, error) {
	expenses, err := l.store.Expenses(ctx)
	if err != nil {
		return nil, err
	}
	expenses = core.FilterByCategory(expenses, category)
	if period != "" {
		expenses = core.FilterByPeriod(expenses, period, l.now())
	}
	return expenses, nil
}

func (l *Ledger) knownCategory(ctx context.Context, name string) (bool, error) {
	categories, err := l.store.Categories(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range categories {
		if c == name {
			return true, nil
		}
	}
	return false, nil
}
