package services

import (
	"context"
	"fmt"
	"strings"

	"fincontrol/internal/core"
	"fincontrol/internal/events"
	"fincontrol/internal/store"
)

// Salary returns the stored salary, zero when never set.
func (l *Ledger) Salary(ctx context.Context) (core.Salary, error) {
	return l.store.Salary(ctx)
}

// SetSalary replaces the salary singleton. Zero is allowed; it clears
// the value.
func (l *Ledger) SetSalary(ctx context.Context, amount string) (core.Salary, error) {
	if strings.TrimSpace(amount) == "" {
		return core.Salary{}, invalid("valor", ReasonRequired)
	}

	cents, err := core.ParseNonNegativeCents(amount)
	if err != nil {
		return core.Salary{}, invalid("valor", ReasonInvalidAmount)
	}

	salary := core.Salary{Amount: core.Money{Cents: cents}}
	if err := l.store.SaveSalary(ctx, salary); err != nil {
		return core.Salary{}, fmt.Errorf("save salary: %w", err)
	}

	l.publishEvent(ctx, store.KeySalary, "", events.OpUpdated)

	return salary, nil
}
