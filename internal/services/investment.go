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

// InvestmentInput carries the raw form values for a new investment.
type InvestmentInput struct {
	Description string
	Amount      string
	Date        string
}

// CreateInvestment validates the input, fixes the monthly yield at
// creation time and stores the investment together with its initial
// deposit transaction. Both records land atomically or not at all.
func (l *Ledger) CreateInvestment(ctx context.Context, in InvestmentInput) (core.Investment, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return core.Investment{}, invalid("descricao", ReasonRequired)
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Investment{}, invalid("valor", ReasonInvalidAmount)
	}

	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Investment{}, invalid("data", ReasonInvalidDate)
	}

	amount := core.Money{Cents: cents}
	investment := core.Investment{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Date:        date,
		Yield:       core.MonthlyYield(amount),
	}
	deposit := core.Transaction{
		ID:          uuid.NewString(),
		Kind:        core.Deposit,
		Amount:      amount,
		Date:        date,
		Description: "Investimento inicial: " + description,
	}

	if err := l.store.AppendInvestmentWithDeposit(ctx, investment, deposit); err != nil {
		return core.Investment{}, fmt.Errorf("save investment: %w", err)
	}

	l.publishEvent(ctx, store.KeyInvestments, investment.ID, events.OpCreated)
	l.publishEvent(ctx, store.KeyTransactions, deposit.ID, events.OpCreated)

	return investment, nil
}

// DeleteInvestment removes the investment only. Its initial deposit
// transaction stays in the history.
func (l *Ledger) DeleteInvestment(ctx context.Context, id string) error {
	if err := l.store.RemoveInvestment(ctx, id); err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}

	l.publishEvent(ctx, store.KeyInvestments, id, events.OpDeleted)

	return nil
}

func (l *Ledger) Investments(ctx context.Context) ([]core.Investment, error) {
	return l.store.Investments(ctx)
}
