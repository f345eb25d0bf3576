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

// TransactionInput carries the raw form values for a manual deposit or
// withdrawal.
type TransactionInput struct {
	Kind        string
	Description string
	Amount      string
	Date        string
}

// CreateTransaction validates the input and appends the movement.
// Withdrawals are not checked against the running balance; the history
// may go negative.
func (l *Ledger) CreateTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	kind := core.TransactionKind(strings.TrimSpace(in.Kind))
	if !kind.Valid() {
		return core.Transaction{}, invalid("tipo", ReasonInvalidKind)
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return core.Transaction{}, invalid("descricao", ReasonRequired)
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Transaction{}, invalid("valor", ReasonInvalidAmount)
	}

	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, invalid("data", ReasonInvalidDate)
	}

	transaction := core.Transaction{
		ID:          uuid.NewString(),
		Kind:        kind,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: description,
	}

	if err := l.store.AppendTransaction(ctx, transaction); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	l.publishEvent(ctx, store.KeyTransactions, transaction.ID, events.OpCreated)

	return transaction, nil
}

func (l *Ledger) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return l.store.Transactions(ctx)
}

// InvestmentBalance is the running net of deposits and withdrawals.
func (l *Ledger) InvestmentBalance(ctx context.Context) (core.Money, error) {
	transactions, err := l.store.Transactions(ctx)
	if err != nil {
		return core.Money{}, err
	}
	return core.NetDeposits(transactions), nil
}
