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

// DebtInput carries the raw form values for a new debt.
type DebtInput struct {
	Description string
	Total       string
	DueDate     string
}

// PaymentInput carries the raw form values for a payment against a debt.
type PaymentInput struct {
	DebtID string
	Amount string
	Date   string
}

// CreateDebt validates the input and stores a debt with nothing paid
// yet. The creation date is stamped server-side.
func (l *Ledger) CreateDebt(ctx context.Context, in DebtInput) (core.Debt, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return core.Debt{}, invalid("descricao", ReasonRequired)
	}

	cents, err := core.ParseDecimalToCents(in.Total)
	if err != nil {
		return core.Debt{}, invalid("valorTotal", ReasonInvalidAmount)
	}

	dueDate, err := core.ParseDate(in.DueDate)
	if err != nil {
		return core.Debt{}, invalid("dataVencimento", ReasonInvalidDate)
	}

	debt := core.Debt{
		ID:          uuid.NewString(),
		Description: description,
		Total:       core.Money{Cents: cents},
		Paid:        core.Money{},
		CreatedAt:   core.Today(),
		DueDate:     dueDate,
	}

	if err := l.store.AppendDebt(ctx, debt); err != nil {
		return core.Debt{}, fmt.Errorf("save debt: %w", err)
	}

	l.publishEvent(ctx, store.KeyDebts, debt.ID, events.OpCreated)

	return debt, nil
}

// RegisterPayment validates the payment against the debt's outstanding
// balance and stores payment and updated debt atomically.
func (l *Ledger) RegisterPayment(ctx context.Context, in PaymentInput) (core.Payment, error) {
	debtID := strings.TrimSpace(in.DebtID)
	if debtID == "" {
		return core.Payment{}, invalid("dividaId", ReasonRequired)
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Payment{}, invalid("valor", ReasonInvalidAmount)
	}

	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Payment{}, invalid("data", ReasonInvalidDate)
	}

	debt, err := l.store.Debt(ctx, debtID)
	if err != nil {
		return core.Payment{}, err
	}
	if cents > debt.Outstanding().Cents {
		return core.Payment{}, invalid("valor", ReasonExceedsBalance)
	}

	payment := core.Payment{
		ID:     uuid.NewString(),
		DebtID: debtID,
		Amount: core.Money{Cents: cents},
		Date:   date,
	}

	if err := l.store.AppendPaymentToDebt(ctx, payment); err != nil {
		return core.Payment{}, fmt.Errorf("save payment: %w", err)
	}

	l.publishEvent(ctx, store.KeyPayments, payment.ID, events.OpCreated)
	l.publishEvent(ctx, store.KeyDebts, debtID, events.OpUpdated)

	return payment, nil
}

// DeleteDebt removes the debt; its payments stay behind.
func (l *Ledger) DeleteDebt(ctx context.Context, id string) error {
	if err := l.store.RemoveDebt(ctx, id); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}

	l.publishEvent(ctx, store.KeyDebts, id, events.OpDeleted)

	return nil
}

func (l *Ledger) Debts(ctx context.Context) ([]core.Debt, error) {
	return l.store.Debts(ctx)
}

func (l *Ledger) Debt(ctx context.Context, id string) (core.Debt, error) {
	return l.store.Debt(ctx, id)
}

func (l *Ledger) PaymentsByDebt(ctx context.Context, debtID string) ([]core.Payment, error) {
	return l.store.PaymentsByDebt(ctx, debtID)
}
