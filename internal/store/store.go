// Package store implements the record store: named collections of
// JSON-encoded records over a key-value backend. Every update rewrites
// the whole collection, mirroring how the original front-end used
// localStorage; there is no partial-write guarantee inside a single
// collection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fincontrol/internal/core"
	"fincontrol/internal/kv"
)

// Collection keys, kept identical to the original persisted layout so an
// exported browser data set can be dropped into the data directory.
const (
	KeyCategories   = "categories"
	KeyExpenses     = "despesas"
	KeyInvestments  = "investimentos"
	KeyTransactions = "transacoes"
	KeyDebts        = "dividas"
	KeyPayments     = "pagamentos"
	KeySalary       = "salario"
)

var ErrDebtNotFound = errors.New("debt not found")

type Store struct {
	kv kv.Store
}

func New(backend kv.Store) *Store {
	return &Store{kv: backend}
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// record is anything stored in a collection and addressable by id.
type record interface {
	RecordID() string
}

func list[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if raw == nil {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func encode[T any](key string, items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return raw, nil
}

func replaceAll[T any](ctx context.Context, s *Store, key string, items []T) error {
	raw, err := encode(key, items)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func appendOne[T any](ctx context.Context, s *Store, key string, item T) error {
	items, err := list[T](ctx, s, key)
	if err != nil {
		return err
	}
	return replaceAll(ctx, s, key, append(items, item))
}

// removeByID rewrites the collection without the given record. Removing
// an unknown id leaves the collection as it is.
func removeByID[T record](ctx context.Context, s *Store, key, id string) error {
	items, err := list[T](ctx, s, key)
	if err != nil {
		return err
	}
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if it.RecordID() != id {
			kept = append(kept, it)
		}
	}
	return replaceAll(ctx, s, key, kept)
}

// Categories returns the category set, seeding the default one on first
// read of an empty store.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	raw, err := s.kv.Get(ctx, KeyCategories)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyCategories, err)
	}
	if raw == nil {
		return core.DefaultCategories(), nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyCategories, err)
	}
	return names, nil
}

func (s *Store) SaveCategories(ctx context.Context, names []string) error {
	return replaceAll(ctx, s, KeyCategories, names)
}

func (s *Store) Expenses(ctx context.Context) ([]core.Expense, error) {
	return list[core.Expense](ctx, s, KeyExpenses)
}

func (s *Store) AppendExpense(ctx context.Context, e core.Expense) error {
	return appendOne(ctx, s, KeyExpenses, e)
}

func (s *Store) RemoveExpense(ctx context.Context, id string) error {
	return removeByID[core.Expense](ctx, s, KeyExpenses, id)
}

func (s *Store) Investments(ctx context.Context) ([]core.Investment, error) {
	return list[core.Investment](ctx, s, KeyInvestments)
}

func (s *Store) RemoveInvestment(ctx context.Context, id string) error {
	return removeByID[core.Investment](ctx, s, KeyInvestments, id)
}

// AppendInvestmentWithDeposit stores a new investment and its synthetic
// deposit transaction as one write: both appear or neither does.
func (s *Store) AppendInvestmentWithDeposit(ctx context.Context, inv core.Investment, dep core.Transaction) error {
	investments, err := s.Investments(ctx)
	if err != nil {
		return err
	}
	transactions, err := s.Transactions(ctx)
	if err != nil {
		return err
	}
	invRaw, err := encode(KeyInvestments, append(investments, inv))
	if err != nil {
		return err
	}
	txRaw, err := encode(KeyTransactions, append(transactions, dep))
	if err != nil {
		return err
	}
	if err := s.kv.SetMulti(ctx, map[string][]byte{
		KeyInvestments:  invRaw,
		KeyTransactions: txRaw,
	}); err != nil {
		return fmt.Errorf("store investment with deposit: %w", err)
	}
	return nil
}

func (s *Store) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return list[core.Transaction](ctx, s, KeyTransactions)
}

func (s *Store) AppendTransaction(ctx context.Context, t core.Transaction) error {
	return appendOne(ctx, s, KeyTransactions, t)
}

func (s *Store) Debts(ctx context.Context) ([]core.Debt, error) {
	return list[core.Debt](ctx, s, KeyDebts)
}

func (s *Store) AppendDebt(ctx context.Context, d core.Debt) error {
	return appendOne(ctx, s, KeyDebts, d)
}

// RemoveDebt deletes the debt only. Its payments stay behind, orphaned:
// the reference is weak and there is no cascade.
func (s *Store) RemoveDebt(ctx context.Context, id string) error {
	return removeByID[core.Debt](ctx, s, KeyDebts, id)
}

func (s *Store) Debt(ctx context.Context, id string) (core.Debt, error) {
	debts, err := s.Debts(ctx)
	if err != nil {
		return core.Debt{}, err
	}
	for _, d := range debts {
		if d.ID == id {
			return d, nil
		}
	}
	return core.Debt{}, ErrDebtNotFound
}

func (s *Store) Payments(ctx context.Context) ([]core.Payment, error) {
	return list[core.Payment](ctx, s, KeyPayments)
}

func (s *Store) PaymentsByDebt(ctx context.Context, debtID string) ([]core.Payment, error) {
	payments, err := s.Payments(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Payment
	for _, p := range payments {
		if p.DebtID == debtID {
			out = append(out, p)
		}
	}
	return out, nil
}

// AppendPaymentToDebt stores the payment and bumps the debt's paid
// amount in one write.
func (s *Store) AppendPaymentToDebt(ctx context.Context, p core.Payment) error {
	debts, err := s.Debts(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range debts {
		if debts[i].ID == p.DebtID {
			debts[i].Paid.Cents += p.Amount.Cents
			found = true
			break
		}
	}
	if !found {
		return ErrDebtNotFound
	}
	payments, err := s.Payments(ctx)
	if err != nil {
		return err
	}
	debtsRaw, err := encode(KeyDebts, debts)
	if err != nil {
		return err
	}
	paymentsRaw, err := encode(KeyPayments, append(payments, p))
	if err != nil {
		return err
	}
	if err := s.kv.SetMulti(ctx, map[string][]byte{
		KeyDebts:    debtsRaw,
		KeyPayments: paymentsRaw,
	}); err != nil {
		return fmt.Errorf("store payment: %w", err)
	}
	return nil
}

// Salary returns the singleton salary, zero when never set.
func (s *Store) Salary(ctx context.Context) (core.Salary, error) {
	raw, err := s.kv.Get(ctx, KeySalary)
	if err != nil {
		return core.Salary{}, fmt.Errorf("load %s: %w", KeySalary, err)
	}
	if raw == nil {
		return core.Salary{}, nil
	}
	var sal core.Salary
	if err := json.Unmarshal(raw, &sal); err != nil {
		return core.Salary{}, fmt.Errorf("decode %s: %w", KeySalary, err)
	}
	return sal, nil
}

// SaveSalary replaces the singleton as a whole.
func (s *Store) SaveSalary(ctx context.Context, sal core.Salary) error {
	raw, err := json.Marshal(sal)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeySalary, err)
	}
	if err := s.kv.Set(ctx, KeySalary, raw); err != nil {
		return fmt.Errorf("store %s: %w", KeySalary, err)
	}
	return nil
}
