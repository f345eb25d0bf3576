package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Deposit    TransactionKind = "deposito"
	Withdrawal TransactionKind = "saque"
)

// MonthlyYieldRate is applied once, when an investment is created. The
// stored yield is never recomputed afterwards.
const MonthlyYieldRate = 0.10

type (
	// TransactionKind is a closed enum: deposito or saque.
	TransactionKind string

	// Date is a civil calendar date (no time of day, no timezone). It is
	// persisted as "YYYY-MM-DD", matching the records the browser
	// front-end used to write.
	Date struct {
		time.Time
	}

	Expense struct {
		ID          string `json:"id"`
		Description string `json:"descricao"`
		Amount      Money  `json:"valor"`
		Category    string `json:"categoria"`
		Date        Date   `json:"data"`
	}

	Investment struct {
		ID          string `json:"id"`
		Description string `json:"descricao"`
		Amount      Money  `json:"valor"`
		Date        Date   `json:"data"`
		// Yield is the monthly yield fixed at creation time.
		Yield Money `json:"rendimento"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		Kind        TransactionKind `json:"tipo"`
		Amount      Money           `json:"valor"`
		Date        Date            `json:"data"`
		Description string          `json:"descricao"`
	}

	Debt struct {
		ID          string `json:"id"`
		Description string `json:"descricao"`
		Total       Money  `json:"valorTotal"`
		Paid        Money  `json:"valorPago"`
		CreatedAt   Date   `json:"dataCriacao"`
		DueDate     Date   `json:"dataVencimento"`
	}

	// Payment references its Debt by id only. Deleting a Debt does not
	// delete its Payments.
	Payment struct {
		ID     string `json:"id"`
		DebtID string `json:"dividaId"`
		Amount Money  `json:"valor"`
		Date   Date   `json:"data"`
	}

	// Salary is a singleton: one value per user, replaced as a whole.
	Salary struct {
		Amount Money `json:"valor"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// DefaultCategories seeds the category set on first use.
func DefaultCategories() []string {
	return []string{
		"Alimentação",
		"Moradia",
		"Transporte",
		"Saúde",
		"Educação",
		"Lazer",
		"Vestuário",
		"Utilidades",
		"Outros",
	}
}

// NewDate builds a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date in local time.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ISO renders the date as "YYYY-MM-DD". ISO strings compare
// lexicographically in chronological order, which the period filters
// rely on.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

func (k TransactionKind) Valid() bool {
	return k == Deposit || k == Withdrawal
}

func (e Expense) RecordID() string { return e.ID }

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Date.Validate()
}

func (i Investment) RecordID() string { return i.ID }

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return ErrEmptyDescription
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	return i.Date.Validate()
}

// MonthlyYield computes the yield fixed at creation time, rounded
// half-up to the cent.
func MonthlyYield(amount Money) Money {
	return Money{Cents: (amount.Cents + 5) / 10}
}

func (t Transaction) RecordID() string { return t.ID }

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	return t.Date.Validate()
}

func (d Debt) RecordID() string { return d.ID }

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if err := d.Total.Validate(); err != nil {
		return err
	}
	if d.Paid.Cents < 0 {
		return ErrNegativeAmount
	}
	if err := d.CreatedAt.Validate(); err != nil {
		return err
	}
	return d.DueDate.Validate()
}

// Outstanding is the debt total minus the amount already paid.
func (d Debt) Outstanding() Money {
	return Money{Cents: d.Total.Cents - d.Paid.Cents}
}

func (p Payment) RecordID() string { return p.ID }

func (p Payment) Validate() error {
	if strings.TrimSpace(p.DebtID) == "" {
		return errors.New("missing debt reference")
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	return p.Date.Validate()
}

func (s Salary) Validate() error {
	if s.Amount.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}
