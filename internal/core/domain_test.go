package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.ISO() != "2025-03-09" {
		t.Fatalf("unexpected iso: %s", d.ISO())
	}
	for _, bad := range []string{"", "09/03/2025", "2025-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:          "1",
		Description: "Mercado",
		Amount:      Money{Cents: 100},
		Category:    "Alimentação",
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Description: "", Amount: Money{Cents: 1}, Category: "c", Date: NewDate(2025, 1, 1)},
		{Description: "a", Amount: Money{Cents: 0}, Category: "c", Date: NewDate(2025, 1, 1)},
		{Description: "a", Amount: Money{Cents: 1}, Category: "", Date: NewDate(2025, 1, 1)},
		{Description: "a", Amount: Money{Cents: 1}, Category: "c", Date: Date{}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionKind(t *testing.T) {
	if !Deposit.Valid() || !Withdrawal.Valid() {
		t.Fatalf("expected built-in kinds to be valid")
	}
	if TransactionKind("transferencia").Valid() {
		t.Fatalf("expected unknown kind to be invalid")
	}
	tx := Transaction{
		ID:          "1",
		Kind:        TransactionKind("emprestimo"),
		Amount:      Money{Cents: 100},
		Date:        NewDate(2025, 1, 1),
		Description: "x",
	}
	if err := tx.Validate(); err != ErrInvalidKind {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestMonthlyYield(t *testing.T) {
	cases := []struct{ amount, yield int64 }{
		{100000, 10000}, // 1000.00 -> 100.00
		{123456, 12346}, // rounds half-up on the tenth of a cent
		{5, 1},
	}
	for _, tc := range cases {
		if got := MonthlyYield(Money{Cents: tc.amount}); got.Cents != tc.yield {
			t.Fatalf("yield of %d: expected %d, got %d", tc.amount, tc.yield, got.Cents)
		}
	}
}

func TestDebtOutstanding(t *testing.T) {
	d := Debt{Total: Money{Cents: 500000}, Paid: Money{Cents: 120000}}
	if got := d.Outstanding(); got.Cents != 380000 {
		t.Fatalf("expected 380000, got %d", got.Cents)
	}
}

func TestRecordJSONFieldNames(t *testing.T) {
	// Stored records keep the field names the browser front-end wrote, so
	// an existing data set keeps loading.
	e := Expense{
		ID:          "abc",
		Description: "Aluguel",
		Amount:      Money{Cents: 120050},
		Category:    "Moradia",
		Date:        NewDate(2025, 2, 1),
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"abc","descricao":"Aluguel","valor":1200.5,"categoria":"Moradia","data":"2025-02-01"}`
	if string(b) != want {
		t.Fatalf("unexpected encoding:\n got %s\nwant %s", b, want)
	}
}
