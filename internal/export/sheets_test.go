package export

import (
	"os"
	"path/filepath"
	"testing"

	"fincontrol/internal/core"
)

func TestExpenseRow(t *testing.T) {
	e := core.Expense{
		ID:          "e1",
		Description: "Aluguel",
		Amount:      core.Money{Cents: 120050},
		Category:    "Moradia",
		Date:        core.NewDate(2025, 2, 1),
	}

	row := expenseRow(e)
	if len(row) != 4 {
		t.Fatalf("row has %d columns, want 4", len(row))
	}
	if row[0] != "2025-02-01" {
		t.Errorf("date column = %v, want 2025-02-01", row[0])
	}
	if row[1] != "Aluguel" {
		t.Errorf("description column = %v", row[1])
	}
	if row[2] != "Moradia" {
		t.Errorf("category column = %v", row[2])
	}
	if row[3] != 1200.5 {
		t.Errorf("amount column = %v, want 1200.5", row[3])
	}
}

func TestCredentialsLoad(t *testing.T) {
	t.Run("inline JSON wins", func(t *testing.T) {
		raw, err := Credentials{JSON: `{"type":"service_account"}`, File: "/nope"}.load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if string(raw) != `{"type":"service_account"}` {
			t.Errorf("unexpected credentials: %s", raw)
		}
	})

	t.Run("file fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sa.json")
		if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0600); err != nil {
			t.Fatal(err)
		}
		raw, err := Credentials{File: path}.load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(raw) == 0 {
			t.Error("expected file contents")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		if _, err := (Credentials{}).load(); err == nil {
			t.Error("expected error for missing credentials")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := (Credentials{File: "/non/existent.json"}).load(); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
