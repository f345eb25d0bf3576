package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fincontrol/internal/core"
	"fincontrol/internal/events"
	"fincontrol/internal/kv"
	"fincontrol/internal/store"
)

type fakeAppender struct {
	appended []core.Expense
	fail     bool
}

func (f *fakeAppender) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	if f.fail {
		return "", errors.New("sheets unavailable")
	}
	f.appended = append(f.appended, e)
	return "Despesas!A2:D2", nil
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("bad audit line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, m)
	}
	return lines
}

func TestHandleRecordEventWritesAuditLine(t *testing.T) {
	ctx := context.Background()
	st := store.New(kv.NewMemory())
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	w := NewAuditWorker(st, nil, logPath)

	event := events.NewRecordEvent(store.KeyDebts, "d1", events.OpDeleted)
	if err := w.HandleRecordEvent(ctx, event); err != nil {
		t.Fatalf("HandleRecordEvent: %v", err)
	}

	lines := readLines(t, logPath)
	if len(lines) != 1 {
		t.Fatalf("expected one audit line, got %d", len(lines))
	}
	if lines[0]["collection"] != store.KeyDebts || lines[0]["recordId"] != "d1" || lines[0]["op"] != events.OpDeleted {
		t.Errorf("unexpected audit line: %v", lines[0])
	}
}

func TestHandleRecordEventForwardsExpense(t *testing.T) {
	ctx := context.Background()
	st := store.New(kv.NewMemory())
	expense := core.Expense{
		ID:          "e1",
		Description: "Mercado",
		Amount:      core.Money{Cents: 30000},
		Category:    "Alimentação",
		Date:        core.NewDate(2025, 2, 3),
	}
	if err := st.AppendExpense(ctx, expense); err != nil {
		t.Fatalf("AppendExpense: %v", err)
	}

	appender := &fakeAppender{}
	w := NewAuditWorker(st, appender, filepath.Join(t.TempDir(), "audit.jsonl"))

	event := events.NewRecordEvent(store.KeyExpenses, "e1", events.OpCreated)
	if err := w.HandleRecordEvent(ctx, event); err != nil {
		t.Fatalf("HandleRecordEvent: %v", err)
	}

	if len(appender.appended) != 1 || appender.appended[0].ID != "e1" {
		t.Fatalf("expense not forwarded: %+v", appender.appended)
	}
}

func TestHandleRecordEventForwardFailure(t *testing.T) {
	ctx := context.Background()
	st := store.New(kv.NewMemory())
	if err := st.AppendExpense(ctx, core.Expense{
		ID: "e1", Description: "Mercado", Amount: core.Money{Cents: 100},
		Category: "Outros", Date: core.NewDate(2025, 2, 3),
	}); err != nil {
		t.Fatalf("AppendExpense: %v", err)
	}

	w := NewAuditWorker(st, &fakeAppender{fail: true}, filepath.Join(t.TempDir(), "audit.jsonl"))

	event := events.NewRecordEvent(store.KeyExpenses, "e1", events.OpCreated)
	if err := w.HandleRecordEvent(ctx, event); err == nil {
		t.Fatal("forward failure should fail the event for redelivery")
	}
}

func TestHandleRecordEventMissingExpense(t *testing.T) {
	ctx := context.Background()
	st := store.New(kv.NewMemory())
	appender := &fakeAppender{}
	w := NewAuditWorker(st, appender, filepath.Join(t.TempDir(), "audit.jsonl"))

	// The expense was deleted before the event arrived; not an error.
	event := events.NewRecordEvent(store.KeyExpenses, "gone", events.OpCreated)
	if err := w.HandleRecordEvent(ctx, event); err != nil {
		t.Fatalf("HandleRecordEvent: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Errorf("nothing should have been forwarded: %+v", appender.appended)
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	st := store.New(kv.NewMemory())
	if err := st.AppendExpense(ctx, core.Expense{
		ID: "e1", Description: "Mercado", Amount: core.Money{Cents: 100},
		Category: "Outros", Date: core.NewDate(2025, 2, 3),
	}); err != nil {
		t.Fatalf("AppendExpense: %v", err)
	}

	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	w := NewAuditWorker(st, nil, logPath)
	if err := w.Snapshot(ctx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	lines := readLines(t, logPath)
	if len(lines) != 1 || lines[0]["kind"] != "snapshot" {
		t.Fatalf("unexpected snapshot lines: %v", lines)
	}
	counts := lines[0]["counts"].(map[string]any)
	if counts[store.KeyExpenses] != float64(1) {
		t.Errorf("expense count = %v, want 1", counts[store.KeyExpenses])
	}
}
