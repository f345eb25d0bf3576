// Package worker consumes record events and materializes them into an
// append-only audit log. Expense creations are additionally forwarded
// to Google Sheets when an exporter is configured.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"fincontrol/internal/core"
	"fincontrol/internal/events"
	"fincontrol/internal/store"
)

// ExpenseAppender forwards an expense to an external sheet.
type ExpenseAppender interface {
	AppendExpense(ctx context.Context, e core.Expense) (string, error)
}

// AuditWorker writes one JSON line per record event. The log is the
// recovery trail for the record store; it is never read back by the
// application.
type AuditWorker struct {
	store    *store.Store
	exporter ExpenseAppender
	logPath  string

	mu sync.Mutex
}

// NewAuditWorker builds a worker. The exporter may be nil; expense
// forwarding is then skipped.
func NewAuditWorker(st *store.Store, exporter ExpenseAppender, logPath string) *AuditWorker {
	return &AuditWorker{
		store:    st,
		exporter: exporter,
		logPath:  logPath,
	}
}

type auditLine struct {
	OccurredAt time.Time `json:"occurredAt"`
	Collection string    `json:"collection"`
	RecordID   string    `json:"recordId"`
	Op         string    `json:"op"`
}

type snapshotLine struct {
	TakenAt time.Time      `json:"takenAt"`
	Kind    string         `json:"kind"`
	Counts  map[string]int `json:"counts"`
}

// HandleRecordEvent appends the event to the audit log and forwards
// expense creations to the exporter. A failed forward fails the event
// so the broker redelivers it; a failed audit write does the same.
func (w *AuditWorker) HandleRecordEvent(ctx context.Context, event *events.RecordEvent) error {
	line := auditLine{
		OccurredAt: event.OccurredAt,
		Collection: event.Collection,
		RecordID:   event.RecordID,
		Op:         event.Op,
	}
	if err := w.appendLine(line); err != nil {
		return fmt.Errorf("append audit line: %w", err)
	}

	if event.Collection == store.KeyExpenses && event.Op == events.OpCreated {
		if err := w.forwardExpense(ctx, event.RecordID); err != nil {
			return fmt.Errorf("forward expense: %w", err)
		}
	}

	return nil
}

func (w *AuditWorker) forwardExpense(ctx context.Context, id string) error {
	if w.exporter == nil {
		return nil
	}

	expenses, err := w.store.Expenses(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	for _, e := range expenses {
		if e.ID != id {
			continue
		}
		ref, err := w.exporter.AppendExpense(ctx, e)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "Forwarded expense to sheet",
			"id", id,
			"sheets_ref", ref)
		return nil
	}

	// The record was deleted before the event arrived. Nothing to
	// forward; the deletion event follows.
	slog.WarnContext(ctx, "Expense no longer present, skipping forward", "id", id)
	return nil
}

// RunSnapshots periodically appends a collection-count snapshot to the
// audit log until the context is cancelled. It recovers gaps left by
// lost events: the counts give an auditor a ground truth to diff
// against.
func (w *AuditWorker) RunSnapshots(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Snapshot(ctx); err != nil {
				slog.ErrorContext(ctx, "Failed to write snapshot", "error", err)
			}
		}
	}
}

// Snapshot appends one collection-count line.
func (w *AuditWorker) Snapshot(ctx context.Context) error {
	counts := make(map[string]int)

	expenses, err := w.store.Expenses(ctx)
	if err != nil {
		return err
	}
	counts[store.KeyExpenses] = len(expenses)

	investments, err := w.store.Investments(ctx)
	if err != nil {
		return err
	}
	counts[store.KeyInvestments] = len(investments)

	transactions, err := w.store.Transactions(ctx)
	if err != nil {
		return err
	}
	counts[store.KeyTransactions] = len(transactions)

	debts, err := w.store.Debts(ctx)
	if err != nil {
		return err
	}
	counts[store.KeyDebts] = len(debts)

	payments, err := w.store.Payments(ctx)
	if err != nil {
		return err
	}
	counts[store.KeyPayments] = len(payments)

	return w.appendLine(snapshotLine{
		TakenAt: time.Now(),
		Kind:    "snapshot",
		Counts:  counts,
	})
}

func (w *AuditWorker) appendLine(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}
