// Package services holds the form controllers: each operation takes the
// raw string values a form submits, validates them into domain records,
// persists through the record store and publishes a change event.
package services

import (
	"context"
	"log/slog"
	"time"

	"fincontrol/internal/core"
	"fincontrol/internal/events"
	"fincontrol/internal/store"
)

// Ledger orchestrates record operations across the store and AMQP.
type Ledger struct {
	store     *store.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewLedger builds a Ledger. The publisher may be nil; events are then
// skipped.
func NewLedger(st *store.Store, publisher events.Publisher) *Ledger {
	return &Ledger{
		store:     st,
		publisher: publisher,
		now:       time.Now,
	}
}

// publishEvent is non-blocking for the caller's outcome: the local write
// already succeeded, so a broker failure is only logged.
func (l *Ledger) publishEvent(ctx context.Context, collection, recordID, op string) {
	if l.publisher == nil {
		return
	}
	event := events.NewRecordEvent(collection, recordID, op)
	if err := l.publisher.PublishRecordEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"collection", collection,
			"recordId", recordID,
			"op", op,
			"error", err)
	}
}

// Summary computes the aggregated dashboard totals from all collections.
func (l *Ledger) Summary(ctx context.Context) (core.Summary, error) {
	expenses, err := l.store.Expenses(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	investments, err := l.store.Investments(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	debts, err := l.store.Debts(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	salary, err := l.store.Salary(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(expenses, investments, debts, salary), nil
}

func (l *Ledger) Close() error {
	return l.store.Close()
}
