// Package events carries record-change notifications out of the web
// process. Every successful write publishes one event; consumers (the
// audit worker, the sheets forwarder) act on them asynchronously.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Operations a record can undergo.
const (
	OpCreated = "created"
	OpDeleted = "deleted"
	OpUpdated = "updated"
)

// RecordEvent identifies a changed record. It carries no payload: the
// consumer reads the current collection state from the store.
type RecordEvent struct {
	Collection string    `json:"collection"`
	RecordID   string    `json:"recordId"`
	Op         string    `json:"op"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewRecordEvent(collection, recordID, op string) *RecordEvent {
	return &RecordEvent{
		Collection: collection,
		RecordID:   recordID,
		Op:         op,
		OccurredAt: time.Now(),
	}
}

func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher is what the form controllers see. Publish failures are
// logged by the caller, never surfaced to the user: the local write
// already succeeded.
type Publisher interface {
	PublishRecordEvent(ctx context.Context, event *RecordEvent) error
}
