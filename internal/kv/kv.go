// Package kv defines the key-value storage port the record store is
// built on, replacing the browser's localStorage with an injectable
// backend.
package kv

import "context"

// Store is a flat key-value namespace holding one JSON document per key.
//
// Get returns (nil, nil) for a missing key. SetMulti writes several keys
// as one unit: backends that support transactions apply all writes or
// none, which the record store relies on for paired appends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMulti(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
