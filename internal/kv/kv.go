// Package kv is the durable key/value adapter every collection persists
// through. Values are opaque strings; collection encoding is the caller's
// business. An absent key is a normal miss (ErrNoKey), not a failure.
package kv

import (
	"context"
	"errors"
)

// ErrNoKey is returned by Get when the key has never been set or was removed.
var ErrNoKey = errors.New("kv: key not found")

// Store describes the persistence operations required by the portal services.
// Implementations must be safe for concurrent use within one process; writes
// from multiple processes against the same backing store are last-writer-wins.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
