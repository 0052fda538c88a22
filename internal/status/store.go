package status

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("status: key not found")

// Store is a TTL'd key-value store with an atomic compare-and-swap. It is
// the only shared mutable state between the API process and the worker
// process; everything else flows through the queue.
//
// CompareAndSwap with an empty old value means "set only if the key is
// absent". The swap reports false without error when the current value does
// not match, which callers use to detect an analysis already in flight.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	CompareAndSwap(ctx context.Context, key, old, new string, ttl time.Duration) (bool, error)
}
