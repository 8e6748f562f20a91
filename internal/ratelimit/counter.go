// Package ratelimit implements a per-client sliding-window limiter backed by
// a shared counter store with an in-process fallback window.
package ratelimit

import (
	"context"
	"time"
)

// CounterStore abstracts a shared sliding-window counter. Any operation may
// fail with a transient connectivity error; callers treat every failure the
// same way and fall back to the local window for that call.
type CounterStore interface {
	// RemoveOlderThan drops all entries for key with a timestamp before cutoff.
	RemoveOlderThan(ctx context.Context, key string, cutoff time.Time) error
	// Count returns the number of entries currently recorded for key.
	Count(ctx context.Context, key string) (int64, error)
	// Insert records one entry for key at the given timestamp.
	Insert(ctx context.Context, key string, ts time.Time) error
	// SetExpiry refreshes the retention of key so abandoned windows age out.
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error
}

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed bool
}
