package ratelimit

import (
	"context"
	"log"
	"time"
)

const (
	// DefaultLimit and DefaultWindow are the documented admission bounds:
	// at most 5 requests per client per trailing 60 seconds.
	DefaultLimit  = 5
	DefaultWindow = 60 * time.Second

	keyPrefix = "ratelimit:"

	// storeTimeout bounds the whole store round-trip sequence of one Admit
	// call; expiry counts as a store failure and triggers the local fallback.
	storeTimeout = 2 * time.Second
)

// Limiter decides per-request admission using the shared counter store when
// one is configured and reachable, and the local window otherwise. The
// fallback is per call: a store failure never disables the store, the next
// Admit tries it again.
type Limiter struct {
	store CounterStore // nil means local-only
	local *LocalWindow

	window time.Duration
	limit  int

	now func() time.Time
}

// NewLimiter creates a Limiter. store may be nil, in which case the local
// window is used exclusively.
func NewLimiter(store CounterStore, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		store:  store,
		local:  NewLocalWindow(limit, window),
		window: window,
		limit:  limit,
		now:    time.Now,
	}
}

// Local exposes the fallback window so the owner can start its janitor.
func (l *Limiter) Local() *LocalWindow {
	return l.local
}

// Admit reports whether a request from clientID may proceed. It is total: it
// never returns an error regardless of store connectivity, degrading to the
// local window instead. An empty clientID is a valid key; all unidentified
// clients share that one bucket.
func (l *Limiter) Admit(ctx context.Context, clientID string) Decision {
	if l.store == nil {
		return Decision{Allowed: l.local.Allow(clientID)}
	}

	allowed, err := l.admitStore(ctx, clientID)
	if err != nil {
		log.Printf("rate limit store error, falling back to local window: %v", err)
		return Decision{Allowed: l.local.Allow(clientID)}
	}
	return Decision{Allowed: allowed}
}

// admitStore runs the check-then-insert sequence against the counter store.
// The two round trips are not atomic; concurrent requests near the boundary
// may both be admitted. That soft limit is accepted behavior.
func (l *Limiter) admitStore(ctx context.Context, clientID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	key := keyPrefix + clientID
	now := l.now()

	if err := l.store.RemoveOlderThan(ctx, key, now.Add(-l.window)); err != nil {
		return false, err
	}

	count, err := l.store.Count(ctx, key)
	if err != nil {
		return false, err
	}
	if count >= int64(l.limit) {
		return false, nil
	}

	if err := l.store.Insert(ctx, key, now); err != nil {
		return false, err
	}
	if err := l.store.SetExpiry(ctx, key, l.window+time.Second); err != nil {
		return false, err
	}

	return true, nil
}
