package ratelimit

import (
	"context"
	"sync"
	"time"
)

// LocalWindow is the in-process sliding window used when no counter store is
// configured or the store is failing. Multiple request goroutines mutate it
// concurrently, so all access goes through the mutex.
type LocalWindow struct {
	mu      sync.Mutex
	entries map[string][]time.Time

	window time.Duration
	limit  int

	// now is swappable in tests.
	now func() time.Time
}

func NewLocalWindow(limit int, window time.Duration) *LocalWindow {
	return &LocalWindow{
		entries: make(map[string][]time.Time),
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
}

// Allow prunes timestamps for id older than the window, rejects when the
// remaining count has reached the limit, and otherwise records the current
// instant and admits. Rejection leaves the window untouched.
func (w *LocalWindow) Allow(id string) bool {
	now := w.now()
	cutoff := now.Add(-w.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	timestamps := w.entries[id]
	pruned := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= w.limit {
		w.entries[id] = pruned
		return false
	}

	w.entries[id] = append(pruned, now)
	return true
}

// Cleanup drops clients whose every entry has aged out of the window.
func (w *LocalWindow) Cleanup() {
	cutoff := w.now().Add(-w.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	for id, timestamps := range w.entries {
		stale := true
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(w.entries, id)
		}
	}
}

// StartJanitor periodically runs Cleanup until ctx is cancelled.
func (w *LocalWindow) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				w.Cleanup()
			}
		}
	}()
}
