package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_AdmitsUpToLimitThenRejects(t *testing.T) {
	limiter := NewLimiter(nil, 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if d := limiter.Admit(ctx, "client-a"); !d.Allowed {
			t.Fatalf("expected request %d to be admitted", i+1)
		}
	}

	if d := limiter.Admit(ctx, "client-a"); d.Allowed {
		t.Fatalf("expected 6th request to be rejected")
	}

	// Another client has its own window.
	if d := limiter.Admit(ctx, "client-b"); !d.Allowed {
		t.Fatalf("expected other client to be admitted")
	}
}

func TestLimiter_WindowSlides(t *testing.T) {
	limiter := NewLimiter(nil, 2, 50*time.Millisecond)
	ctx := context.Background()

	limiter.Admit(ctx, "client-a")
	limiter.Admit(ctx, "client-a")
	if d := limiter.Admit(ctx, "client-a"); d.Allowed {
		t.Fatalf("expected rejection at the limit")
	}

	time.Sleep(60 * time.Millisecond)

	if d := limiter.Admit(ctx, "client-a"); !d.Allowed {
		t.Fatalf("expected admission after the window elapsed")
	}
}

func TestLimiter_EmptyClientIDSharesOneBucket(t *testing.T) {
	limiter := NewLimiter(nil, 2, time.Minute)
	ctx := context.Background()

	limiter.Admit(ctx, "")
	limiter.Admit(ctx, "")
	if d := limiter.Admit(ctx, ""); d.Allowed {
		t.Fatalf("expected anonymous bucket to be limited as one client")
	}
}

func TestLimiter_StoreCountsAcrossCalls(t *testing.T) {
	store := newMockCounterStore()
	limiter := NewLimiter(store, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if d := limiter.Admit(ctx, "client-a"); !d.Allowed {
			t.Fatalf("expected request %d to be admitted via store", i+1)
		}
	}
	if d := limiter.Admit(ctx, "client-a"); d.Allowed {
		t.Fatalf("expected store-backed rejection at the limit")
	}
	if got := store.inserts["ratelimit:client-a"]; got != 3 {
		t.Fatalf("expected 3 inserted entries, got %d", got)
	}
}

// Admit must stay total when the store fails, degrading to the local window
// instead of surfacing an error or panicking.
func TestLimiter_FallsBackToLocalOnStoreFailure(t *testing.T) {
	store := newMockCounterStore()
	store.fail = true

	limiter := NewLimiter(store, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if d := limiter.Admit(ctx, "client-a"); !d.Allowed {
			t.Fatalf("expected fallback admission %d", i+1)
		}
	}
	if d := limiter.Admit(ctx, "client-a"); d.Allowed {
		t.Fatalf("expected fallback window to enforce the limit")
	}
}

// A store failure is a per-call condition: the next Admit must try the store
// again rather than staying in fallback mode.
func TestLimiter_RetriesStoreAfterFailure(t *testing.T) {
	store := newMockCounterStore()
	store.fail = true

	limiter := NewLimiter(store, 5, time.Minute)
	ctx := context.Background()

	limiter.Admit(ctx, "client-a")
	if store.calls == 0 {
		t.Fatalf("expected the store to be attempted")
	}

	store.fail = false
	calls := store.calls

	if d := limiter.Admit(ctx, "client-a"); !d.Allowed {
		t.Fatalf("expected admission once the store recovered")
	}
	if store.calls <= calls {
		t.Fatalf("expected the store to be retried after recovery")
	}
	if store.inserts["ratelimit:client-a"] != 1 {
		t.Fatalf("expected exactly one store entry after recovery, got %d", store.inserts["ratelimit:client-a"])
	}
}

func TestLimiter_RejectionDoesNotMutateStore(t *testing.T) {
	store := newMockCounterStore()
	limiter := NewLimiter(store, 1, time.Minute)
	ctx := context.Background()

	limiter.Admit(ctx, "client-a")
	limiter.Admit(ctx, "client-a")
	limiter.Admit(ctx, "client-a")

	if got := store.inserts["ratelimit:client-a"]; got != 1 {
		t.Fatalf("expected rejected requests to leave the window untouched, got %d entries", got)
	}
}

type mockCounterStore struct {
	entries map[string][]time.Time
	inserts map[string]int
	expiry  map[string]time.Duration
	calls   int
	fail    bool
}

func newMockCounterStore() *mockCounterStore {
	return &mockCounterStore{
		entries: make(map[string][]time.Time),
		inserts: make(map[string]int),
		expiry:  make(map[string]time.Duration),
	}
}

var errStoreDown = errors.New("store unavailable")

func (m *mockCounterStore) RemoveOlderThan(_ context.Context, key string, cutoff time.Time) error {
	m.calls++
	if m.fail {
		return errStoreDown
	}
	kept := m.entries[key][:0]
	for _, ts := range m.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	m.entries[key] = kept
	return nil
}

func (m *mockCounterStore) Count(_ context.Context, key string) (int64, error) {
	m.calls++
	if m.fail {
		return 0, errStoreDown
	}
	return int64(len(m.entries[key])), nil
}

func (m *mockCounterStore) Insert(_ context.Context, key string, ts time.Time) error {
	m.calls++
	if m.fail {
		return errStoreDown
	}
	m.entries[key] = append(m.entries[key], ts)
	m.inserts[key]++
	return nil
}

func (m *mockCounterStore) SetExpiry(_ context.Context, key string, ttl time.Duration) error {
	m.calls++
	if m.fail {
		return errStoreDown
	}
	m.expiry[key] = ttl
	return nil
}
