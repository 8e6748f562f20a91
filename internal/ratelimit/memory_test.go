package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestLocalWindow_PrunesExpiredEntries(t *testing.T) {
	w := NewLocalWindow(2, time.Minute)

	current := time.Now()
	w.now = func() time.Time { return current }

	if !w.Allow("client-a") || !w.Allow("client-a") {
		t.Fatalf("expected first two requests to be admitted")
	}
	if w.Allow("client-a") {
		t.Fatalf("expected third request to be rejected")
	}

	// Move past the earliest entry; it must no longer count.
	current = current.Add(61 * time.Second)
	if !w.Allow("client-a") {
		t.Fatalf("expected admission after the earliest entry aged out")
	}
}

func TestLocalWindow_CleanupDropsIdleClients(t *testing.T) {
	w := NewLocalWindow(5, 50*time.Millisecond)

	w.Allow("client-a")
	w.Allow("client-b")

	time.Sleep(60 * time.Millisecond)
	w.Cleanup()

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.entries) != 0 {
		t.Fatalf("expected all idle clients to be dropped, have %d", len(w.entries))
	}
}

func TestLocalWindow_ConcurrentAccess(t *testing.T) {
	w := NewLocalWindow(1000, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				w.Allow("shared")
			}
		}()
	}
	wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if got := len(w.entries["shared"]); got != 500 {
		t.Fatalf("expected 500 recorded entries, got %d", got)
	}
}
