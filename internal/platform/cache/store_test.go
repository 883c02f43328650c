package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAndDeletesByPrefix(t *testing.T) {
	store := NewStore(time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	store.Set(ctx, Key("stats", "team-1", "summary", "2026"), 1)
	store.Set(ctx, Key("stats", "team-1", "leaders", "2026"), 2)
	store.Set(ctx, Key("stats", "team-2", "summary", "2026"), 3)

	store.DeletePrefix(ctx, Key("stats", "team-1")+":")
	if store.Len() != 1 {
		t.Fatalf("expected only team-2 entry to remain, got %d entries", store.Len())
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(ctx, Key("stats", "team-2", "summary", "2026")); ok {
		t.Fatalf("expected entry to expire after ttl")
	}
}

func TestLoad_Typed(t *testing.T) {
	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := Load(context.Background(), store, "names", loader)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("unexpected value: %v", got)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("loader called %d times, want 1", calls.Load())
	}

	_, err := Load(context.Background(), store, "failing", func(context.Context) (int, error) {
		return 0, errUnexpectedValue
	})
	if !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(context.Background(), "failing"); ok {
		t.Fatalf("failed loads must not be cached")
	}
}

func TestStore_InvalidationDuringLoadIsNotCached(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()

	value, err := store.GetOrLoad(ctx, Key("stats", "team-1", "summary"), func(ctx context.Context) (any, error) {
		// A finished match invalidates the team while the summary is being computed.
		store.DeletePrefix(ctx, Key("stats", "team-1")+":")
		return "stale", nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	if value != "stale" {
		t.Fatalf("caller should still receive its loaded value, got %v", value)
	}
	if _, ok := store.Get(ctx, Key("stats", "team-1", "summary")); ok {
		t.Fatalf("value loaded across an invalidation must not be cached")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
