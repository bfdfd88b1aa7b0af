package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CoalescesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "box-score", nil
	}

	const workers = 32
	var started, wg sync.WaitGroup
	started.Add(workers)
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			started.Done()
			v, err := store.GetOrLoad(context.Background(), Key("game", "g1", "team", "home"), loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "box-score" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("storage down")
		}
		return 7, nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if v.(int) != 7 {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestStore_DeletePrefix_StopsAtPartBoundary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(0)
	store.Set(ctx, Key("game", "g1", "players"), 1)
	store.Set(ctx, Key("game", "g1", "team", "home"), 2)
	store.Set(ctx, Key("game", "g10", "players"), 3)

	store.DeletePrefix(ctx, Key("game", "g1"))

	if _, ok := store.Get(ctx, Key("game", "g1", "players")); ok {
		t.Fatalf("expected g1 players entry to be dropped")
	}
	if _, ok := store.Get(ctx, Key("game", "g1", "team", "home")); ok {
		t.Fatalf("expected g1 team entry to be dropped")
	}
	if _, ok := store.Get(ctx, Key("game", "g10", "players")); !ok {
		t.Fatalf("g10 entry must survive invalidation of g1")
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	store.Set(ctx, "k", "v")
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected expired entry to miss")
	}

	stats := store.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestStore_GetOrLoad_SkipsCachingAcrossInvalidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	value, err := store.GetOrLoad(ctx, Key("stats", "g1", "teams"), func(ctx context.Context) (any, error) {
		store.DeletePrefix(ctx, Key("stats", "g1"))
		return "stale", nil
	})
	if err != nil || value != "stale" {
		t.Fatalf("unexpected load result %v, %v", value, err)
	}
	if _, ok := store.Get(ctx, Key("stats", "g1", "teams")); ok {
		t.Fatalf("load overlapping an invalidation must not be cached")
	}

	if _, err := store.GetOrLoad(ctx, Key("stats", "g1", "teams"), func(context.Context) (any, error) {
		return "fresh", nil
	}); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, ok := store.Get(ctx, Key("stats", "g1", "teams")); !ok || got != "fresh" {
		t.Fatalf("expected fresh value cached, got %v (%t)", got, ok)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
