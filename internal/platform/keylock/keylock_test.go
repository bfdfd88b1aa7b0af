package keylock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMap_SerializesSameKey(t *testing.T) {
	t.Parallel()

	locks := New()
	var inside, maxInside atomic.Int32

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock, err := locks.Lock(context.Background(), "game-1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			n := inside.Add(1)
			for {
				cur := maxInside.Load()
				if n <= cur || maxInside.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	if got := maxInside.Load(); got != 1 {
		t.Fatalf("expected one holder at a time, saw %d", got)
	}
	if got := locks.Len(); got != 0 {
		t.Fatalf("expected all slots released, got %d", got)
	}
}

func TestMap_DifferentKeysDoNotContend(t *testing.T) {
	t.Parallel()

	locks := New()
	unlockA, err := locks.Lock(context.Background(), "game-a")
	if err != nil {
		t.Fatalf("lock a: %v", err)
	}
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locks.Lock(ctx, "game-b")
	if err != nil {
		t.Fatalf("lock b while a is held: %v", err)
	}
	unlockB()
}

func TestMap_LockHonoursContext(t *testing.T) {
	t.Parallel()

	locks := New()
	unlock, err := locks.Lock(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := locks.Lock(ctx, "game-1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	unlock()
	unlock()
	if got := locks.Len(); got != 0 {
		t.Fatalf("expected slot cleanup after cancelled waiter, got %d", got)
	}
}
