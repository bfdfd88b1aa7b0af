package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_DoSkipsCallsWhileOpen(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute})

	errPublish := errors.New("xadd failed")
	calls := 0
	publish := func(context.Context) error {
		calls++
		return errPublish
	}

	if err := b.Do(context.Background(), publish); !errors.Is(err, errPublish) {
		t.Fatalf("expected publish error, got %v", err)
	}
	if err := b.Do(context.Background(), publish); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected dependency called once, got %d", calls)
	}
}

func TestCircuitBreaker_DoIgnoresCallerCancellation(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Do(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("caller cancellation must not trip the breaker, got %s", state)
	}
}

func TestNormalizeCircuitBreakerConfig_FillsDefaults(t *testing.T) {
	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: 3})
	if !cfg.Enabled || cfg.FailureThreshold != 3 {
		t.Fatalf("expected explicit values kept, got %+v", cfg)
	}
	if cfg.OpenTimeout != defaultOpenTimeout || cfg.HalfOpenMaxReq != defaultHalfOpenMaxReq {
		t.Fatalf("expected defaults filled, got %+v", cfg)
	}
}
