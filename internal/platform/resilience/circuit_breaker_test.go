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

func TestCircuitBreaker_ExecuteCountsOnlyDependencyFailures(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1})
	if b == nil {
		t.Fatalf("expected breaker for enabled config")
	}

	errCaller := errors.New("bad input")
	errUpstream := errors.New("upstream down")
	isFailure := func(err error) bool { return errors.Is(err, errUpstream) }

	err := b.Execute(t.Context(), func(context.Context) error { return errCaller }, isFailure)
	if !errors.Is(err, errCaller) {
		t.Fatalf("expected caller error to pass through, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("caller errors must not open the breaker, got %s", state)
	}

	_ = b.Execute(t.Context(), func(context.Context) error { return errUpstream }, isFailure)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after dependency failure, got %s", state)
	}

	called := false
	err = b.Execute(t.Context(), func(context.Context) error { called = true; return nil }, isFailure)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected short-circuit while open, err=%v called=%v", err, called)
	}
}

func TestNewCircuitBreakerFromConfig_Disabled(t *testing.T) {
	var b *CircuitBreaker = NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	if err := b.Execute(t.Context(), func(context.Context) error { return nil }, nil); err != nil {
		t.Fatalf("nil breaker should run fn unguarded: %v", err)
	}
}

func TestNewCircuitBreakerFromConfig_FillsDefaults(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true})
	if b == nil {
		t.Fatalf("expected breaker when enabled")
	}
	if b.failureThreshold != 5 || b.openTimeout != 15*time.Second || b.halfOpenMaxReq != 2 {
		t.Fatalf("unexpected defaults: threshold=%d open=%s halfOpen=%d", b.failureThreshold, b.openTimeout, b.halfOpenMaxReq)
	}
}

func TestCircuitBreaker_ReportsTransitions(t *testing.T) {
	type transition struct {
		name     string
		from, to CircuitState
	}
	var seen []transition

	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{
		Enabled:          true,
		Name:             "webhook",
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
		HalfOpenMaxReq:   1,
		OnStateChange: func(name string, from, to CircuitState) {
			seen = append(seen, transition{name: name, from: from, to: to})
		},
	})
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe, got %v", err)
	}
	b.RecordSuccess()

	want := []transition{
		{name: "webhook", from: CircuitStateClosed, to: CircuitStateOpen},
		{name: "webhook", from: CircuitStateOpen, to: CircuitStateHalfOpen},
		{name: "webhook", from: CircuitStateHalfOpen, to: CircuitStateClosed},
	}
	if len(seen) != len(want) {
		t.Fatalf("unexpected transitions: %+v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d: want %+v got %+v", i, want[i], seen[i])
		}
	}
}
