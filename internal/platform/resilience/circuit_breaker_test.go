package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	var transitions []string
	b := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
		OnStateChange: func(from, to CircuitState) {
			transitions = append(transitions, string(from)+"->"+string(to))
		},
	})

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
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
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second half-open probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transition %d: got=%s want=%s", i, transitions[i], want[i])
		}
	}
}

func TestCircuitBreaker_ExecuteClassifiesFailures(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute})
	permanent := errors.New("forbidden")
	transient := errors.New("bad gateway")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	if err := b.Execute(func() error { return permanent }, isTransient); !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error to pass through, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("permanent errors must not trip the breaker, got %s", state)
	}

	if err := b.Execute(func() error { return transient }, isTransient); !errors.Is(err, transient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after transient failure, got %s", state)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, isTransient)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected rejection without calling fn, err=%v called=%t", err, called)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold != defaults.FailureThreshold || cfg.OpenTimeout != defaults.OpenTimeout || cfg.HalfOpenMaxReq != defaults.HalfOpenMaxReq {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if !cfg.Enabled {
		t.Fatalf("enabled flag must be preserved")
	}
}
