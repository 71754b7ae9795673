package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func fastConfig(breaker bool) Config {
	return Config{
		RetryMaxAttempts:        3,
		RetryInitialBackoff:     time.Millisecond,
		RetryMaxBackoff:         2 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          breaker,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}
}

func TestCallRetriesRetryableFailure(t *testing.T) {
	exec := NewExecutor(fastConfig(false))
	errTemp := errors.New("temporary")

	attempts := 0
	got, err := Call(context.Background(), exec, "complete", func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errTemp
		}
		return "ok", nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{Retryable: errors.Is(err, errTemp), RecordFailure: true}
	})
	if err != nil || got != "ok" {
		t.Fatalf("Call() = %q, %v", got, err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastConfig(false))
	errPermanent := errors.New("permanent")

	attempts := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errPermanent
	}, nil)
	if !errors.Is(err, errPermanent) || attempts != 1 {
		t.Fatalf("expected one failed attempt, got %d: %v", attempts, err)
	}
}

func TestSingleAttemptNeverRetries(t *testing.T) {
	exec := NewExecutor(SingleAttempt())
	attempts := 0
	_ = exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errors.New("boom")
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestExecuteOpensCircuitAndReportsState(t *testing.T) {
	cfg := fastConfig(true)
	cfg.RetryMaxAttempts = 1
	var transitions []string
	cfg.OnStateChange = func(op, from, to string) {
		transitions = append(transitions, op+":"+from+"->"+to)
	}
	exec := NewExecutor(cfg)

	errTemp := errors.New("temporary")
	for i := 0; i < 2; i++ {
		if err := exec.Execute(context.Background(), "webhook", func(context.Context) error { return errTemp }, nil); !errors.Is(err, errTemp) {
			t.Fatalf("iteration %d: unexpected error %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "webhook", func(context.Context) error {
		t.Fatalf("circuit should be open")
		return nil
	}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsCircuitOpen(err) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if len(transitions) != 1 || transitions[0] != "webhook:closed->open" {
		t.Fatalf("unexpected transitions: %v", transitions)
	}

	states := exec.States()
	if len(states) != 1 || states[0].State != "open" {
		t.Fatalf("unexpected states: %+v", states)
	}
}

func TestExecuteHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewExecutor(fastConfig(false)).Execute(ctx, "op", func(context.Context) error {
		t.Fatalf("must not run")
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
