package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2.0,
	}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	executor := NewExecutor("test", fastConfig(), ClassifyTransport)

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return &StatusError{Status: http.StatusServiceUnavailable}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecuteStopsAfterMaxAttempts(t *testing.T) {
	executor := NewExecutor("test", fastConfig(), ClassifyTransport)

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return &StatusError{Status: http.StatusInternalServerError}
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecuteDoesNotRetryClientErrors(t *testing.T) {
	executor := NewExecutor("test", fastConfig(), ClassifyTransport)

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return &StatusError{Status: http.StatusBadRequest}
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("client errors must not be retried, got %d attempts", calls)
	}
}

func TestExecuteHonorsCancellation(t *testing.T) {
	executor := NewExecutor("test", fastConfig(), ClassifyTransport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := executor.Execute(ctx, "op", func(context.Context) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("callback must not run after cancellation")
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 3
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	executor := NewExecutor("test", cfg, ClassifyTransport)

	fail := func(context.Context) error {
		return &StatusError{Status: http.StatusServiceUnavailable}
	}
	for i := 0; i < 3; i++ {
		if err := executor.Execute(context.Background(), "op", fail); err == nil {
			t.Fatalf("expected failure")
		}
	}

	err := executor.Execute(context.Background(), "op", fail)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestClassifyTransport(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Classification
	}{
		{"cancellation", context.Canceled, Classification{Retryable: false, RecordFailure: false}},
		{"rate limited", &StatusError{Status: http.StatusTooManyRequests}, Classification{Retryable: true, RecordFailure: true}},
		{"server error", &StatusError{Status: http.StatusBadGateway}, Classification{Retryable: true, RecordFailure: true}},
		{"client error", &StatusError{Status: http.StatusUnprocessableEntity}, Classification{Retryable: false, RecordFailure: false}},
		{"unknown", errors.New("connection reset"), Classification{Retryable: true, RecordFailure: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyTransport(tc.err); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
