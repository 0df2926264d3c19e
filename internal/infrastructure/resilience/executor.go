package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

type Classification struct {
	Retryable     bool
	RecordFailure bool
}

type Classifier func(err error) Classification

type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 100 * time.Millisecond,
		RetryMaxBackoff:     400 * time.Millisecond,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()
	if out.RetryMaxAttempts <= 0 {
		out.RetryMaxAttempts = def.RetryMaxAttempts
	}
	if out.RetryInitialBackoff <= 0 {
		out.RetryInitialBackoff = def.RetryInitialBackoff
	}
	if out.RetryMaxBackoff < out.RetryInitialBackoff {
		out.RetryMaxBackoff = out.RetryInitialBackoff
	}
	if out.RetryMultiplier < 1.0 {
		out.RetryMultiplier = def.RetryMultiplier
	}
	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}
	return out
}

// Executor guards one outbound collaborator with bounded retries and a
// circuit breaker. Construct one per collaborator, not per call.
type Executor struct {
	name     string
	cfg      Config
	classify Classifier
	breaker  *gobreaker.CircuitBreaker[any]
}

func NewExecutor(name string, cfg Config, classify Classifier) *Executor {
	cfg = cfg.normalize()
	if classify == nil {
		classify = func(error) Classification {
			return Classification{Retryable: false, RecordFailure: true}
		}
	}

	e := &Executor{name: name, cfg: cfg, classify: classify}
	if cfg.BreakerEnabled {
		e.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        name,
			MaxRequests: cfg.BreakerHalfOpenMaxCalls,
			Timeout:     cfg.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cfg.BreakerMinRequests {
					return false
				}
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= cfg.BreakerFailureRatio
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !classify(err).RecordFailure
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit_breaker_state_change", "collaborator", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return e
}

func (e *Executor) Execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	if e.breaker == nil {
		return e.executeWithRetry(ctx, operation, fn)
	}
	_, err := e.breaker.Execute(func() (any, error) {
		return nil, e.executeWithRetry(ctx, operation, fn)
	})
	return err
}

func (e *Executor) executeWithRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	backoff := e.cfg.RetryInitialBackoff
	var lastErr error

	for attempt := 1; attempt <= e.cfg.RetryMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if class := e.classify(lastErr); !class.Retryable || attempt == e.cfg.RetryMaxAttempts {
			return lastErr
		}

		wait := min(backoff, e.cfg.RetryMaxBackoff)
		slog.Warn("retry_attempt",
			"collaborator", e.name,
			"operation", operation,
			"attempt", attempt,
			"backoff_ms", float64(wait.Microseconds())/1000.0,
			"error", lastErr,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
		backoff = min(time.Duration(float64(backoff)*e.cfg.RetryMultiplier), e.cfg.RetryMaxBackoff)
	}
	return lastErr
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
