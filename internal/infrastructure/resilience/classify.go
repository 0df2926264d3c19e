package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// StatusError is a non-2xx response from an HTTP collaborator.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// ClassifyTransport is the shared policy for the HTTP collaborators:
// retry network failures, 429 and 5xx; never count cancellation against
// the breaker; treat other 4xx as caller bugs that retrying cannot fix.
func ClassifyTransport(err error) Classification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Classification{Retryable: false, RecordFailure: false}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Status == http.StatusTooManyRequests || statusErr.Status >= 500 {
			return Classification{Retryable: true, RecordFailure: true}
		}
		return Classification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Classification{Retryable: true, RecordFailure: true}
	}

	return Classification{Retryable: true, RecordFailure: true}
}
