package httpadapter

import (
	"errors"
	"net/http"

	"github.com/hillslab/lawcounsel/internal/core/domain"
	"github.com/hillslab/lawcounsel/internal/infrastructure/resilience"
)

// A failed generation call is surfaced for that single question only;
// the corpus and index are untouched and the next question proceeds.
func mapErrorToHTTPStatus(err error) int {
	var statusErr *resilience.StatusError
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTemporary), resilience.IsCircuitOpen(err):
		return http.StatusServiceUnavailable
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
