package api

import (
	"errors"
	"net/http"

	"grocery-graph/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
// SupplierNotFound maps to 400: it is a rejected input on the request
// payload, not a missing routed resource. InvariantError maps to 500 and
// is the one class the handler also logs.
func httpStatusFromDomainError(err error) int {
	var (
		notFound    *domain.NotFoundError
		denied      *domain.AccessDeniedError
		validation  *domain.ValidationError
		conflict    *domain.ConflictError
		supplier    *domain.SupplierNotFoundError
		unavailable *domain.UnavailableError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &denied):
		return http.StatusForbidden
	case errors.As(err, &validation), errors.As(err, &supplier):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
