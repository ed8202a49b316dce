package apperr

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("operation is not allowed in current order status")
	ErrAlreadyClaimed    = errors.New("worker already claimed this order")
	ErrNotAssigned       = errors.New("worker is not assigned to this order")
	ErrSlotsExhausted    = errors.New("no free worker slots")
	ErrUnauthorized      = errors.New("not allowed")
	ErrOracleUnavailable = errors.New("payment oracle unavailable")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAlreadyReviewed   = errors.New("worker already reviewed for this order")
	ErrConflict          = errors.New("conflict")
)

func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrNotFound):
		return "not_found"

	case errors.Is(err, ErrInvalidState):
		return "invalid_state"

	case errors.Is(err, ErrAlreadyClaimed):
		return "already_claimed"

	case errors.Is(err, ErrNotAssigned):
		return "not_assigned"

	case errors.Is(err, ErrSlotsExhausted):
		return "slots_exhausted"

	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"

	case errors.Is(err, ErrOracleUnavailable):
		return "oracle_unavailable"

	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"

	case errors.Is(err, ErrAlreadyReviewed):
		return "already_reviewed"

	case errors.Is(err, ErrConflict):
		return "conflict"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, context.Canceled):
		return "canceled"

	default:
		return "internal"
	}
}

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest

	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden

	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrAlreadyClaimed),
		errors.Is(err, ErrNotAssigned),
		errors.Is(err, ErrAlreadyReviewed),
		errors.Is(err, ErrConflict):
		return http.StatusConflict

	case errors.Is(err, ErrSlotsExhausted):
		return http.StatusUnprocessableEntity

	// never shown to end users as such; the reconciler retries
	case errors.Is(err, ErrOracleUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
