package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden access")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("resource conflict") // e.g., username already exists
	ErrValidation   = errors.New("validation failed")

	// ErrGradingUnavailable means the execution collaborator could not be
	// reached or timed out. It is never converted into a FAILED verdict.
	ErrGradingUnavailable = errors.New("grading service unavailable")

	// ErrStoreUnavailable wraps persistence failures on read or write. The core
	// does not retry; that belongs to the transport layer.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrGradingUnavailable), errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// KindFromError maps domain errors to the stable machine-readable kind exposed
// in error responses. A more specific kind always wins over the generic one.
func KindFromError(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrGradingUnavailable):
		return "GRADING_UNAVAILABLE"
	case errors.Is(err, ErrStoreUnavailable):
		return "STORE_UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrBadRequest):
		return "BAD_REQUEST"
	}
	return "INTERNAL"
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
