package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/itinera/internal/repository"
)

type ErrorCode string

const (
	ErrTripNotFound   ErrorCode = "trip_not_found"
	ErrDayNotFound    ErrorCode = "day_not_found"
	ErrSlotNotFound   ErrorCode = "slot_not_found"
	ErrInvalidRequest ErrorCode = "invalid_request"
	ErrUndoFailed     ErrorCode = "undo_failed"
)

// ServiceError is a domain failure the caller can act on. Infrastructure
// failures are returned as plain wrapped errors.
type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func newError(code ErrorCode, format string, args ...any) *ServiceError {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err carries a ServiceError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Code == code
}

// notFoundAs turns a repository miss into a ServiceError and passes any
// other error through.
func notFoundAs(err error, code ErrorCode, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(code, format, args...)
	}
	return err
}
