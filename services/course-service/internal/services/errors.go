package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the services, handlers map them to HTTP statuses
var (
	ErrValidation      = errors.New("invalid request")
	ErrForbidden       = errors.New("you do not have rights to manage this course")
	ErrNotFound        = errors.New("not found")
	ErrGenerationParse = errors.New("failed to parse generated content")
	ErrUpstream        = errors.New("upstream service error")
	ErrStore           = errors.New("store error")
)

// requestError carries a client-facing message while matching ErrValidation
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func (e *requestError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func notFoundError(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func upstreamError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
