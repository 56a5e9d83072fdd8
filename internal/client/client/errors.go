package client

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrValidation         = errors.New("validation error")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidHandshake   = errors.New("invalid handshake")
	ErrNetwork            = errors.New("network error")
)

// APIError carries the HTTP status and backend detail of a failed call.
// It unwraps to one of the sentinel errors above.
type APIError struct {
	Status int
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (status %d)", e.Err, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Detail returns the backend message attached to err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
