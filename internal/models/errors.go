package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork wraps transport failures.
	ErrNetwork = errors.New("network error")
	// ErrMalformed marks a response body that does not match either schema.
	ErrMalformed = errors.New("malformed response")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Body)
}

// IsStatus reports whether err is a StatusError and returns its code.
func IsStatus(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
