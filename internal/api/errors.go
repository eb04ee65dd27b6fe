package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single error type for non-2xx responses. Message is the
// server's "message" field when the error body carries one, otherwise a
// synthesized "HTTP <status>".
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}

	return &Error{Status: status, Message: message}
}

// IsStatus reports whether err is an api.Error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}

	return false
}

// IsNotFound reports whether err is a 404 from the server. Some lookups
// treat this as a valid "absence" result rather than a failure.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
