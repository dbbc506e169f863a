package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx backend response. Detail carries the backend's own
// error message when the body had one.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend: %d", e.Status)
}

// Message returns the backend detail for display, or the fallback when the
// backend gave none or the failure never reached the backend.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsNotFound reports whether err is a backend 404. Order lookups rely on
// this to render a distinct not-found state instead of an empty one.
func IsNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a backend 401, the signal that a
// stored token is invalid or expired.
func IsUnauthorized(err error) bool {
	return isStatus(err, http.StatusUnauthorized)
}

func isStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
