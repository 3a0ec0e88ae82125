package models

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrNotAuthenticated is returned by cart actions that need a user when none is set.
var ErrNotAuthenticated = errors.New("user not authenticated")

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUserNotFound    = errors.New("user not found")
)

// NetworkError is a connection or timeout failure talking to the remote service.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Timeout() bool {
	var ne net.Error
	return errors.Is(e.Err, context.DeadlineExceeded) || (errors.As(e.Err, &ne) && ne.Timeout())
}

// HTTPError is a non-2xx answer from the remote service.
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: remote returned status %d: %s", e.Op, e.Status, e.Body)
}

func (e *HTTPError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// LookupError is a single product resolution that failed during enrichment.
type LookupError struct {
	ProductID int
	Err       error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup product %d: %v", e.ProductID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.NotFound()
}
