// Package domain holds the error taxonomy shared across services and
// the entities they operate on.
package domain

import "errors"

var (
	// ErrNotFound is returned on an owner-scoped lookup miss. Rows owned
	// by another user are reported the same way so their existence does
	// not leak.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned on unique constraint violations, e.g. a
	// duplicate email at registration.
	ErrConflict = errors.New("resource already exists")
	// ErrValidation is returned when input violates a constraint; the
	// wrapping message names the constraint.
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when credentials or tokens do not
	// check out.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream is returned when the external rate source is
	// unreachable or malformed. It is always recovered internally via
	// the fallback chain and never surfaced to API callers.
	ErrUpstream = errors.New("upstream rate source failure")
)
