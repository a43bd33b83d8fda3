// Package common defines shared sentinel errors used across the game core.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotFound is returned when a record does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrStore marks a backend I/O failure on load/save/destroy. It is
	// always joined with the underlying cause.
	ErrStore = errors.New("store error")

	// ErrUnknownField signals a schema bug: a field name that is not
	// declared on the record it was used with.
	ErrUnknownField = errors.New("unknown field")
)
