// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across store/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorruptRecord indicates a persisted slot held an unreadable or
	// wrong-shaped value and the seed default was substituted.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrListingNotAvailable indicates an operation permitted only while
	// a listing is still open (e.g. removing it after it was sold).
	ErrListingNotAvailable = errors.New("listing not available")

	// ErrStatusFinal indicates a transition requested out of the terminal
	// picked state.
	ErrStatusFinal = errors.New("status is final")

	// ErrBadTransition indicates a backward or skipping status move.
	ErrBadTransition = errors.New("bad status transition")
)
