package provider

import "errors"

var (
	// ErrBlockNotFound is returned when a provider has no block at the
	// requested height (e.g. it has been pruned upstream or was never
	// produced).
	ErrBlockNotFound = errors.New("block not found")

	// ErrNoTip is returned by a tip query against an empty remote chain.
	ErrNoTip = errors.New("remote chain has no tip")
)
