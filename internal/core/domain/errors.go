package domain

import "errors"

var (
	// ErrInvalidInput is returned before any algorithm runs when the point
	// list is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownAlgorithm is returned for names outside Algorithms.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrInvariantViolation signals that a defensive iteration bound was hit.
	// It always indicates a bug or a numerical breakdown, never bad input.
	ErrInvariantViolation = errors.New("algorithm invariant violation")
)
