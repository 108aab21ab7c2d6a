package repository

import "errors"

var (
	// ErrNotFound is returned when a fetch-one yields zero rows.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when an insert violates a uniqueness
	// constraint (reference-value names, user emails).
	ErrDuplicateKey = errors.New("duplicate key")
)
