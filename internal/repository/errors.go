package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert or update violates a
	// uniqueness constraint (user email, item title per owner).
	ErrDuplicate = errors.New("already exists")
)
