package poll

import "errors"

var (
	// ErrNotFound indicates the requested poll doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a poll with the same ID is already registered.
	ErrDuplicate = errors.New("duplicate entry")
)
