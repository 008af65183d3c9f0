package registry

import "errors"

var (
	// ErrNotFound: the id does not resolve to a stored record.
	ErrNotFound = errors.New("application not found")

	// ErrConflict: a non-empty applicationID is already taken.
	ErrConflict = errors.New("application ID already exists")

	// ErrValidation: a required field is missing or malformed. Wrapped
	// errors carry the human-readable detail.
	ErrValidation = errors.New("invalid application")
)
