package database

import "errors"

var (
	// ErrNotFound reports that the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail reports a unique-constraint violation on users.email.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrAlreadyDecided reports a decision attempt on a booking that already
	// left the WAITING status.
	ErrAlreadyDecided = errors.New("booking is already decided")
)
