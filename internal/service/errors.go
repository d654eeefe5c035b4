package service

import "errors"

var (
	// ErrSelfBooking: an owner tried to book their own item. Surfaced as a
	// not-found at the boundary so existence of the item is not confirmed.
	ErrSelfBooking = errors.New("owner cannot book own item")

	// ErrItemUnavailable: the item's availability flag is off.
	ErrItemUnavailable = errors.New("item is not available for booking")

	// ErrAlreadyDecided: the booking already left the WAITING status. Both
	// terminal statuses block further transitions.
	ErrAlreadyDecided = errors.New("booking is already decided")

	// ErrAccessDenied: authenticated but unauthorized actor.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotBooked: the comment author has no approved booking on the item.
	ErrNotBooked = errors.New("user has not booked this item")

	// ErrBookingNotStarted: an approved booking exists but none has begun.
	ErrBookingNotStarted = errors.New("booking has not started yet")

	// ErrInvalidPeriod: malformed booking time range.
	ErrInvalidPeriod = errors.New("invalid booking period")
)
