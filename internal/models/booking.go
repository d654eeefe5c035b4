package models

import (
	"strings"
	"time"
)

// BookingStatus is the approval status of a booking. WAITING is the initial
// status; APPROVED and REJECTED are terminal.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

type Booking struct {
	ID        int64         `json:"id"`
	ItemID    int64         `json:"item_id"`
	BookerID  int64         `json:"booker_id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BookingSummary is the short form embedded into owner item views.
type BookingSummary struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func (b *Booking) Summary() *BookingSummary {
	if b == nil {
		return nil
	}
	return &BookingSummary{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}

// BookingState selects the temporal slice of a booking list. CURRENT, PAST
// and FUTURE are computed against the moment of the query with inclusive
// bounds; they are never stored.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState parses a state string case-insensitively. Callers must
// reject unknown values before they reach the services.
func ParseBookingState(s string) (BookingState, bool) {
	switch BookingState(strings.ToUpper(strings.TrimSpace(s))) {
	case StateAll:
		return StateAll, true
	case StateCurrent:
		return StateCurrent, true
	case StatePast:
		return StatePast, true
	case StateFuture:
		return StateFuture, true
	case StateWaiting:
		return StateWaiting, true
	case StateRejected:
		return StateRejected, true
	}
	return "", false
}
