package models

import "time"

type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	OwnerID     int64     `json:"owner_id"`
	RequestID   int64     `json:"request_id,omitempty"` // 0 when the item fulfils no request
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemUpdate carries a partial item update; nil fields are left untouched.
type ItemUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemView is the read model for an item: the item itself, its comments and,
// for the owner only, the adjacent approved bookings. Never persisted.
type ItemView struct {
	Item        Item            `json:"item"`
	LastBooking *BookingSummary `json:"last_booking,omitempty"`
	NextBooking *BookingSummary `json:"next_booking,omitempty"`
	Comments    []*Comment      `json:"comments"`
}
