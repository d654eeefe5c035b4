package models

import "time"

// ItemRequest is a wish for an item that does not exist yet. Items may
// declare themselves as fulfilling a request via Item.RequestID.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Items fulfilling this request; filled on read, not persisted here.
	Items []*Item `json:"items"`
}
