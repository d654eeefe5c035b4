package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/models"
)

type bookingCreateRequest struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (s *HTTPServer) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	bookerID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body bookingCreateRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}
	if err := s.bookings.ValidateBookingPeriod(body.Start, body.End); err != nil {
		writeDomainError(w, err)
		return
	}

	booking, err := s.bookings.Create(r.Context(), bookerID, body.ItemID, body.Start, body.End)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleBookingGet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.Read(r.Context(), userID, bookingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleBookingApproval(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	approved, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get("approved")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "approved parameter is required")
		return
	}

	booking, err := s.bookings.SetApproval(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.handleBookingList(w, r, s.bookings.ListBookerBookings)
}

func (s *HTTPServer) handleOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.handleBookingList(w, r, s.bookings.ListOwnerItemBookings)
}

func (s *HTTPServer) handleBookingList(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID int64, state models.BookingState, page models.Page) ([]*models.Booking, error),
) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw := r.URL.Query().Get("state")
	if strings.TrimSpace(raw) == "" {
		raw = string(models.StateAll)
	}
	state, ok := models.ParseBookingState(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown state: %s", raw))
		return
	}

	page, err := pageFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := list(r.Context(), userID, state, page)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}
