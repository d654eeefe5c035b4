package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingSvc drives the booking lifecycle: creation through the availability
// rules, the one-shot approval transition and the temporal list views.
type BookingSvc struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *BookingSvc {
	if clock == nil {
		clock = SystemClock{}
	}
	return &BookingSvc{
		repo:     repo,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

// ValidateBookingPeriod checks range legality. It runs at the boundary,
// before identity and availability checks.
func (s *BookingSvc) ValidateBookingPeriod(start, end time.Time) error {
	now := s.clock.Now()

	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidPeriod)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidPeriod)
	}
	if start.Before(now) {
		return fmt.Errorf("%w: start must not be in the past", ErrInvalidPeriod)
	}
	if end.Before(now) {
		return fmt.Errorf("%w: end must not be in the past", ErrInvalidPeriod)
	}
	return nil
}

// Create persists a WAITING booking after the availability rules pass. The
// time range is assumed legal here; ValidateBookingPeriod runs earlier.
func (s *BookingSvc) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == bookerID {
		return nil, fmt.Errorf("%w: item %d", ErrSelfBooking, itemID)
	}
	if !item.Available {
		return nil, fmt.Errorf("%w: item %d", ErrItemUnavailable, itemID)
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, booking, bookerID)
	return booking, nil
}

// Read returns the booking to its booker or the item's owner. Anyone else
// gets a not-found so the booking's existence is not leaked.
func (s *BookingSvc) Read(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, fmt.Errorf("%w: booking %d", database.ErrNotFound, bookingID)
	}
	return booking, nil
}

// SetApproval moves a WAITING booking to APPROVED or REJECTED. Only the item
// owner may decide, and a decided booking cannot be decided again.
func (s *BookingSvc) SetApproval(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: user %d does not own item %d", ErrAccessDenied, ownerID, item.ID)
	}

	if booking.Status != models.StatusWaiting {
		return nil, fmt.Errorf("%w: booking %d is %s", ErrAlreadyDecided, bookingID, booking.Status)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		if errors.Is(err, database.ErrAlreadyDecided) {
			// Lost the race to a concurrent decision.
			return nil, fmt.Errorf("%w: booking %d", ErrAlreadyDecided, bookingID)
		}
		return nil, err
	}
	booking.Status = status

	metrics.IncBookingDecision(string(status))
	s.publishEvent(eventType, booking, ownerID)
	return booking, nil
}

// ListBookerBookings returns the user's own bookings in the given temporal
// slice, newest start first.
func (s *BookingSvc) ListBookerBookings(ctx context.Context, bookerID int64, state models.BookingState, page models.Page) ([]*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}
	return s.repo.GetBookerBookings(ctx, bookerID, state, s.clock.Now(), page)
}

// ListOwnerItemBookings returns bookings across all of the owner's items in
// the given temporal slice, newest start first.
func (s *BookingSvc) ListOwnerItemBookings(ctx context.Context, ownerID int64, state models.BookingState, page models.Page) ([]*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetOwnerItemBookings(ctx, ownerID, state, s.clock.Now(), page)
}

func (s *BookingSvc) publishEvent(eventType string, booking *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
		ActorID:   actorID,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
