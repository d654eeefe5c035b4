package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/database"
	"shareit/internal/models"
)

func TestValidateBookingPeriod(t *testing.T) {
	env := setupEnv(t)

	start := fixedNow.Add(time.Hour)
	end := fixedNow.Add(2 * time.Hour)

	assert.NoError(t, env.bookings.ValidateBookingPeriod(start, end))

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"zero start", time.Time{}, end},
		{"zero end", start, time.Time{}},
		{"end equals start", start, start},
		{"end before start", end, start},
		{"start in the past", fixedNow.Add(-time.Hour), end},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.bookings.ValidateBookingPeriod(tt.start, tt.end)
			assert.ErrorIs(t, err, ErrInvalidPeriod)
		})
	}
}

func TestBookingCreate_Waiting(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	booking, err := env.bookings.Create(ctx, booker.ID, item.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	assert.Equal(t, booker.ID, booking.BookerID)

	stored, err := env.db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, stored.Status)
}

func TestBookingCreate_Failures(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	available := env.item(t, owner.ID, "Drill", true)
	unavailable := env.item(t, owner.ID, "Saw", false)

	start := fixedNow.Add(time.Hour)
	end := fixedNow.Add(2 * time.Hour)

	_, err := env.bookings.Create(ctx, 999, available.ID, start, end)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = env.bookings.Create(ctx, booker.ID, 999, start, end)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = env.bookings.Create(ctx, owner.ID, available.ID, start, end)
	assert.ErrorIs(t, err, ErrSelfBooking)

	_, err = env.bookings.Create(ctx, booker.ID, unavailable.ID, start, end)
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestBookingRead_PartiesOnly(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	stranger := env.user(t, "Stranger", "stranger@example.com")
	item := env.item(t, owner.ID, "Drill", true)
	booking := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), models.StatusWaiting)

	got, err := env.bookings.Read(ctx, booker.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	got, err = env.bookings.Read(ctx, owner.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	// A third party gets not-found, not forbidden.
	_, err = env.bookings.Read(ctx, stranger.ID, booking.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = env.bookings.Read(ctx, booker.ID, 999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestSetApproval(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	booking := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), models.StatusWaiting)

	approved, err := env.bookings.SetApproval(ctx, owner.ID, booking.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	stored, err := env.db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
}

func TestSetApproval_Reject(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)
	booking := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), models.StatusWaiting)

	rejected, err := env.bookings.SetApproval(ctx, owner.ID, booking.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
}

func TestSetApproval_OwnerOnly(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)
	booking := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), models.StatusWaiting)

	_, err := env.bookings.SetApproval(ctx, booker.ID, booking.ID, true)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// The failed attempt must not have changed anything.
	stored, err := env.db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, stored.Status)
}

func TestSetApproval_OneShot(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	// The guard is symmetric: any second decision fails, whether it repeats
	// the first one or reverses it.
	approved := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), models.StatusWaiting)
	_, err := env.bookings.SetApproval(ctx, owner.ID, approved.ID, true)
	require.NoError(t, err)

	_, err = env.bookings.SetApproval(ctx, owner.ID, approved.ID, true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	_, err = env.bookings.SetApproval(ctx, owner.ID, approved.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	rejected := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(3*time.Hour), fixedNow.Add(4*time.Hour), models.StatusWaiting)
	_, err = env.bookings.SetApproval(ctx, owner.ID, rejected.ID, false)
	require.NoError(t, err)

	_, err = env.bookings.SetApproval(ctx, owner.ID, rejected.ID, true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestListBookerBookings_TemporalSlices(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)

	past := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(-3*time.Hour), fixedNow.Add(-time.Hour), models.StatusApproved)
	current := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour), models.StatusApproved)
	future := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(3*time.Hour), models.StatusWaiting)

	page := models.Page{}

	all, err := env.bookings.ListBookerBookings(ctx, booker.ID, models.StateAll, page)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, future.ID, all[0].ID)
	assert.Equal(t, current.ID, all[1].ID)
	assert.Equal(t, past.ID, all[2].ID)

	got, err := env.bookings.ListBookerBookings(ctx, booker.ID, models.StateCurrent, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, current.ID, got[0].ID)

	got, err = env.bookings.ListBookerBookings(ctx, booker.ID, models.StateWaiting, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, future.ID, got[0].ID)

	_, err = env.bookings.ListBookerBookings(ctx, 999, models.StateAll, page)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestListOwnerItemBookings(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	booker := env.user(t, "Booker", "booker@example.com")
	item := env.item(t, owner.ID, "Drill", true)
	other := env.user(t, "Other", "other@example.com")
	otherItem := env.item(t, other.ID, "Saw", true)

	mine := env.booking(t, item.ID, booker.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), models.StatusWaiting)
	env.booking(t, otherItem.ID, booker.ID,
		fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour), models.StatusWaiting)

	got, err := env.bookings.ListOwnerItemBookings(ctx, owner.ID, models.StateAll, models.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	_, err = env.bookings.ListOwnerItemBookings(ctx, 999, models.StateAll, models.Page{})
	assert.ErrorIs(t, err, database.ErrNotFound)
}
