package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestCreateAndGetBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := testNow.Add(time.Hour)
	end := testNow.Add(3 * time.Hour)
	booking := createTestBooking(t, db, item.ID, booker.ID, start, end, models.StatusWaiting)
	assert.NotZero(t, booking.ID)

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ItemID)
	assert.Equal(t, booker.ID, got.BookerID)
	assert.Equal(t, models.StatusWaiting, got.Status)
	assert.True(t, got.Start.Equal(start))
	assert.True(t, got.End.Equal(end))
}

func TestGetBooking_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetBooking(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBookingStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)
	booking := createTestBooking(t, db, item.ID, booker.ID, testNow, testNow.Add(time.Hour), models.StatusWaiting)

	require.NoError(t, db.UpdateBookingStatus(ctx, booking.ID, models.StatusApproved))

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	err = db.UpdateBookingStatus(ctx, 999, models.StatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBookingStatus_DecidedIsFinal(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)
	booking := createTestBooking(t, db, item.ID, booker.ID, testNow, testNow.Add(time.Hour), models.StatusWaiting)

	require.NoError(t, db.UpdateBookingStatus(ctx, booking.ID, models.StatusApproved))

	// A second decision, even one that observed WAITING before the first
	// landed, must not overwrite the terminal status.
	err := db.UpdateBookingStatus(ctx, booking.ID, models.StatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

// seedTemporalBookings creates one booking per temporal bucket relative to
// testNow, all on the same item, and returns past, current, future.
func seedTemporalBookings(t *testing.T, db *DB, itemID, bookerID int64) (past, current, future *models.Booking) {
	t.Helper()
	past = createTestBooking(t, db, itemID, bookerID,
		testNow.Add(-3*time.Hour), testNow.Add(-time.Hour), models.StatusApproved)
	current = createTestBooking(t, db, itemID, bookerID,
		testNow.Add(-time.Hour), testNow.Add(time.Hour), models.StatusApproved)
	future = createTestBooking(t, db, itemID, bookerID,
		testNow.Add(time.Hour), testNow.Add(3*time.Hour), models.StatusWaiting)
	return past, current, future
}

func TestGetBookerBookings_States(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)
	past, current, future := seedTemporalBookings(t, db, item.ID, booker.ID)
	rejected := createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(4*time.Hour), testNow.Add(5*time.Hour), models.StatusRejected)

	page := models.Page{}

	all, err := db.GetBookerBookings(ctx, booker.ID, models.StateAll, testNow, page)
	require.NoError(t, err)
	require.Len(t, all, 4)
	// Newest start first.
	assert.Equal(t, rejected.ID, all[0].ID)
	assert.Equal(t, future.ID, all[1].ID)
	assert.Equal(t, current.ID, all[2].ID)
	assert.Equal(t, past.ID, all[3].ID)

	got, err := db.GetBookerBookings(ctx, booker.ID, models.StateCurrent, testNow, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, current.ID, got[0].ID)

	got, err = db.GetBookerBookings(ctx, booker.ID, models.StatePast, testNow, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, past.ID, got[0].ID)

	got, err = db.GetBookerBookings(ctx, booker.ID, models.StateFuture, testNow, page)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, rejected.ID, got[0].ID)
	assert.Equal(t, future.ID, got[1].ID)

	got, err = db.GetBookerBookings(ctx, booker.ID, models.StateWaiting, testNow, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, future.ID, got[0].ID)

	got, err = db.GetBookerBookings(ctx, booker.ID, models.StateRejected, testNow, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rejected.ID, got[0].ID)
}

func TestGetBookerBookings_InclusiveBounds(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	// Ends exactly at the query instant; both CURRENT and PAST contain it.
	ending := createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(-time.Hour), testNow, models.StatusApproved)

	got, err := db.GetBookerBookings(ctx, booker.ID, models.StateCurrent, testNow, models.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ending.ID, got[0].ID)

	got, err = db.GetBookerBookings(ctx, booker.ID, models.StatePast, testNow, models.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ending.ID, got[0].ID)
}

func TestGetBookerBookings_Paging(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	for i := 0; i < 5; i++ {
		createTestBooking(t, db, item.ID, booker.ID,
			testNow.Add(time.Duration(i)*time.Hour), testNow.Add(time.Duration(i+1)*time.Hour),
			models.StatusWaiting)
	}

	got, err := db.GetBookerBookings(ctx, booker.ID, models.StateAll, testNow, models.Page{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first, so offset 1 skips the latest start.
	assert.True(t, got[0].Start.After(got[1].Start))
}

func TestGetOwnerItemBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	other := createTestUser(t, db, "Other", "other@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")

	ownerItem := createTestItem(t, db, owner.ID, "Drill", true)
	otherItem := createTestItem(t, db, other.ID, "Saw", true)

	mine := createTestBooking(t, db, ownerItem.ID, booker.ID,
		testNow.Add(time.Hour), testNow.Add(2*time.Hour), models.StatusWaiting)
	createTestBooking(t, db, otherItem.ID, booker.ID,
		testNow.Add(time.Hour), testNow.Add(2*time.Hour), models.StatusWaiting)

	got, err := db.GetOwnerItemBookings(ctx, owner.ID, models.StateAll, testNow, models.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	got, err = db.GetOwnerItemBookings(ctx, owner.ID, models.StateWaiting, testNow, models.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestLatestApprovedBefore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	// No approved bookings yet.
	got, err := db.LatestApprovedBefore(ctx, item.ID, testNow)
	require.NoError(t, err)
	assert.Nil(t, got)

	early := createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(-5*time.Hour), testNow.Add(-4*time.Hour), models.StatusApproved)
	late := createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(-3*time.Hour), testNow.Add(-time.Hour), models.StatusApproved)
	// Started before now but WAITING; must not win.
	createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(-time.Hour), testNow.Add(time.Hour), models.StatusWaiting)

	got, err = db.LatestApprovedBefore(ctx, item.ID, testNow)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, late.ID, got.ID)
	assert.NotEqual(t, early.ID, got.ID)
}

func TestEarliestApprovedAfter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	got, err := db.EarliestApprovedAfter(ctx, item.ID, testNow)
	require.NoError(t, err)
	assert.Nil(t, got)

	soon := createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(time.Hour), testNow.Add(2*time.Hour), models.StatusApproved)
	createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(3*time.Hour), testNow.Add(4*time.Hour), models.StatusApproved)
	// Future but REJECTED; must not win.
	createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(30*time.Minute), testNow.Add(45*time.Minute), models.StatusRejected)

	got, err = db.EarliestApprovedAfter(ctx, item.ID, testNow)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, soon.ID, got.ID)
}

func TestApprovedBookingCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	total, begun, err := db.ApprovedBookingCounts(ctx, item.ID, booker.ID, testNow)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, begun)

	// Approved but not started.
	createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(time.Hour), testNow.Add(2*time.Hour), models.StatusApproved)

	total, begun, err = db.ApprovedBookingCounts(ctx, item.ID, booker.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Zero(t, begun)

	// Approved and started.
	createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(-2*time.Hour), testNow.Add(-time.Hour), models.StatusApproved)
	// Started but WAITING; does not count at all.
	createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(-4*time.Hour), testNow.Add(-3*time.Hour), models.StatusWaiting)

	total, begun, err = db.ApprovedBookingCounts(ctx, item.ID, booker.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, begun)
}

func TestGetBookingsInRange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	inside := createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(time.Hour), testNow.Add(2*time.Hour), models.StatusWaiting)
	overlapping := createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(-time.Hour), testNow.Add(90*time.Minute), models.StatusApproved)
	createTestBooking(t, db, item.ID, booker.ID,
		testNow.Add(10*time.Hour), testNow.Add(11*time.Hour), models.StatusWaiting)

	got, err := db.GetBookingsInRange(ctx, testNow, testNow.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Earliest start first.
	assert.Equal(t, overlapping.ID, got[0].ID)
	assert.Equal(t, inside.ID, got[1].ID)
}
