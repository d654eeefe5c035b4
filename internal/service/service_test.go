package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"shareit/internal/database"
	"shareit/internal/models"
)

// fixedClock pins "now" so temporal rules are deterministic.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *database.DB
	clock    fixedClock
	bookings *BookingSvc
	items    *ItemSvc
	users    *UserSvc
	requests *RequestSvc
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := fixedClock{now: fixedNow}
	return &testEnv{
		db:       db,
		clock:    clock,
		bookings: NewBookingService(db, nil, clock, &logger),
		items:    NewItemService(db, nil, nil, clock, &logger),
		users:    NewUserService(db, &logger),
		requests: NewRequestService(db, clock, &logger),
	}
}

func (e *testEnv) user(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, e.db.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
		OwnerID:     ownerID,
	}
	require.NoError(t, e.db.CreateItem(context.Background(), item))
	return item
}

func (e *testEnv) booking(t *testing.T, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   status,
	}
	require.NoError(t, e.db.CreateBooking(context.Background(), booking))
	return booking
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
