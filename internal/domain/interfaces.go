package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Clock supplies the current instant. Services sample it once per operation
// so every temporal decision within an operation agrees on "now".
type Clock interface {
	Now() time.Time
}

type Repository interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	// items
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetOwnerItems(ctx context.Context, ownerID int64) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)

	// bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	GetBookerBookings(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, page models.Page) ([]*models.Booking, error)
	GetOwnerItemBookings(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, page models.Page) ([]*models.Booking, error)
	LatestApprovedBefore(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	EarliestApprovedAfter(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	ApprovedBookingCounts(ctx context.Context, itemID, bookerID int64, now time.Time) (total, begun int, err error)
	GetBookingsInRange(ctx context.Context, from, to time.Time) ([]*models.Booking, error)

	// comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetItemComments(ctx context.Context, itemID int64) ([]*models.Comment, error)

	// requests
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetUserRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	GetOtherUsersRequests(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error)
}

// ViewCache caches rendered item views for non-owner readers and tracks
// per-user request budgets.
type ViewCache interface {
	GetItemView(ctx context.Context, itemID int64) (*models.ItemView, error)
	SetItemView(ctx context.Context, view *models.ItemView) error
	InvalidateItemView(ctx context.Context, itemID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService interface {
	ValidateBookingPeriod(start, end time.Time) error
	Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	Read(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	SetApproval(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	ListBookerBookings(ctx context.Context, bookerID int64, state models.BookingState, page models.Page) ([]*models.Booking, error)
	ListOwnerItemBookings(ctx context.Context, ownerID int64, state models.BookingState, page models.Page) ([]*models.Booking, error)
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	Read(ctx context.Context, userID, itemID int64) (*models.ItemView, error)
	ReadAll(ctx context.Context, ownerID int64) ([]*models.ItemView, error)
	Update(ctx context.Context, ownerID, itemID int64, update models.ItemUpdate) (*models.ItemView, error)
	Search(ctx context.Context, text string) ([]*models.Item, error)
	CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Read(ctx context.Context, id int64) (*models.User, error)
	ReadAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, update models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type RequestService interface {
	Create(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error)
	Read(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error)
	ListOwn(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error)
}

// ReportScheduler accepts booking report export jobs.
type ReportScheduler interface {
	EnqueueExport(ctx context.Context, from, to time.Time) error
}
