package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `id, item_id, booker_id, start_at, end_at, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_at, end_at, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC().Truncate(time.Second)
	result, err := db.ExecContext(ctx, query,
		booking.ItemID, booking.BookerID,
		fmtTime(booking.Start), fmtTime(booking.End),
		booking.Status, fmtTime(now), fmtTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Start = booking.Start.UTC().Truncate(time.Second)
	booking.End = booking.End.UTC().Truncate(time.Second)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatus moves a WAITING booking to the given status. The WHERE
// condition makes the transition a single atomic step, so two racing
// decisions cannot both land.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, fmtTime(time.Now()), id, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if _, err := db.GetBooking(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: booking %d", ErrAlreadyDecided, id)
	}
	return nil
}

// stateClause maps a booking state to its SQL predicate. Temporal states use
// inclusive bounds against the supplied instant. The prefix qualifies the
// booking columns when the query joins other tables.
func stateClause(state models.BookingState, now time.Time, prefix string) (string, []any) {
	nowStr := fmtTime(now)
	switch state {
	case models.StateCurrent:
		return fmt.Sprintf(` AND %[1]sstart_at <= ? AND %[1]send_at >= ?`, prefix), []any{nowStr, nowStr}
	case models.StatePast:
		return fmt.Sprintf(` AND %[1]sstart_at <= ? AND %[1]send_at <= ?`, prefix), []any{nowStr, nowStr}
	case models.StateFuture:
		return fmt.Sprintf(` AND %[1]sstart_at >= ? AND %[1]send_at >= ?`, prefix), []any{nowStr, nowStr}
	case models.StateWaiting:
		return ` AND ` + prefix + `status = ?`, []any{models.StatusWaiting}
	case models.StateRejected:
		return ` AND ` + prefix + `status = ?`, []any{models.StatusRejected}
	default:
		return ``, nil
	}
}

// GetBookerBookings returns the booker's bookings filtered by state, newest
// start first.
func (db *DB) GetBookerBookings(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, page models.Page) ([]*models.Booking, error) {
	clause, args := stateClause(state, now, "")
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booker_id = ?` + clause +
		` ORDER BY start_at DESC, id LIMIT ? OFFSET ?`

	queryArgs := append([]any{bookerID}, args...)
	queryArgs = append(queryArgs, limitOf(page), page.Offset)
	return db.queryBookings(ctx, query, queryArgs...)
}

// GetOwnerItemBookings returns bookings of every item owned by ownerID,
// filtered by state, newest start first.
func (db *DB) GetOwnerItemBookings(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, page models.Page) ([]*models.Booking, error) {
	clause, args := stateClause(state, now, "b.")
	query := `SELECT b.id, b.item_id, b.booker_id, b.start_at, b.end_at, b.status, b.created_at, b.updated_at
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              WHERE i.owner_id = ?` + clause +
		` ORDER BY b.start_at DESC, b.id LIMIT ? OFFSET ?`

	queryArgs := append([]any{ownerID}, args...)
	queryArgs = append(queryArgs, limitOf(page), page.Offset)
	return db.queryBookings(ctx, query, queryArgs...)
}

// LatestApprovedBefore returns the approved booking of the item with the
// greatest end among those started before now, or nil when none exist.
func (db *DB) LatestApprovedBefore(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND status = ? AND start_at < ?
              ORDER BY end_at DESC LIMIT 1`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, models.StatusApproved, fmtTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest approved booking: %w", err)
	}
	return booking, nil
}

// EarliestApprovedAfter returns the approved booking of the item with the
// smallest start among those starting after now, or nil when none exist.
func (db *DB) EarliestApprovedAfter(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND status = ? AND start_at > ?
              ORDER BY start_at ASC LIMIT 1`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, models.StatusApproved, fmtTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get earliest approved booking: %w", err)
	}
	return booking, nil
}

// ApprovedBookingCounts reports how many approved bookings the booker has on
// the item, and how many of those have already begun.
func (db *DB) ApprovedBookingCounts(ctx context.Context, itemID, bookerID int64, now time.Time) (total, begun int, err error) {
	query := `SELECT COUNT(*), COALESCE(SUM(CASE WHEN start_at < ? THEN 1 ELSE 0 END), 0)
              FROM bookings WHERE item_id = ? AND booker_id = ? AND status = ?`

	err = db.QueryRowContext(ctx, query, fmtTime(now), itemID, bookerID, models.StatusApproved).
		Scan(&total, &begun)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count approved bookings: %w", err)
	}
	return total, begun, nil
}

// GetBookingsInRange returns bookings overlapping [from, to], earliest first.
func (db *DB) GetBookingsInRange(ctx context.Context, from, to time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE start_at <= ? AND end_at >= ? ORDER BY start_at, id`
	return db.queryBookings(ctx, query, fmtTime(to), fmtTime(from))
}

func limitOf(page models.Page) int {
	if page.Limit <= 0 {
		return -1 // SQLite: no limit
	}
	return page.Limit
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
