package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingSelect = `SELECT b.id, b.item_id, i.name, i.owner_id, b.booker_id,
	                 b.start_time, b.end_time, b.status, b.created_at, b.updated_at
              FROM bookings b JOIN items i ON i.id = b.item_id`

const bookingInsert = `INSERT INTO bookings (
				item_id, booker_id, start_time, end_time, status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, bookingInsert,
		booking.ItemID,
		booking.BookerID,
		formatTime(booking.Start),
		formatTime(booking.End),
		booking.Status,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 1. Check availability inside transaction
	var available bool
	err = tx.QueryRowContext(ctx, `SELECT available FROM items WHERE id = ?`, booking.ItemID).Scan(&available)
	if err != nil {
		return notFound(err, "item", booking.ItemID)
	}
	if !available {
		return fmt.Errorf("%w: item %d", domain.ErrNotAvailable, booking.ItemID)
	}

	// 2. Create booking
	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, bookingInsert,
		booking.ItemID,
		booking.BookerID,
		formatTime(booking.Start),
		formatTime(booking.End),
		booking.Status,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFoundf("booking %d", id)
	}
	return nil
}

func (db *DB) UpdateBookingStatusFrom(ctx context.Context, id int64, from, to models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, to, formatTime(time.Now()), id, from)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	// бронирования не удаляются, поэтому отсутствие строки означает неверный id
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check booking: %w", err)
	}
	if !exists {
		return domain.NotFoundf("booking %d", id)
	}
	return fmt.Errorf("%w: booking %d", domain.ErrAlreadyDecided, id)
}

func (db *DB) GetBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	var where []string
	var args []interface{}

	if filter.BookerID != 0 {
		where = append(where, "b.booker_id = ?")
		args = append(args, filter.BookerID)
	}
	if filter.OwnerID != 0 {
		where = append(where, "i.owner_id = ?")
		args = append(args, filter.OwnerID)
	}

	now := formatTime(filter.Now)
	switch filter.State {
	case models.StateCurrent:
		where = append(where, "b.start_time <= ? AND b.end_time >= ?")
		args = append(args, now, now)
	case models.StatePast:
		where = append(where, "b.end_time < ?")
		args = append(args, now)
	case models.StateFuture:
		where = append(where, "b.start_time > ?")
		args = append(args, now)
	case models.StateWaiting:
		where = append(where, "b.status = ?")
		args = append(args, models.StatusWaiting)
	case models.StateRejected:
		where = append(where, "b.status = ?")
		args = append(args, models.StatusRejected)
	}

	query := bookingSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.start_time DESC, b.id DESC LIMIT ? OFFSET ?"
	args = append(args, limitArg(filter.Page), filter.Page.Offset)

	return db.queryBookings(ctx, query, args...)
}

func (db *DB) GetApprovedBookingsForItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := bookingSelect + ` WHERE b.status = ? AND b.item_id IN (` + placeholders(len(itemIDs)) + `)
              ORDER BY b.start_time`
	args := append([]interface{}{models.StatusApproved}, int64Args(itemIDs)...)
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) HasCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE booker_id = ? AND item_id = ? AND status = ? AND end_time < ?`
	var count int
	err := db.QueryRowContext(ctx, query, bookerID, itemID, models.StatusApproved, formatTime(now)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check completed bookings: %w", err)
	}
	return count > 0, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var start, end, createdAt, updatedAt string
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID,
		&start, &end, &b.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&b.Start, start}, {&b.End, end}, {&b.CreatedAt, createdAt}, {&b.UpdatedAt, updatedAt},
	} {
		if *f.dst, err = parseTime(f.src); err != nil {
			return nil, err
		}
	}
	return &b, nil
}
