package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mirai2k/booking-app/internal/model"
)

// BookingRepo provides CRUD access to the `bookings` table. Intervals
// are half-open [start_time, end_time) and stored in UTC. The
// repository does not police overlaps; two bookings on the same room
// with intersecting intervals may both exist as rows.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, room_id, user_id, start_time, end_time, status, created_at, updated_at`

func scanBooking(scan func(dest ...interface{}) error) (*model.Booking, error) {
	var b model.Booking
	err := scan(&b.ID, &b.RoomID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking with the given status and returns the
// stored row.
func (r *BookingRepo) Create(ctx context.Context, roomID, userID uint64, start, end time.Time, status model.BookingStatus) (*model.Booking, error) {
	const q = `INSERT INTO bookings (room_id, user_id, start_time, end_time, status) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, roomID, userID, start.UTC(), end.UTC(), status)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.getByID(ctx, uint64(id))
}

// List returns all bookings ordered by id.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// GetByID returns the booking with the given id, or nil when no such
// booking exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := r.getByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *BookingRepo) getByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
}

// GetWithRoomAndUser returns the booking joined with its room and
// user. ErrNotFound is returned when the booking does not exist. The
// joined load feeds the confirmation notification, which references
// both the recipient and the room by name.
func (r *BookingRepo) GetWithRoomAndUser(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	const q = `SELECT b.id, b.room_id, b.user_id, b.start_time, b.end_time, b.status, b.created_at, b.updated_at,
	                  r.id, r.name, r.capacity, r.description, r.created_at, r.updated_at,
	                  u.id, u.name, u.email, u.created_at, u.updated_at
	           FROM bookings b
	           JOIN rooms r ON r.id = b.room_id
	           JOIN users u ON u.id = b.user_id
	           WHERE b.id = ?`
	var d model.BookingDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.RoomID, &d.UserID, &d.StartTime, &d.EndTime, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.Room.ID, &d.Room.Name, &d.Room.Capacity, &d.Room.Description, &d.Room.CreatedAt, &d.Room.UpdatedAt,
		&d.User.ID, &d.User.Name, &d.User.Email, &d.User.CreatedAt, &d.User.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Update applies the optional interval fields and the status to the
// booking and returns the updated row. ErrNotFound is returned when
// the booking does not exist.
func (r *BookingRepo) Update(ctx context.Context, id uint64, start, end *time.Time, status model.BookingStatus) (*model.Booking, error) {
	sets := []string{"status = ?"}
	args := []interface{}{status}
	if start != nil {
		sets = append(sets, "start_time = ?")
		args = append(args, start.UTC())
	}
	if end != nil {
		sets = append(sets, "end_time = ?")
		args = append(args, end.UTC())
	}
	q := `UPDATE bookings SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	b, err := r.getByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// Delete removes the booking with the given id. ErrNotFound is
// returned when no row was deleted.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM bookings WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
