package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mirai2k/booking-app/internal/model"
)

// RoomRepo provides CRUD access to the `rooms` table plus the
// availability query used by the availability service. All timestamp
// columns are stored in UTC.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, name, capacity, description, created_at, updated_at`

func scanRoom(row *sql.Row) (*model.Room, error) {
	var r model.Room
	err := row.Scan(&r.ID, &r.Name, &r.Capacity, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a room and returns the stored row.
func (r *RoomRepo) Create(ctx context.Context, name string, capacity uint32, description string) (*model.Room, error) {
	const q = `INSERT INTO rooms (name, capacity, description) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, name, capacity, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.getByID(ctx, uint64(id))
}

// List returns all rooms ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Room, 0)
	for rows.Next() {
		var m model.Room
		if err := rows.Scan(&m.ID, &m.Name, &m.Capacity, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetByID returns the room with the given id, or nil when no such
// room exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	room, err := r.getByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return room, err
}

func (r *RoomRepo) getByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(r.db.QueryRowContext(ctx, q, id))
}

// Update applies the non-nil fields to the room and returns the
// updated row. ErrNotFound is returned when the room does not exist.
func (r *RoomRepo) Update(ctx context.Context, id uint64, name *string, capacity *uint32, description *string) (*model.Room, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if capacity != nil {
		sets = append(sets, "capacity = ?")
		args = append(args, *capacity)
	}
	if description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *description)
	}
	if len(sets) > 0 {
		q := `UPDATE rooms SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	room, err := r.getByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return room, err
}

// Delete removes the room with the given id. ErrNotFound is returned
// when no row was deleted.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM rooms WHERE id = ?`
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

// FindAvailable returns the rooms that have no non-CANCELLED booking
// overlapping the half-open interval [start, end). The overlap test is
// b.start_time < end AND b.end_time > start, so a booking that ends
// exactly when the query starts does not block the room.
func (r *RoomRepo) FindAvailable(ctx context.Context, start, end time.Time) ([]model.Room, error) {
	const q = `SELECT r.id, r.name, r.capacity, r.description, r.created_at, r.updated_at
	           FROM rooms r
	           WHERE NOT EXISTS (
	               SELECT 1 FROM bookings b
	               WHERE b.room_id = r.id
	                 AND b.status <> 'CANCELLED'
	                 AND b.start_time < ?
	                 AND b.end_time > ?
	           )
	           ORDER BY r.id`
	rows, err := r.db.QueryContext(ctx, q, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Room, 0)
	for rows.Next() {
		var m model.Room
		if err := rows.Scan(&m.ID, &m.Name, &m.Capacity, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
