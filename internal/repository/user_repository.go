package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mirai2k/booking-app/internal/model"
)

// UserRepo provides CRUD access to the `users` table. Emails are
// normalized to lower case before hitting the database; the unique
// index on users.email is the only uniqueness enforcement.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, name, email, created_at, updated_at`

// Create inserts a user and returns the stored row. ErrEmailExists is
// returned on a duplicate email.
func (r *UserRepo) Create(ctx context.Context, name, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `INSERT INTO users (name, email) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, name, email)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.getByID(ctx, uint64(id))
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.User, 0)
	for rows.Next() {
		var m model.User
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetByID returns the user with the given id, or nil when no such
// user exists.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := r.getByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepo) getByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies the non-nil fields to the user and returns the
// updated row. ErrNotFound is returned when the user does not exist,
// ErrEmailExists when the new email collides with another user.
func (r *UserRepo) Update(ctx context.Context, id uint64, name, email *string) (*model.User, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(*email)))
	}
	if len(sets) > 0 {
		q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			if strings.Contains(err.Error(), "1062") {
				return nil, ErrEmailExists
			}
			return nil, err
		}
	}
	u, err := r.getByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// Delete removes the user with the given id. ErrNotFound is returned
// when no row was deleted.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM users WHERE id = ?`
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
