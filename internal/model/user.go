package model

import "time"

// User represents a requester as stored in the `users` table.
// Email uniqueness is enforced by the database, not by the
// application layer.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name used in notification bodies.
//  Email     – unique email address, the notification recipient.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    `json:"id"`         // users.id
	Name      string    `json:"name"`       // users.name
	Email     string    `json:"email"`      // users.email
	CreatedAt time.Time `json:"created_at"` // users.created_at
	UpdatedAt time.Time `json:"updated_at"` // users.updated_at
}
