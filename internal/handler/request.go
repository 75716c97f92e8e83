package handler

import (
	"net/mail"
	"strings"
	"time"

	"github.com/mirai2k/booking-app/internal/model"
)

// Violation describes a single field-level validation failure.
// Handlers collect violations and return them all at once so clients
// can fix a request in one round trip.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func parseTimestamp(field, value string, vs []Violation) (time.Time, []Violation) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, append(vs, Violation{Field: field, Message: "is required"})
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, append(vs, Violation{Field: field, Message: "must be an RFC3339 timestamp"})
	}
	return t, vs
}

// CreateRoomRequest is the body of POST /v1/rooms.
type CreateRoomRequest struct {
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

func (r *CreateRoomRequest) Validate() []Violation {
	var vs []Violation
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		vs = append(vs, Violation{Field: "name", Message: "is required"})
	} else if len(r.Name) > 100 {
		vs = append(vs, Violation{Field: "name", Message: "must be at most 100 characters"})
	}
	if r.Capacity < 1 {
		vs = append(vs, Violation{Field: "capacity", Message: "must be a positive integer"})
	}
	if len(r.Description) > 500 {
		vs = append(vs, Violation{Field: "description", Message: "must be at most 500 characters"})
	}
	return vs
}

// UpdateRoomRequest is the body of PUT /v1/rooms/:id. All fields are
// optional; absent fields are left untouched.
type UpdateRoomRequest struct {
	Name        *string `json:"name"`
	Capacity    *int    `json:"capacity"`
	Description *string `json:"description"`
}

func (r *UpdateRoomRequest) Validate() []Violation {
	var vs []Violation
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		*r.Name = trimmed
		if trimmed == "" {
			vs = append(vs, Violation{Field: "name", Message: "must not be empty"})
		} else if len(trimmed) > 100 {
			vs = append(vs, Violation{Field: "name", Message: "must be at most 100 characters"})
		}
	}
	if r.Capacity != nil && *r.Capacity < 1 {
		vs = append(vs, Violation{Field: "capacity", Message: "must be a positive integer"})
	}
	if r.Description != nil && len(*r.Description) > 500 {
		vs = append(vs, Violation{Field: "description", Message: "must be at most 500 characters"})
	}
	return vs
}

// CreateUserRequest is the body of POST /v1/users.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *CreateUserRequest) Validate() []Violation {
	var vs []Violation
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		vs = append(vs, Violation{Field: "name", Message: "is required"})
	} else if len(r.Name) > 100 {
		vs = append(vs, Violation{Field: "name", Message: "must be at most 100 characters"})
	}
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		vs = append(vs, Violation{Field: "email", Message: "is required"})
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		vs = append(vs, Violation{Field: "email", Message: "must be a valid email address"})
	}
	return vs
}

// UpdateUserRequest is the body of PUT /v1/users/:id.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r *UpdateUserRequest) Validate() []Violation {
	var vs []Violation
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		*r.Name = trimmed
		if trimmed == "" {
			vs = append(vs, Violation{Field: "name", Message: "must not be empty"})
		} else if len(trimmed) > 100 {
			vs = append(vs, Violation{Field: "name", Message: "must be at most 100 characters"})
		}
	}
	if r.Email != nil {
		trimmed := strings.TrimSpace(*r.Email)
		*r.Email = trimmed
		if _, err := mail.ParseAddress(trimmed); err != nil {
			vs = append(vs, Violation{Field: "email", Message: "must be a valid email address"})
		}
	}
	return vs
}

// CreateBookingRequest is the body of POST /v1/bookings. A status
// field sent by the client is ignored; bookings are always created
// PENDING.
type CreateBookingRequest struct {
	RoomID    uint64 `json:"room_id"`
	UserID    uint64 `json:"user_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	start, end time.Time
}

func (r *CreateBookingRequest) Validate() []Violation {
	var vs []Violation
	if r.RoomID == 0 {
		vs = append(vs, Violation{Field: "room_id", Message: "is required"})
	}
	if r.UserID == 0 {
		vs = append(vs, Violation{Field: "user_id", Message: "is required"})
	}
	r.start, vs = parseTimestamp("start_time", r.StartTime, vs)
	r.end, vs = parseTimestamp("end_time", r.EndTime, vs)
	if !r.start.IsZero() && !r.end.IsZero() && !r.start.Before(r.end) {
		vs = append(vs, Violation{Field: "start_time", Message: "must be before end_time"})
	}
	return vs
}

// UpdateBookingRequest is the body of PUT /v1/bookings/:id. The
// interval fields are optional but status must be sent on every
// update.
type UpdateBookingRequest struct {
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Status    string  `json:"status"`

	start, end *time.Time
}

func (r *UpdateBookingRequest) Validate() []Violation {
	var vs []Violation
	status := model.BookingStatus(strings.ToUpper(strings.TrimSpace(r.Status)))
	if r.Status == "" {
		vs = append(vs, Violation{Field: "status", Message: "is required"})
	} else if !status.Valid() {
		vs = append(vs, Violation{Field: "status", Message: "must be one of PENDING, CONFIRMED, CANCELLED"})
	} else {
		r.Status = string(status)
	}
	if r.StartTime != nil {
		var t time.Time
		t, vs = parseTimestamp("start_time", *r.StartTime, vs)
		if !t.IsZero() {
			r.start = &t
		}
	}
	if r.EndTime != nil {
		var t time.Time
		t, vs = parseTimestamp("end_time", *r.EndTime, vs)
		if !t.IsZero() {
			r.end = &t
		}
	}
	if r.start != nil && r.end != nil && !r.start.Before(*r.end) {
		vs = append(vs, Violation{Field: "start_time", Message: "must be before end_time"})
	}
	return vs
}
