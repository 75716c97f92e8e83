package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking records a user's reservation of a room over a half-open
// time interval [StartTime, EndTime). Bookings are created in
// PENDING state and move to CONFIRMED or CANCELLED through updates.
// Overlapping bookings on the same room may coexist as rows; any
// non-CANCELLED booking counts as an occupancy marker for
// availability queries.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room being reserved.
//  UserID    – user who made the booking.
//  StartTime – inclusive start of the interval (UTC).
//  EndTime   – exclusive end of the interval (UTC).
//  Status    – state of the booking (PENDING, CONFIRMED, CANCELLED).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64        `json:"id"`         // bookings.id
	RoomID    uint64        `json:"room_id"`    // bookings.room_id
	UserID    uint64        `json:"user_id"`    // bookings.user_id
	StartTime time.Time     `json:"start_time"` // bookings.start_time
	EndTime   time.Time     `json:"end_time"`   // bookings.end_time
	Status    BookingStatus `json:"status"`     // bookings.status
	CreatedAt time.Time     `json:"created_at"` // bookings.created_at
	UpdatedAt time.Time     `json:"updated_at"` // bookings.updated_at
}

// Overlaps reports whether the booking's interval intersects the
// half-open query interval [start, end). Two half-open intervals
// [a1,a2) and [b1,b2) overlap iff a1 < b2 and b1 < a2; an interval
// that starts exactly where another ends is not an overlap. This is
// the same predicate the availability query applies in SQL.
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// BookingDetail is a booking joined with its room and user. It is
// loaded before a confirmation notification is enqueued, since the
// message body references both the recipient and the room.
type BookingDetail struct {
	Booking
	Room Room `json:"room"`
	User User `json:"user"`
}
