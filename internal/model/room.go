package model

import "time"

// Room represents a bookable room as stored in the `rooms` table.
// The identity is immutable; name, capacity and description may be
// changed through updates.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable room name.
//  Capacity    – how many people the room holds (always positive).
//  Description – free text description of the room.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Room struct {
	ID          uint64    `json:"id"`          // rooms.id
	Name        string    `json:"name"`        // rooms.name
	Capacity    uint32    `json:"capacity"`    // rooms.capacity
	Description string    `json:"description"` // rooms.description
	CreatedAt   time.Time `json:"created_at"`  // rooms.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // rooms.updated_at
}
