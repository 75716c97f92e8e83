// Package service holds the availability and booking lifecycle
// services sitting between the HTTP handlers and the record store,
// cache and message queue.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mirai2k/booking-app/internal/model"
)

// RoomFinder is the slice of the room repository the availability
// service needs.
type RoomFinder interface {
	FindAvailable(ctx context.Context, start, end time.Time) ([]model.Room, error)
}

// AvailabilityCache is the cache-aside layer over availability
// results. Invalidate removes every entry in the namespace.
type AvailabilityCache interface {
	Get(ctx context.Context, start, end time.Time) ([]model.Room, bool, error)
	Set(ctx context.Context, start, end time.Time, rooms []model.Room) error
	Invalidate(ctx context.Context) error
}

// Availability answers room availability queries cache-aside: cache
// first, record store on miss, repopulate after the miss.
type Availability struct {
	rooms RoomFinder
	cache AvailabilityCache
}

// NewAvailability returns an Availability service over the given
// store and cache.
func NewAvailability(rooms RoomFinder, cache AvailabilityCache) *Availability {
	return &Availability{rooms: rooms, cache: cache}
}

// CheckAvailability returns the rooms free over the half-open
// interval [start, end). A cache hit is returned verbatim; entries
// are trusted until they expire or a booking mutation invalidates
// them. On a miss the record store is queried exactly once and the
// result cached with the configured TTL. Cache failures degrade to a
// direct store read and never fail the call; record store failures
// propagate.
func (s *Availability) CheckAvailability(ctx context.Context, start, end time.Time) ([]model.Room, error) {
	rooms, hit, err := s.cache.Get(ctx, start, end)
	if err != nil {
		logrus.WithError(err).Warn("availability: cache read failed, falling back to store")
	}
	if hit {
		return rooms, nil
	}

	rooms, err = s.rooms.FindAvailable(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, start, end, rooms); err != nil {
		logrus.WithError(err).Warn("availability: cache write failed")
	}
	return rooms, nil
}
