package service

import (
	"context"
	"time"

	"github.com/mirai2k/booking-app/internal/model"
	"github.com/mirai2k/booking-app/internal/repository"
)

// BookingStore is the slice of the booking repository the lifecycle
// service needs.
type BookingStore interface {
	Create(ctx context.Context, roomID, userID uint64, start, end time.Time, status model.BookingStatus) (*model.Booking, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetWithRoomAndUser(ctx context.Context, id uint64) (*model.BookingDetail, error)
	Update(ctx context.Context, id uint64, start, end *time.Time, status model.BookingStatus) (*model.Booking, error)
	Delete(ctx context.Context, id uint64) error
}

// ConfirmationEnqueuer enqueues a confirmation notification for the
// given user and room.
type ConfirmationEnqueuer interface {
	EnqueueConfirmation(ctx context.Context, user model.User, room model.Room) error
}

// BookingUpdate carries the updatable booking fields. StartTime and
// EndTime are optional; Status is required on every update.
type BookingUpdate struct {
	StartTime *time.Time
	EndTime   *time.Time
	Status    model.BookingStatus
}

// Booking implements the booking lifecycle: create, update, delete.
// Every mutation invalidates the whole availability cache namespace,
// and an update that lands on CONFIRMED enqueues a notification
// before anything is persisted.
type Booking struct {
	store    BookingStore
	cache    AvailabilityCache
	producer ConfirmationEnqueuer
}

// NewBooking returns a Booking service over the given store, cache
// and producer.
func NewBooking(store BookingStore, cache AvailabilityCache, producer ConfirmationEnqueuer) *Booking {
	return &Booking{store: store, cache: cache, producer: producer}
}

// Create inserts a booking for the room, user and interval. The
// status is always PENDING at creation, whatever the caller sent.
// The cache namespace is invalidated before the insert: a concurrent
// availability read that misses during the window repopulates from
// pre-insert state and is corrected by the entry's TTL.
func (s *Booking) Create(ctx context.Context, roomID, userID uint64, start, end time.Time) (*model.Booking, error) {
	if err := s.cache.Invalidate(ctx); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, roomID, userID, start, end, model.StatusPending)
}

// Update applies upd to the booking. When the resulting status is
// CONFIRMED the booking is loaded with its room and user and a
// confirmation is enqueued first; an enqueue failure aborts the whole
// update, so the status change is never persisted without its
// notification on the queue. The trigger keys off the resulting
// status, not a transition, so re-confirming an already confirmed
// booking re-sends the notification. Cache invalidation happens
// before the write is persisted.
func (s *Booking) Update(ctx context.Context, id uint64, upd BookingUpdate) (*model.Booking, error) {
	if upd.Status == model.StatusConfirmed {
		detail, err := s.store.GetWithRoomAndUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.producer.EnqueueConfirmation(ctx, detail.User, detail.Room); err != nil {
			return nil, err
		}
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, upd.StartTime, upd.EndTime, upd.Status)
}

// Delete removes the booking and returns its prior state. The cache
// namespace is invalidated after the delete.
func (s *Booking) Delete(ctx context.Context, id uint64) (*model.Booking, error) {
	prior, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return nil, repository.ErrNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		return nil, err
	}
	return prior, nil
}
