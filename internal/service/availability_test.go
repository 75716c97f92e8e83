package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirai2k/booking-app/internal/model"
)

type fakeRoomFinder struct {
	rooms []model.Room
	err   error
	calls int
}

func (f *fakeRoomFinder) FindAvailable(ctx context.Context, start, end time.Time) ([]model.Room, error) {
	f.calls++
	return f.rooms, f.err
}

// fakeCache keeps one entry per key and counts interactions.
type fakeCache struct {
	entries map[string][]model.Room

	getErr error
	setErr error
	invErr error

	gets, sets, invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]model.Room{}}
}

func cacheKey(start, end time.Time) string {
	return start.UTC().String() + "-" + end.UTC().String()
}

func (f *fakeCache) Get(ctx context.Context, start, end time.Time) ([]model.Room, bool, error) {
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	rooms, ok := f.entries[cacheKey(start, end)]
	return rooms, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, start, end time.Time, rooms []model.Room) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[cacheKey(start, end)] = rooms
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.invalidations++
	if f.invErr != nil {
		return f.invErr
	}
	f.entries = map[string][]model.Room{}
	return nil
}

func interval() (time.Time, time.Time) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return start, start.Add(2 * time.Hour)
}

func TestCheckAvailabilityQueriesStoreOnceAcrossRepeats(t *testing.T) {
	start, end := interval()
	finder := &fakeRoomFinder{rooms: []model.Room{{ID: 1, Name: "Aurora"}}}
	cache := newFakeCache()
	svc := NewAvailability(finder, cache)

	first, err := svc.CheckAvailability(context.Background(), start, end)
	require.NoError(t, err)
	second, err := svc.CheckAvailability(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, finder.calls, "second call must be served from cache")
	assert.Equal(t, 1, cache.sets)
}

func TestCheckAvailabilityCacheHitReturnedVerbatim(t *testing.T) {
	start, end := interval()
	cached := []model.Room{{ID: 7, Name: "Stale"}}
	finder := &fakeRoomFinder{rooms: []model.Room{{ID: 1, Name: "Fresh"}}}
	cache := newFakeCache()
	cache.entries[cacheKey(start, end)] = cached
	svc := NewAvailability(finder, cache)

	rooms, err := svc.CheckAvailability(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, cached, rooms)
	assert.Zero(t, finder.calls)
}

func TestCheckAvailabilityDegradesOnCacheReadError(t *testing.T) {
	start, end := interval()
	finder := &fakeRoomFinder{rooms: []model.Room{{ID: 1}}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	svc := NewAvailability(finder, cache)

	rooms, err := svc.CheckAvailability(context.Background(), start, end)
	require.NoError(t, err)

	assert.Len(t, rooms, 1)
	assert.Equal(t, 1, finder.calls)
}

func TestCheckAvailabilityIgnoresCacheWriteError(t *testing.T) {
	start, end := interval()
	finder := &fakeRoomFinder{rooms: []model.Room{{ID: 1}}}
	cache := newFakeCache()
	cache.setErr = errors.New("redis down")
	svc := NewAvailability(finder, cache)

	rooms, err := svc.CheckAvailability(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestCheckAvailabilityPropagatesStoreError(t *testing.T) {
	start, end := interval()
	storeErr := errors.New("db gone")
	finder := &fakeRoomFinder{err: storeErr}
	svc := NewAvailability(finder, newFakeCache())

	_, err := svc.CheckAvailability(context.Background(), start, end)
	assert.ErrorIs(t, err, storeErr)
}
