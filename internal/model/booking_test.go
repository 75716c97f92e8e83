package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingOverlaps(t *testing.T) {
	day := func(hour int) time.Time {
		return time.Date(2024, 1, 2, hour, 0, 0, 0, time.UTC)
	}
	b := Booking{StartTime: day(10), EndTime: day(12)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"fully inside", day(10), day(11), true},
		{"covers booking", day(9), day(13), true},
		{"partial tail", day(11), day(13), true},
		{"partial head", day(9), day(11), true},
		{"identical interval", day(10), day(12), true},
		{"starts at booking end", day(12), day(13), false},
		{"ends at booking start", day(8), day(10), false},
		{"strictly before", day(7), day(9), false},
		{"strictly after", day(13), day(14), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Overlaps(tt.start, tt.end))
		})
	}
}

func TestBookingStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusCancelled.Valid())

	assert.False(t, BookingStatus("").Valid())
	assert.False(t, BookingStatus("confirmed").Valid())
	assert.False(t, BookingStatus("DONE").Valid())
}
