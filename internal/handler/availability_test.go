package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirai2k/booking-app/internal/model"
)

type fakeChecker struct {
	rooms      []model.Room
	err        error
	start, end time.Time
	calls      int
}

func (f *fakeChecker) CheckAvailability(ctx context.Context, start, end time.Time) ([]model.Room, error) {
	f.calls++
	f.start, f.end = start, end
	return f.rooms, f.err
}

func availabilityRequest(t *testing.T, svc *fakeChecker, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/availability"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, NewAvailabilityHandler(svc).Check(c))
	return rec
}

func TestAvailabilityCheckHappyPath(t *testing.T) {
	svc := &fakeChecker{rooms: []model.Room{{ID: 1, Name: "Aurora"}}}
	rec := availabilityRequest(t, svc, "?start_time=2024-01-01T10:00:00Z&end_time=2024-01-01T12:00:00Z")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), svc.start)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), svc.end)

	var body struct {
		Items []model.Room `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Aurora", body.Items[0].Name)
}

func TestAvailabilityCheckValidation(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
	}{
		{
			"missing both params",
			"",
			[]string{"start_time", "end_time"},
		},
		{
			"malformed timestamp",
			"?start_time=yesterday&end_time=2024-01-01T12:00:00Z",
			[]string{"start_time"},
		},
		{
			"start equals end",
			"?start_time=2024-01-01T10:00:00Z&end_time=2024-01-01T10:00:00Z",
			[]string{"start_time"},
		},
		{
			"start after end",
			"?start_time=2024-01-01T12:00:00Z&end_time=2024-01-01T10:00:00Z",
			[]string{"start_time"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeChecker{}
			rec := availabilityRequest(t, svc, tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls)

			var body struct {
				Error      string      `json:"error"`
				Violations []Violation `json:"violations"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "validation failed", body.Error)
			var got []string
			for _, v := range body.Violations {
				got = append(got, v.Field)
			}
			for _, field := range tt.fields {
				assert.Contains(t, got, field)
			}
		})
	}
}

func TestAvailabilityCheckServiceError(t *testing.T) {
	svc := &fakeChecker{err: errors.New("db gone")}
	rec := availabilityRequest(t, svc, "?start_time=2024-01-01T10:00:00Z&end_time=2024-01-01T12:00:00Z")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
