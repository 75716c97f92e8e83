package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mirai2k/booking-app/internal/model"
)

// AvailabilityChecker is implemented by the availability service.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, start, end time.Time) ([]model.Room, error)
}

// AvailabilityHandler serves the room availability query.
type AvailabilityHandler struct {
	Svc AvailabilityChecker
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc AvailabilityChecker) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

// Check handles GET /v1/rooms/availability. It expects start_time and
// end_time query parameters as RFC3339 timestamps with start before
// end, and returns the rooms free over that half-open interval.
func (h *AvailabilityHandler) Check(c echo.Context) error {
	var vs []Violation
	var start, end time.Time
	start, vs = parseTimestamp("start_time", c.QueryParam("start_time"), vs)
	end, vs = parseTimestamp("end_time", c.QueryParam("end_time"), vs)
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		vs = append(vs, Violation{Field: "start_time", Message: "must be before end_time"})
	}
	if len(vs) > 0 {
		return validationFailed(c, vs)
	}

	rooms, err := h.Svc.CheckAvailability(c.Request().Context(), start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not check availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}
