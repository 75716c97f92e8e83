package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mirai2k/booking-app/internal/model"
	"github.com/mirai2k/booking-app/internal/repository"
	"github.com/mirai2k/booking-app/internal/service"
)

// BookingReader is the read-only slice of the booking repository the
// handlers use for listing and lookups.
type BookingReader interface {
	List(ctx context.Context) ([]model.Booking, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
}

// BookingLifecycle is implemented by the booking service. All
// mutations go through it so cache invalidation and confirmation
// notifications are never skipped.
type BookingLifecycle interface {
	Create(ctx context.Context, roomID, userID uint64, start, end time.Time) (*model.Booking, error)
	Update(ctx context.Context, id uint64, upd service.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id uint64) (*model.Booking, error)
}

// BookingHandler serves the booking endpoints.
type BookingHandler struct {
	Bookings  BookingReader
	Lifecycle BookingLifecycle
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings BookingReader, lifecycle BookingLifecycle) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Lifecycle: lifecycle}
}

// Create handles POST /v1/bookings. The booking is always created in
// PENDING state.
func (h *BookingHandler) Create(c echo.Context) error {
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if vs := req.Validate(); len(vs) > 0 {
		return validationFailed(c, vs)
	}
	booking, err := h.Lifecycle.Create(c.Request().Context(), req.RoomID, req.UserID, req.start, req.end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}
	return c.JSON(http.StatusCreated, booking)
}

// List handles GET /v1/bookings.
func (h *BookingHandler) List(c echo.Context) error {
	items, err := h.Bookings.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	booking, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch booking"})
	}
	if booking == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, booking)
}

// Update handles PUT /v1/bookings/:id. Status is required; moving a
// booking to CONFIRMED enqueues the confirmation notification before
// the update is persisted.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	var req UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if vs := req.Validate(); len(vs) > 0 {
		return validationFailed(c, vs)
	}
	booking, err := h.Lifecycle.Update(c.Request().Context(), id, service.BookingUpdate{
		StartTime: req.start,
		EndTime:   req.end,
		Status:    model.BookingStatus(req.Status),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update booking"})
	}
	return c.JSON(http.StatusOK, booking)
}

// Delete handles DELETE /v1/bookings/:id. The deleted booking's prior
// state is returned.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	booking, err := h.Lifecycle.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete booking"})
	}
	return c.JSON(http.StatusOK, booking)
}
