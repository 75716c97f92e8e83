package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mirai2k/booking-app/internal/model"
	"github.com/mirai2k/booking-app/internal/repository"
)

// RoomStore is the slice of the room repository the handlers need.
type RoomStore interface {
	Create(ctx context.Context, name string, capacity uint32, description string) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	Update(ctx context.Context, id uint64, name *string, capacity *uint32, description *string) (*model.Room, error)
	Delete(ctx context.Context, id uint64) error
}

// RoomHandler serves CRUD endpoints for rooms.
type RoomHandler struct {
	Rooms RoomStore
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms RoomStore) *RoomHandler {
	return &RoomHandler{Rooms: rooms}
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var req CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if vs := req.Validate(); len(vs) > 0 {
		return validationFailed(c, vs)
	}
	room, err := h.Rooms.Create(c.Request().Context(), req.Name, uint32(req.Capacity), req.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
	}
	return c.JSON(http.StatusCreated, room)
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	items, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid room id")
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch room"})
	}
	if room == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	return c.JSON(http.StatusOK, room)
}

// Update handles PUT /v1/rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid room id")
	}
	var req UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if vs := req.Validate(); len(vs) > 0 {
		return validationFailed(c, vs)
	}
	var capacity *uint32
	if req.Capacity != nil {
		v := uint32(*req.Capacity)
		capacity = &v
	}
	room, err := h.Rooms.Update(c.Request().Context(), id, req.Name, capacity, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update room"})
	}
	return c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /v1/rooms/:id. The deleted room's prior
// state is returned.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid room id")
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch room"})
	}
	if room == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete room"})
	}
	return c.JSON(http.StatusOK, room)
}
