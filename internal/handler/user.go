package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mirai2k/booking-app/internal/model"
	"github.com/mirai2k/booking-app/internal/repository"
)

// UserStore is the slice of the user repository the handlers need.
type UserStore interface {
	Create(ctx context.Context, name, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	Update(ctx context.Context, id uint64, name, email *string) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// UserHandler serves CRUD endpoints for users.
type UserHandler struct {
	Users UserStore
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if vs := req.Validate(); len(vs) > 0 {
		return validationFailed(c, vs)
	}
	user, err := h.Users.Create(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}
	return c.JSON(http.StatusCreated, user)
}

// List handles GET /v1/users.
func (h *UserHandler) List(c echo.Context) error {
	items, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid user id")
	}
	user, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch user"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /v1/users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid user id")
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if vs := req.Validate(); len(vs) > 0 {
		return validationFailed(c, vs)
	}
	user, err := h.Users.Update(c.Request().Context(), id, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update user"})
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id. The deleted user's prior
// state is returned.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid user id")
	}
	user, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch user"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete user"})
	}
	return c.JSON(http.StatusOK, user)
}
