// Package router wires the HTTP routes onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mirai2k/booking-app/internal/handler"
)

// Register registers all application routes. The availability route
// is declared before the parameterized room routes so
// /v1/rooms/availability is not swallowed by /v1/rooms/:id.
func Register(e *echo.Echo, rooms *handler.RoomHandler, users *handler.UserHandler, bookings *handler.BookingHandler, availability *handler.AvailabilityHandler) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	v1.GET("/rooms/availability", availability.Check)

	v1.POST("/rooms", rooms.Create)
	v1.GET("/rooms", rooms.List)
	v1.GET("/rooms/:id", rooms.Get)
	v1.PUT("/rooms/:id", rooms.Update)
	v1.DELETE("/rooms/:id", rooms.Delete)

	v1.POST("/users", users.Create)
	v1.GET("/users", users.List)
	v1.GET("/users/:id", users.Get)
	v1.PUT("/users/:id", users.Update)
	v1.DELETE("/users/:id", users.Delete)

	v1.POST("/bookings", bookings.Create)
	v1.GET("/bookings", bookings.List)
	v1.GET("/bookings/:id", bookings.Get)
	v1.PUT("/bookings/:id", bookings.Update)
	v1.DELETE("/bookings/:id", bookings.Delete)
}
