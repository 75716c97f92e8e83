package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// parseID extracts the numeric :id path parameter. The second return
// value is false when the parameter is missing or not a positive
// integer.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func validationFailed(c echo.Context, vs []Violation) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":      "validation failed",
		"violations": vs,
	})
}

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
