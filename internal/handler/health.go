package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the gateway is running. It deliberately
// does not probe the upstream: the gateway is healthy even when the
// reservation API is not, and surfaces upstream trouble per-request instead.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
