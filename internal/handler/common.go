// Package handler exposes the gateway's HTTP surface: public browsing of
// the catalogue, the authenticated booking funnel, and reservation history.
// This file holds the pieces shared by every handler: upstream error
// mapping, request validation, and bearer-token extraction for routes that
// sit outside the JWT middleware.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Poojithanaramala/client/internal/booking"
	"github.com/Poojithanaramala/client/internal/store"
	"github.com/Poojithanaramala/client/internal/upstream"
)

// Validator adapts go-playground/validator to Echo's Validator interface so
// handlers can rely on c.Validate after binding request bodies.
type Validator struct {
	v *validator.Validate
}

// NewValidator constructs the Echo validator adapter.
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Validate implements echo.Validator.
func (va *Validator) Validate(i interface{}) error {
	if err := va.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// writeError maps an error from the booking core or an upstream client onto
// an HTTP response. The error's own text is the user-facing message; for
// validation and upstream failures that text is surfaced verbatim, which is
// what lets seat-conflict messages reach the user unchanged.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrSubmitInFlight):
		status = http.StatusConflict
	case errors.Is(err, store.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, upstream.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, upstream.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, upstream.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, upstream.ErrUnavailable):
		status = http.StatusBadGateway
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// bearerToken pulls a bearer token straight from the Authorization header.
// Browse routes are public but forward the caller's token when one is
// present, the same way the previous web client attached its stored token to
// every request.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
