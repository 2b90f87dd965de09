package handler

// reservation.go serves the caller's booking history ("my bookings") and the
// venue check-in shortcut. Both defer to the upstream reservation API; the
// gateway's only added behavior is newest-first ordering of the listing.

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Poojithanaramala/client/internal/middleware"
	"github.com/Poojithanaramala/client/internal/model"
)

// ReservationBrowser reads the caller's reservations; satisfied by
// upstream.ReservationClient.
type ReservationBrowser interface {
	List(ctx context.Context, token string) ([]model.Reservation, error)
	Checkin(ctx context.Context, token, id string) (*model.Reservation, error)
}

// ReservationHandler exposes reservation history endpoints. All routes sit
// behind JWTAuth; the upstream scopes results to the bearer token's user.
type ReservationHandler struct {
	Reservations ReservationBrowser
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(rc ReservationBrowser) *ReservationHandler {
	if rc == nil {
		panic("nil client passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: rc}
}

// List handles GET /v1/reservations, newest reservation first.
func (h *ReservationHandler) List(c echo.Context) error {
	items, err := h.Reservations.List(c.Request().Context(), middleware.Token(c))
	if err != nil {
		return writeError(c, err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return reservationDate(items[j]).Before(reservationDate(items[i]))
	})
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Checkin handles POST /v1/reservations/:id/checkin.
func (h *ReservationHandler) Checkin(c echo.Context) error {
	res, err := h.Reservations.Checkin(c.Request().Context(), middleware.Token(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// reservationDate parses the reservation's date for ordering. Unparsable
// dates sort last rather than failing the listing.
func reservationDate(r model.Reservation) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
