package upstream

// reservations.go exposes the reservation collaborator: creating a new
// reservation at the end of the funnel, and listing past reservations for
// the "my bookings" view. Creation carries a client-generated idempotency
// key so a retried submit after an ambiguous failure cannot double-book.

import (
	"context"
	"net/http"

	"github.com/Poojithanaramala/client/internal/model"
)

// ReservationClient calls the upstream reservation endpoints.
type ReservationClient struct {
	api *Client
}

// NewReservationClient constructs a ReservationClient on top of the shared
// base client.
func NewReservationClient(api *Client) *ReservationClient {
	return &ReservationClient{api: api}
}

// Create submits a reservation. Seat conflicts come back as ErrValidation
// with the upstream's own message; transport failures as ErrUnavailable.
// The idempotency key, when non-empty, is sent as an Idempotency-Key header
// and must be reused verbatim when retrying the same logical submission.
func (rc *ReservationClient) Create(ctx context.Context, token, idempotencyKey string, payload model.ReservationRequest) (*model.Reservation, error) {
	var hdr http.Header
	if idempotencyKey != "" {
		hdr = http.Header{headerIdempotencyKey: []string{idempotencyKey}}
	}
	var out model.Reservation
	if err := rc.api.do(ctx, http.MethodPost, "/reservations", token, payload, hdr, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List fetches the caller's reservations. The upstream scopes the listing to
// the bearer token's user.
func (rc *ReservationClient) List(ctx context.Context, token string) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := rc.api.do(ctx, http.MethodGet, "/reservations", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Checkin marks a reservation as checked in at the venue.
func (rc *ReservationClient) Checkin(ctx context.Context, token, id string) (*model.Reservation, error) {
	var out model.Reservation
	if err := rc.api.do(ctx, http.MethodGet, "/reservations/checkin/"+id, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
