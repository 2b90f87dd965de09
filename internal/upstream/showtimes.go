package upstream

// showtimes.go exposes the showtime collaborator. The upstream only ever
// returns the complete collection; narrowing to one movie or cinema happens
// in the booking core.

import (
	"context"
	"net/http"

	"github.com/Poojithanaramala/client/internal/model"
)

// ShowtimeClient calls the upstream showtime endpoints.
type ShowtimeClient struct {
	api *Client
}

// NewShowtimeClient constructs a ShowtimeClient on top of the shared base client.
func NewShowtimeClient(api *Client) *ShowtimeClient {
	return &ShowtimeClient{api: api}
}

// GetAll fetches every showtime across all movies and cinemas.
func (sc *ShowtimeClient) GetAll(ctx context.Context, token string) ([]model.Showtime, error) {
	var out []model.Showtime
	if err := sc.api.do(ctx, http.MethodGet, "/showtimes", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
