package upstream

// cinemas.go exposes the cinema collaborator. The listing carries each
// venue's seat layout, which is what the booking funnel renders and toggles
// against.

import (
	"context"
	"net/http"

	"github.com/Poojithanaramala/client/internal/model"
)

// CinemaClient calls the upstream cinema endpoints.
type CinemaClient struct {
	api *Client
}

// NewCinemaClient constructs a CinemaClient on top of the shared base client.
func NewCinemaClient(api *Client) *CinemaClient {
	return &CinemaClient{api: api}
}

// GetAll fetches every cinema, seat layouts included. The upstream offers no
// filter by movie; deriving the eligible subset is the booking core's job.
func (cc *CinemaClient) GetAll(ctx context.Context, token string) ([]model.Cinema, error) {
	var out []model.Cinema
	if err := cc.api.do(ctx, http.MethodGet, "/cinemas", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single cinema.
func (cc *CinemaClient) GetByID(ctx context.Context, token, id string) (*model.Cinema, error) {
	var out model.Cinema
	if err := cc.api.do(ctx, http.MethodGet, "/cinemas/"+id, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
