package upstream

// movies.go exposes the movie catalogue collaborator. Movies are read-only
// from the gateway's perspective; only listing and lookup are needed.

import (
	"context"
	"errors"
	"net/http"

	"github.com/Poojithanaramala/client/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup misses. It unwraps to
// ErrNotFound so generic status mapping keeps working.
var ErrMovieNotFound = wrapError(ErrNotFound, "movie not found")

// MovieClient calls the upstream movie endpoints.
type MovieClient struct {
	api *Client
}

// NewMovieClient constructs a MovieClient on top of the shared base client.
func NewMovieClient(api *Client) *MovieClient {
	return &MovieClient{api: api}
}

// GetAll fetches the full movie catalogue.
func (m *MovieClient) GetAll(ctx context.Context, token string) ([]model.Movie, error) {
	var out []model.Movie
	if err := m.api.do(ctx, http.MethodGet, "/movies", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one movie. A miss is reported as ErrMovieNotFound.
func (m *MovieClient) GetByID(ctx context.Context, token, id string) (*model.Movie, error) {
	var out model.Movie
	if err := m.api.do(ctx, http.MethodGet, "/movies/"+id, token, nil, nil, &out); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	// Some upstream deployments answer a missing id with 200 and an empty
	// body instead of 404; treat a zero-valued document as a miss too.
	if out.ID == "" {
		return nil, ErrMovieNotFound
	}
	return &out, nil
}
