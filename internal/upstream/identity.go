package upstream

// identity.go exposes the identity collaborator. The gateway performs no
// authentication of its own; it forwards the caller's bearer token and asks
// the upstream who that token belongs to. Username and phone from the
// returned profile are the contact fields stamped onto reservations.

import (
	"context"
	"net/http"

	"github.com/Poojithanaramala/client/internal/model"
)

// IdentityClient resolves the current authenticated user.
type IdentityClient struct {
	api *Client
}

// NewIdentityClient constructs an IdentityClient on top of the shared base client.
func NewIdentityClient(api *Client) *IdentityClient {
	return &IdentityClient{api: api}
}

// CurrentUser returns the profile the upstream associates with token.
func (ic *IdentityClient) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	var out model.User
	if err := ic.api.do(ctx, http.MethodGet, "/users/me", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
