package upstream

// client.go implements the shared HTTP plumbing used by every collaborator
// client: request construction with bearer-token propagation, JSON
// encoding/decoding, and translation of failures into the package's error
// taxonomy. The error-message extraction deliberately mirrors what the
// service's previous web client did: prefer error.message, then a plain
// error string, then a generic fallback, and report transport problems as a
// network error the user can act on.

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// netErrorMessage is shown whenever the upstream cannot be reached at all.
const netErrorMessage = "Network error. Please check your connection."

// genericErrorMessage is shown when the upstream reports a failure without a
// usable message field.
const genericErrorMessage = "Something went wrong"

// headerIdempotencyKey names the header carrying the client-generated
// de-duplication key on reservation creation. The upstream is expected to
// honor it; sending it is harmless if it does not.
const headerIdempotencyKey = "Idempotency-Key"

// Client is the base REST client all collaborator clients embed. It holds
// the upstream base URL and a shared http.Client with a bounded timeout.
type Client struct {
	base string
	hc   *http.Client
}

// NewClient constructs a base client for the given upstream URL. A zero
// timeout disables the client-level bound; callers are still expected to
// pass deadline-carrying contexts on every request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: baseURL,
		hc:   &http.Client{Timeout: timeout},
	}
}

// do issues a single JSON request against the upstream. A non-empty token is
// forwarded as a bearer Authorization header. extra headers, when given, are
// set verbatim. The response body is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, body any, extra http.Header, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return wrapError(ErrValidation, genericErrorMessage)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return wrapError(ErrUnavailable, netErrorMessage)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vals := range extra {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		// Timeouts, refused connections, DNS failures: the request never
		// produced an upstream verdict.
		return wrapError(ErrUnavailable, netErrorMessage)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return wrapError(ErrUnavailable, netErrorMessage)
	}

	if res.StatusCode >= 400 {
		return classifyStatus(res.StatusCode, raw)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return wrapError(ErrUnavailable, genericErrorMessage)
		}
	}
	return nil
}

// classifyStatus maps an upstream error response onto the taxonomy, pulling
// out whatever human-readable message the body offers.
func classifyStatus(status int, body []byte) error {
	msg := extractMessage(body)
	switch {
	case status == http.StatusNotFound:
		return wrapError(ErrNotFound, msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return wrapError(ErrUnauthorized, msg)
	case status >= 400 && status < 500:
		return wrapError(ErrValidation, msg)
	default:
		return wrapError(ErrUnavailable, msg)
	}
}

// extractMessage digs the display message out of an upstream error body.
// Known shapes, tried in order: {"error":{"message":"..."}} then
// {"error":"..."} then {"message":"..."}.
func extractMessage(body []byte) string {
	var probe struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &probe); err == nil {
		if len(probe.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(probe.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
			var plain string
			if err := json.Unmarshal(probe.Error, &plain); err == nil && plain != "" {
				return plain
			}
		}
		if probe.Message != "" {
			return probe.Message
		}
	}
	return genericErrorMessage
}
