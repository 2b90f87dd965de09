// Package upstream contains thin clients for the remote reservation API.
// This file defines the error taxonomy shared by every client. Sentinel
// values classify a failure (not found, validation, unavailable) while the
// error text carries the human-readable message to surface to users, so
// handlers can do errors.Is for status mapping and err.Error() for display.
package upstream

import "errors"

// ErrNotFound classifies a lookup whose target does not exist upstream,
// e.g. fetching a movie by an unknown id.
var ErrNotFound = errors.New("not found")

// ErrValidation classifies a request the upstream rejected as invalid, such
// as a reservation naming a seat that was taken in the meantime. The wrapped
// message is the upstream's own wording and must be surfaced verbatim.
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized classifies a request rejected for a missing, expired or
// otherwise invalid bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnavailable classifies transport failures and upstream 5xx responses.
// Callers treat these as terminal for the attempt; no automatic retry is
// performed anywhere in the gateway.
var ErrUnavailable = errors.New("upstream unavailable")

// apiError attaches a display message to one of the sentinel kinds above.
type apiError struct {
	kind    error
	message string
}

func (e *apiError) Error() string { return e.message }

// Unwrap lets errors.Is match the sentinel classification.
func (e *apiError) Unwrap() error { return e.kind }

// wrapError builds a classified error carrying msg as its display text.
func wrapError(kind error, msg string) error {
	if msg == "" {
		msg = kind.Error()
	}
	return &apiError{kind: kind, message: msg}
}
