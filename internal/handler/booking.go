package handler

// booking.go drives the reservation funnel over HTTP. Each handler loads the
// caller's session from the store, applies exactly one funnel operation, and
// persists the result, so the stored session is always the single source of
// truth for where a booking stands. Sessions are keyed by the authenticated
// username; a caller can never touch another user's funnel.

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Poojithanaramala/client/internal/booking"
	"github.com/Poojithanaramala/client/internal/middleware"
	"github.com/Poojithanaramala/client/internal/model"
	"github.com/Poojithanaramala/client/internal/store"
)

// UserLookup resolves the caller's profile from their bearer token. It is
// the identity collaborator of the funnel; satisfied by
// upstream.IdentityClient.
type UserLookup interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// BookingHandler wires the funnel workflow, the session store and the
// identity collaborator into HTTP endpoints.
type BookingHandler struct {
	Workflow *booking.Workflow
	Sessions store.SessionStore
	Identity UserLookup
}

// NewBookingHandler constructs a BookingHandler. All dependencies must be
// non-nil.
func NewBookingHandler(wf *booking.Workflow, sessions store.SessionStore, identity UserLookup) *BookingHandler {
	if wf == nil || sessions == nil || identity == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Workflow: wf, Sessions: sessions, Identity: identity}
}

// sessionResponse is the funnel state as rendered to clients. Showtimes are
// narrowed to the selected cinema once one is picked, mirroring how the
// selection surface only ever offers showtimes of the active cinema.
type sessionResponse struct {
	ID            string           `json:"id"`
	State         booking.State    `json:"state"`
	Movie         *model.Movie     `json:"movie"`
	Cinemas       []model.Cinema   `json:"cinemas"`
	Showtimes     []model.Showtime `json:"showtimes"`
	CinemaID      string           `json:"cinema_id,omitempty"`
	ShowtimeID    string           `json:"showtime_id,omitempty"`
	SelectedSeats []string         `json:"selected_seats"`
	Total         float64          `json:"total"`
}

func renderSession(sess *booking.Session) sessionResponse {
	showtimes := sess.Showtimes
	if sess.CinemaID != "" {
		showtimes = sess.CinemaShowtimes()
	}
	return sessionResponse{
		ID:            sess.ID,
		State:         sess.State,
		Movie:         sess.Movie,
		Cinemas:       sess.Cinemas,
		Showtimes:     showtimes,
		CinemaID:      sess.CinemaID,
		ShowtimeID:    sess.ShowtimeID,
		SelectedSeats: booking.Labels(sess.SelectedSeats),
		Total:         sess.Total(),
	}
}

// Start handles POST /v1/booking/movies/:movieId. It loads the movie, the
// cinema collection and the showtime collection as one atomic unit and
// answers with a fresh session holding the eligible cinemas and showtimes.
// A failed load creates nothing.
func (h *BookingHandler) Start(c echo.Context) error {
	movieID := c.Param("movieId")
	if movieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	sess, err := h.Workflow.Start(ctx, middleware.Token(c), middleware.Username(c), movieID)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Sessions.Save(ctx, sess); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist session"})
	}
	return c.JSON(http.StatusCreated, renderSession(sess))
}

// Get handles GET /v1/booking/sessions/:id and returns the current funnel
// state.
func (h *BookingHandler) Get(c echo.Context) error {
	sess, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, renderSession(sess))
}

// SelectCinema handles PUT /v1/booking/sessions/:id/cinema. Picking a cinema
// always resets the showtime and the seat selection.
func (h *BookingHandler) SelectCinema(c echo.Context) error {
	var body struct {
		CinemaID string `json:"cinema_id" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	return h.mutate(c, func(sess *booking.Session) error {
		return sess.SelectCinema(body.CinemaID)
	})
}

// SelectShowtime handles PUT /v1/booking/sessions/:id/showtime. The showtime
// must belong to the selected cinema; picking it resets the seat selection.
func (h *BookingHandler) SelectShowtime(c echo.Context) error {
	var body struct {
		ShowtimeID string `json:"showtime_id" validate:"required"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	return h.mutate(c, func(sess *booking.Session) error {
		return sess.SelectShowtime(body.ShowtimeID)
	})
}

// ToggleSeat handles POST /v1/booking/sessions/:id/seats. Toggling a
// reserved seat is a silent no-op; toggling a selected seat removes it.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
	var body struct {
		Row    string `json:"row" validate:"required"`
		Number uint32 `json:"number" validate:"required,min=1"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	return h.mutate(c, func(sess *booking.Session) error {
		return sess.ToggleSeat(booking.SeatKey{Row: body.Row, Number: body.Number})
	})
}

// submitLockTTL bounds the per-session submit claim. It must comfortably
// exceed one upstream round-trip so a live submission is never preempted,
// while still freeing the session promptly after a crash.
const submitLockTTL = 30 * time.Second

// Submit handles POST /v1/booking/sessions/:id/submit. The flow is: claim
// the session's submit slot, validate preconditions and flag the session as
// submitting (no network involved, so an incomplete selection is rejected
// before anything is contacted), persist the flag, resolve the caller's
// identity, then create the reservation upstream. Success discards the
// session; failure persists it with the selection intact so the caller can
// retry.
func (h *BookingHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	token := middleware.Token(c)
	username := middleware.Username(c)
	id := c.Param("id")

	// The claim is taken atomically in the store before the session is even
	// loaded. That is what makes the double-submit guard hold for two
	// concurrent requests (and across replicas): judging by the loaded
	// session's state alone would be a read-modify-write race where both
	// copies look submittable.
	claimed, err := h.Sessions.LockSubmit(ctx, username, id, submitLockTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to claim submission"})
	}
	if !claimed {
		return writeError(c, booking.ErrSubmitInFlight)
	}
	// Release once the attempt settles either way; the request context may
	// already be cancelled when the client gave up.
	defer func() {
		_ = h.Sessions.UnlockSubmit(context.WithoutCancel(ctx), username, id)
	}()

	sess, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := sess.BeginSubmit(h.Workflow.MintIdempotencyKey); err != nil {
		return writeError(c, err)
	}
	if err := h.Sessions.Save(ctx, sess); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist session"})
	}

	user, err := h.Identity.CurrentUser(ctx, token)
	if err != nil {
		sess.AbortSubmit()
		_ = h.Sessions.Save(ctx, sess)
		return writeError(c, err)
	}

	created, err := h.Workflow.Submit(ctx, token, sess, *user)
	if err != nil {
		// Selections survive a failed submit; only the state flag moved back.
		_ = h.Sessions.Save(ctx, sess)
		return writeError(c, err)
	}

	_ = h.Sessions.Delete(ctx, sess.Username, sess.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"state":       booking.StateSucceeded,
		"reservation": created,
	})
}

// load fetches the caller's session named by the :id path parameter.
func (h *BookingHandler) load(c echo.Context) (*booking.Session, error) {
	return h.Sessions.Get(c.Request().Context(), middleware.Username(c), c.Param("id"))
}

// mutate applies one funnel operation to the stored session and persists the
// outcome, answering with the refreshed funnel state.
func (h *BookingHandler) mutate(c echo.Context, op func(*booking.Session) error) error {
	sess, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := op(sess); err != nil {
		return writeError(c, err)
	}
	if err := h.Sessions.Save(c.Request().Context(), sess); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist session"})
	}
	return c.JSON(http.StatusOK, renderSession(sess))
}
