package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Poojithanaramala/client/internal/booking"
	"github.com/Poojithanaramala/client/internal/model"
	"github.com/Poojithanaramala/client/internal/store"
)

type stubMovies struct{ movie *model.Movie }

func (s *stubMovies) GetByID(ctx context.Context, token, id string) (*model.Movie, error) {
	return s.movie, nil
}

type stubCinemas struct{ cinemas []model.Cinema }

func (s *stubCinemas) GetAll(ctx context.Context, token string) ([]model.Cinema, error) {
	return s.cinemas, nil
}

type stubShowtimes struct{ showtimes []model.Showtime }

func (s *stubShowtimes) GetAll(ctx context.Context, token string) ([]model.Showtime, error) {
	return s.showtimes, nil
}

type stubCreator struct {
	created *model.Reservation
	err     error
	calls   int
	gotKey  string

	// entered/block, when set, let a test hold one creation open mid-flight.
	entered chan struct{}
	block   chan struct{}
}

func (s *stubCreator) Create(ctx context.Context, token, idempotencyKey string, payload model.ReservationRequest) (*model.Reservation, error) {
	s.calls++
	s.gotKey = idempotencyKey
	if s.entered != nil {
		close(s.entered)
		s.entered = nil
	}
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.created, nil
}

type stubIdentity struct {
	user  *model.User
	err   error
	calls int
}

func (s *stubIdentity) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

// funnelFixture holds a fully wired BookingHandler over in-process fakes. The
// catalogue has one movie showing at cinema A (200 per ticket, seat B2 taken).
type funnelFixture struct {
	e        *echo.Echo
	h        *BookingHandler
	sessions store.SessionStore
	creator  *stubCreator
	identity *stubIdentity
}

func newFunnelFixture(t *testing.T) *funnelFixture {
	t.Helper()
	cinemaA := model.Cinema{
		ID:          "cin-a",
		Name:        "Cinema A",
		TicketPrice: 200,
		Seats: [][]model.Seat{
			{
				{Row: "A", Number: 1, Status: model.SeatAvailable},
				{Row: "A", Number: 2, Status: model.SeatAvailable},
			},
			{
				{Row: "B", Number: 1, Status: model.SeatAvailable},
				{Row: "B", Number: 2, Status: model.SeatReserved},
			},
		},
	}
	creator := &stubCreator{created: &model.Reservation{ID: "res-1", Total: 400}}
	identity := &stubIdentity{user: &model.User{Username: "guest", Phone: "555-0101"}}

	wf := booking.NewWorkflow(
		&stubMovies{movie: &model.Movie{ID: "mov-1", Title: "Arrival"}},
		&stubCinemas{cinemas: []model.Cinema{cinemaA}},
		&stubShowtimes{showtimes: []model.Showtime{
			{ID: "st-1", StartAt: "18:30", StartDate: "2026-09-10", MovieID: "mov-1", CinemaID: "cin-a"},
		}},
		creator,
		nil,
		time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	sessions := store.New(nil, time.Minute)

	e := echo.New()
	e.Validator = NewValidator()
	return &funnelFixture{
		e:        e,
		h:        NewBookingHandler(wf, sessions, identity),
		sessions: sessions,
		creator:  creator,
		identity: identity,
	}
}

// call invokes a handler directly with an Echo context carrying the given
// path parameters, returning the recorded response.
func (f *funnelFixture) call(t *testing.T, h echo.HandlerFunc, method, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	require.NoError(t, h(c))
	return rec
}

// start runs the Start handler and returns the new session id.
func (f *funnelFixture) start(t *testing.T) string {
	t.Helper()
	rec := f.call(t, f.h.Start, http.MethodPost, "", map[string]string{"movieId": "mov-1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var got sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got.ID)
	require.Equal(t, booking.StateReady, got.State)
	return got.ID
}

func TestFunnelOverHTTP(t *testing.T) {
	f := newFunnelFixture(t)
	id := f.start(t)
	params := map[string]string{"id": id}

	rec := f.call(t, f.h.SelectCinema, http.MethodPut, `{"cinema_id":"cin-a"}`, params)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.call(t, f.h.SelectShowtime, http.MethodPut, `{"showtime_id":"st-1"}`, params)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.call(t, f.h.ToggleSeat, http.MethodPost, `{"row":"A","number":1}`, params)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.call(t, f.h.ToggleSeat, http.MethodPost, `{"row":"A","number":2}`, params)
	require.Equal(t, http.StatusOK, rec.Code)

	var state sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, []string{"A1", "A2"}, state.SelectedSeats)
	assert.Equal(t, 400.0, state.Total)

	rec = f.call(t, f.h.Submit, http.MethodPost, "", params)
	require.Equal(t, http.StatusCreated, rec.Code)
	var out struct {
		State       booking.State     `json:"state"`
		Reservation model.Reservation `json:"reservation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, booking.StateSucceeded, out.State)
	assert.Equal(t, "res-1", out.Reservation.ID)
	assert.Equal(t, 1, f.creator.calls)
	assert.NotEmpty(t, f.creator.gotKey)

	// A successful submission discards the session.
	_, err := f.sessions.Get(context.Background(), "guest", id)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestToggleReservedSeatIsNoOp(t *testing.T) {
	f := newFunnelFixture(t)
	id := f.start(t)
	params := map[string]string{"id": id}

	f.call(t, f.h.SelectCinema, http.MethodPut, `{"cinema_id":"cin-a"}`, params)
	f.call(t, f.h.SelectShowtime, http.MethodPut, `{"showtime_id":"st-1"}`, params)

	rec := f.call(t, f.h.ToggleSeat, http.MethodPost, `{"row":"B","number":2}`, params)
	require.Equal(t, http.StatusOK, rec.Code)
	var state sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Empty(t, state.SelectedSeats)
	assert.Zero(t, state.Total)
}

func TestSubmitIncompleteSelection(t *testing.T) {
	f := newFunnelFixture(t)
	id := f.start(t)

	rec := f.call(t, f.h.Submit, http.MethodPost, "", map[string]string{"id": id})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select cinema, showtime, and seats")

	// The precondition failure is settled locally: neither the identity nor
	// the reservation collaborator is contacted.
	assert.Zero(t, f.identity.calls)
	assert.Zero(t, f.creator.calls)
}

func TestSubmitWhileInFlight(t *testing.T) {
	f := newFunnelFixture(t)
	id := f.start(t)
	params := map[string]string{"id": id}

	f.call(t, f.h.SelectCinema, http.MethodPut, `{"cinema_id":"cin-a"}`, params)
	f.call(t, f.h.SelectShowtime, http.MethodPut, `{"showtime_id":"st-1"}`, params)
	f.call(t, f.h.ToggleSeat, http.MethodPost, `{"row":"A","number":1}`, params)

	// Simulate a submit that has persisted its in-flight flag but not
	// settled yet.
	sess, err := f.sessions.Get(context.Background(), "guest", id)
	require.NoError(t, err)
	require.NoError(t, sess.BeginSubmit(func() string { return "key-1" }))
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	rec := f.call(t, f.h.Submit, http.MethodPost, "", params)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, f.creator.calls)
}

func TestConcurrentSubmitCreatesOneReservation(t *testing.T) {
	f := newFunnelFixture(t)
	id := f.start(t)
	params := map[string]string{"id": id}

	f.call(t, f.h.SelectCinema, http.MethodPut, `{"cinema_id":"cin-a"}`, params)
	f.call(t, f.h.SelectShowtime, http.MethodPut, `{"showtime_id":"st-1"}`, params)
	f.call(t, f.h.ToggleSeat, http.MethodPost, `{"row":"A","number":1}`, params)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.creator.entered = entered
	f.creator.block = release

	// First submit, held open inside the upstream reservation creation.
	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := f.e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		_ = f.h.Submit(c)
		firstDone <- rec
	}()
	<-entered

	// A second submit for the same session while the first is in flight
	// must be refused without another reservation creation.
	rec := f.call(t, f.h.Submit, http.MethodPost, "", params)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, f.creator.calls)

	close(release)
	first := <-firstDone
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, 1, f.creator.calls)
}

func TestSubmitIdentityFailure(t *testing.T) {
	f := newFunnelFixture(t)
	f.identity.err = booking.NewValidationError("profile unavailable")
	id := f.start(t)
	params := map[string]string{"id": id}

	f.call(t, f.h.SelectCinema, http.MethodPut, `{"cinema_id":"cin-a"}`, params)
	f.call(t, f.h.SelectShowtime, http.MethodPut, `{"showtime_id":"st-1"}`, params)
	f.call(t, f.h.ToggleSeat, http.MethodPost, `{"row":"A","number":1}`, params)

	rec := f.call(t, f.h.Submit, http.MethodPost, "", params)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.creator.calls)

	// The session rolled back to seat selection and can be submitted again.
	sess, err := f.sessions.Get(context.Background(), "guest", id)
	require.NoError(t, err)
	assert.Equal(t, booking.StateShowtimeSelected, sess.State)
	assert.Len(t, sess.SelectedSeats, 1)
}

func TestSubmitUpstreamRejection(t *testing.T) {
	f := newFunnelFixture(t)
	f.creator.err = booking.NewValidationError("Seat A1 is already reserved")
	id := f.start(t)
	params := map[string]string{"id": id}

	f.call(t, f.h.SelectCinema, http.MethodPut, `{"cinema_id":"cin-a"}`, params)
	f.call(t, f.h.SelectShowtime, http.MethodPut, `{"showtime_id":"st-1"}`, params)
	f.call(t, f.h.ToggleSeat, http.MethodPost, `{"row":"A","number":1}`, params)

	rec := f.call(t, f.h.Submit, http.MethodPost, "", params)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Seat A1 is already reserved")

	// Selections survive so a retry needs no re-picking, and the retry will
	// carry the same idempotency key.
	sess, err := f.sessions.Get(context.Background(), "guest", id)
	require.NoError(t, err)
	assert.Equal(t, booking.StateShowtimeSelected, sess.State)
	assert.Equal(t, []booking.SeatKey{{Row: "A", Number: 1}}, sess.SelectedSeats)
	assert.Equal(t, f.creator.gotKey, sess.IdempotencyKey)
}

func TestGetUnknownSession(t *testing.T) {
	f := newFunnelFixture(t)
	rec := f.call(t, f.h.Get, http.MethodGet, "", map[string]string{"id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionShowtimesNarrowedToCinema(t *testing.T) {
	f := newFunnelFixture(t)
	id := f.start(t)
	params := map[string]string{"id": id}

	rec := f.call(t, f.h.SelectCinema, http.MethodPut, `{"cinema_id":"cin-a"}`, params)
	var state sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.Showtimes, 1)
	assert.Equal(t, "st-1", state.Showtimes[0].ID)
	assert.Equal(t, booking.StateCinemaSelected, state.State)
}
