package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Poojithanaramala/client/internal/model"
	"github.com/Poojithanaramala/client/internal/queue"
)

type fakeMovies struct {
	movie *model.Movie
	err   error
}

func (f *fakeMovies) GetByID(ctx context.Context, token, id string) (*model.Movie, error) {
	return f.movie, f.err
}

type fakeCinemas struct {
	cinemas []model.Cinema
	err     error
}

func (f *fakeCinemas) GetAll(ctx context.Context, token string) ([]model.Cinema, error) {
	return f.cinemas, f.err
}

type fakeShowtimes struct {
	showtimes []model.Showtime
	err       error
}

func (f *fakeShowtimes) GetAll(ctx context.Context, token string) ([]model.Showtime, error) {
	return f.showtimes, f.err
}

type fakeReservations struct {
	created *model.Reservation
	err     error

	calls    int
	gotToken string
	gotKey   string
	gotBody  model.ReservationRequest
}

func (f *fakeReservations) Create(ctx context.Context, token, idempotencyKey string, payload model.ReservationRequest) (*model.Reservation, error) {
	f.calls++
	f.gotToken = token
	f.gotKey = idempotencyKey
	f.gotBody = payload
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

type fakeEvents struct {
	err    error
	events []queue.ReservationConfirmedEvent
}

func (f *fakeEvents) PublishReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// workflowFixture wires a Workflow whose upstream answers match testSession:
// movie mov-1 shows at cinemas A and B; cinema C screens another movie only.
func workflowFixture(res *fakeReservations, ev EventPublisher) *Workflow {
	base := testSession()
	cinemas := append([]model.Cinema{}, base.Cinemas...)
	cinemas = append(cinemas, model.Cinema{ID: "cin-c", Name: "Cinema C", TicketPrice: 175})
	showtimes := append([]model.Showtime{}, base.Showtimes...)
	showtimes = append(showtimes, model.Showtime{ID: "st-other", MovieID: "mov-2", CinemaID: "cin-c"})

	return NewWorkflow(
		&fakeMovies{movie: base.Movie},
		&fakeCinemas{cinemas: cinemas},
		&fakeShowtimes{showtimes: showtimes},
		res,
		ev,
		time.Second,
		quietLogger(),
	)
}

func TestStartDerivesEligibleContext(t *testing.T) {
	wf := workflowFixture(&fakeReservations{}, nil)

	sess, err := wf.Start(context.Background(), "tok", "alice", "mov-1")
	require.NoError(t, err)
	require.NotNil(t, sess)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, StateReady, sess.State)
	require.NotNil(t, sess.Movie)
	assert.Equal(t, "Arrival", sess.Movie.Title)

	// Cinema C screens no showtime of this movie and must not appear; the
	// survivors keep the upstream listing order.
	require.Len(t, sess.Cinemas, 2)
	assert.Equal(t, "cin-a", sess.Cinemas[0].ID)
	assert.Equal(t, "cin-b", sess.Cinemas[1].ID)

	require.Len(t, sess.Showtimes, 3)
	for _, st := range sess.Showtimes {
		assert.Equal(t, "mov-1", st.MovieID)
	}
}

func TestStartIsFailAtomic(t *testing.T) {
	boom := errors.New("upstream down")
	wf := NewWorkflow(
		&fakeMovies{movie: &model.Movie{ID: "mov-1"}},
		&fakeCinemas{err: boom},
		&fakeShowtimes{},
		&fakeReservations{},
		nil,
		time.Second,
		quietLogger(),
	)

	sess, err := wf.Start(context.Background(), "tok", "alice", "mov-1")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, sess)
}

func TestMintIdempotencyKey(t *testing.T) {
	wf := workflowFixture(&fakeReservations{}, nil)
	k1 := wf.MintIdempotencyKey()
	k2 := wf.MintIdempotencyKey()
	assert.NotEmpty(t, k1)
	assert.NotEqual(t, k1, k2)
}

func TestSubmitSuccess(t *testing.T) {
	res := &fakeReservations{created: &model.Reservation{ID: "res-9", Total: 400}}
	ev := &fakeEvents{}
	wf := workflowFixture(res, ev)

	sess := testSession()
	require.NoError(t, sess.SelectCinema("cin-a"))
	require.NoError(t, sess.SelectShowtime("st-1"))
	require.NoError(t, sess.ToggleSeat(SeatKey{Row: "A", Number: 1}))
	require.NoError(t, sess.ToggleSeat(SeatKey{Row: "A", Number: 2}))
	require.NoError(t, sess.BeginSubmit(wf.MintIdempotencyKey))

	created, err := wf.Submit(context.Background(), "tok", sess, model.User{Username: "alice", Phone: "555-0101"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "res-9", created.ID)
	assert.Equal(t, StateSucceeded, sess.State)

	// Exactly one creation, carrying the minted key and the derived payload.
	assert.Equal(t, 1, res.calls)
	assert.Equal(t, "tok", res.gotToken)
	assert.Equal(t, sess.IdempotencyKey, res.gotKey)
	assert.Equal(t, []string{"A1", "A2"}, res.gotBody.Seats)
	assert.Equal(t, 400.0, res.gotBody.Total)

	require.Len(t, ev.events, 1)
	assert.Equal(t, "res-9", ev.events[0].ReservationID)
	assert.Equal(t, "Arrival", ev.events[0].MovieTitle)
	assert.Equal(t, "Cinema A", ev.events[0].CinemaName)
	assert.Equal(t, 400.0, ev.events[0].Total)
}

func TestSubmitFailureKeepsSelectionAndMessage(t *testing.T) {
	res := &fakeReservations{err: NewValidationError("Seat A1 is already reserved")}
	ev := &fakeEvents{}
	wf := workflowFixture(res, ev)

	sess := testSession()
	require.NoError(t, sess.SelectCinema("cin-a"))
	require.NoError(t, sess.SelectShowtime("st-1"))
	require.NoError(t, sess.ToggleSeat(SeatKey{Row: "A", Number: 1}))
	require.NoError(t, sess.BeginSubmit(wf.MintIdempotencyKey))
	key := sess.IdempotencyKey

	created, err := wf.Submit(context.Background(), "tok", sess, model.User{Username: "alice"})
	require.Error(t, err)
	assert.Nil(t, created)
	// The upstream's wording reaches the caller untouched.
	assert.Equal(t, "Seat A1 is already reserved", err.Error())

	assert.Equal(t, StateShowtimeSelected, sess.State)
	assert.Equal(t, "cin-a", sess.CinemaID)
	assert.Equal(t, "st-1", sess.ShowtimeID)
	assert.Equal(t, []SeatKey{{Row: "A", Number: 1}}, sess.SelectedSeats)
	assert.Equal(t, key, sess.IdempotencyKey)
	assert.Empty(t, ev.events)

	// The retry reuses the same idempotency key.
	res.err = nil
	res.created = &model.Reservation{ID: "res-10"}
	require.NoError(t, sess.BeginSubmit(wf.MintIdempotencyKey))
	_, err = wf.Submit(context.Background(), "tok", sess, model.User{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, key, res.gotKey)
}

func TestSubmitPublishFailureDoesNotFailBooking(t *testing.T) {
	res := &fakeReservations{created: &model.Reservation{ID: "res-11"}}
	ev := &fakeEvents{err: errors.New("broker down")}
	wf := workflowFixture(res, ev)

	sess := testSession()
	require.NoError(t, sess.SelectCinema("cin-a"))
	require.NoError(t, sess.SelectShowtime("st-1"))
	require.NoError(t, sess.ToggleSeat(SeatKey{Row: "B", Number: 3}))
	require.NoError(t, sess.BeginSubmit(wf.MintIdempotencyKey))

	created, err := wf.Submit(context.Background(), "tok", sess, model.User{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "res-11", created.ID)
	assert.Equal(t, StateSucceeded, sess.State)
}

// TestFunnelEndToEnd walks the whole funnel: start, pick cinema A, pick a
// showtime, pick two seats at 200 each, submit for a 400 total.
func TestFunnelEndToEnd(t *testing.T) {
	res := &fakeReservations{created: &model.Reservation{ID: "res-12"}}
	wf := workflowFixture(res, nil)

	sess, err := wf.Start(context.Background(), "tok", "alice", "mov-1")
	require.NoError(t, err)

	require.NoError(t, sess.SelectCinema("cin-a"))
	require.NoError(t, sess.SelectShowtime("st-2"))
	require.NoError(t, sess.ToggleSeat(SeatKey{Row: "A", Number: 1}))
	require.NoError(t, sess.ToggleSeat(SeatKey{Row: "B", Number: 1}))
	assert.Equal(t, 400.0, sess.Total())

	require.NoError(t, sess.BeginSubmit(wf.MintIdempotencyKey))
	_, err = wf.Submit(context.Background(), "tok", sess, model.User{Username: "alice"})
	require.NoError(t, err)

	assert.Equal(t, "mov-1", res.gotBody.MovieID)
	assert.Equal(t, "cin-a", res.gotBody.CinemaID)
	assert.Equal(t, "21:00", res.gotBody.StartAt)
	assert.Equal(t, []string{"A1", "B1"}, res.gotBody.Seats)
	assert.Equal(t, 400.0, res.gotBody.Total)
}
