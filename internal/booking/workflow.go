package booking

// workflow.go orchestrates the funnel against the upstream collaborators.
// Start performs the fail-atomic context load (movie, cinemas, showtimes in
// parallel; any failure discards everything) and derives the eligible
// subsets. Submit turns the selection into a reservation creation, exactly
// one per successful submission.

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Poojithanaramala/client/internal/model"
	"github.com/Poojithanaramala/client/internal/queue"
	"github.com/Poojithanaramala/client/internal/utils"
)

// MovieLookup fetches a single movie from the upstream catalogue.
type MovieLookup interface {
	GetByID(ctx context.Context, token, id string) (*model.Movie, error)
}

// CinemaLookup fetches the full cinema collection.
type CinemaLookup interface {
	GetAll(ctx context.Context, token string) ([]model.Cinema, error)
}

// ShowtimeLookup fetches the full showtime collection. No server-side filter
// by movie is assumed; narrowing is done here.
type ShowtimeLookup interface {
	GetAll(ctx context.Context, token string) ([]model.Showtime, error)
}

// ReservationCreator submits a reservation with an idempotency key.
type ReservationCreator interface {
	Create(ctx context.Context, token, idempotencyKey string, payload model.ReservationRequest) (*model.Reservation, error)
}

// EventPublisher announces a confirmed reservation to the broker. Publishing
// is best-effort; a broker outage must never fail a booking.
type EventPublisher interface {
	PublishReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// Workflow wires the collaborators together. One Workflow serves all
// sessions; per-funnel state lives entirely in the Session.
type Workflow struct {
	movies       MovieLookup
	cinemas      CinemaLookup
	showtimes    ShowtimeLookup
	reservations ReservationCreator
	events       EventPublisher
	timeout      time.Duration
	log          *slog.Logger
}

// NewWorkflow constructs a Workflow. events may be nil when no broker is
// configured. timeout bounds each upstream round-trip; zero means the
// caller's context is the only bound.
func NewWorkflow(movies MovieLookup, cinemas CinemaLookup, showtimes ShowtimeLookup, reservations ReservationCreator, events EventPublisher, timeout time.Duration, log *slog.Logger) *Workflow {
	if movies == nil || cinemas == nil || showtimes == nil || reservations == nil {
		panic("nil collaborator passed to NewWorkflow")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Workflow{
		movies:       movies,
		cinemas:      cinemas,
		showtimes:    showtimes,
		reservations: reservations,
		events:       events,
		timeout:      timeout,
		log:          log,
	}
}

func (w *Workflow) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, w.timeout)
}

// Start creates a session for one movie and loads its booking context. The
// three fetches run concurrently and settle as a unit: if any of them fails
// the session is not created and no partial state escapes. The returned
// session is in StateReady with the eligible cinemas and showtimes derived:
// eligible showtimes are those whose movie id matches, and eligible cinemas
// are exactly the cinemas referenced by some eligible showtime, in the order
// the upstream listed them.
func (w *Workflow) Start(ctx context.Context, token, username, movieID string) (*Session, error) {
	ctx, cancel := w.bound(ctx)
	defer cancel()

	var (
		movie        *model.Movie
		allCinemas   []model.Cinema
		allShowtimes []model.Showtime
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := w.movies.GetByID(gctx, token, movieID)
		if err != nil {
			return err
		}
		movie = m
		return nil
	})
	g.Go(func() error {
		cs, err := w.cinemas.GetAll(gctx, token)
		if err != nil {
			return err
		}
		allCinemas = cs
		return nil
	})
	g.Go(func() error {
		sts, err := w.showtimes.GetAll(gctx, token)
		if err != nil {
			return err
		}
		allShowtimes = sts
		return nil
	})
	if err := g.Wait(); err != nil {
		w.log.Warn("booking context load failed", "movie_id", movieID, "error", err)
		return nil, err
	}

	eligibleShowtimes := make([]model.Showtime, 0, len(allShowtimes))
	cinemaIDs := make(map[string]struct{})
	for _, st := range allShowtimes {
		if st.MovieID == movieID {
			eligibleShowtimes = append(eligibleShowtimes, st)
			cinemaIDs[st.CinemaID] = struct{}{}
		}
	}
	eligibleCinemas := make([]model.Cinema, 0, len(cinemaIDs))
	for _, c := range allCinemas {
		if _, ok := cinemaIDs[c.ID]; ok {
			eligibleCinemas = append(eligibleCinemas, c)
		}
	}

	sess := &Session{
		ID:        utils.NewSessionID(),
		Username:  username,
		MovieID:   movieID,
		State:     StateReady,
		CreatedAt: time.Now().UTC(),
		Movie:     movie,
		Cinemas:   eligibleCinemas,
		Showtimes: eligibleShowtimes,
	}
	w.log.Info("booking session started",
		"session_id", sess.ID,
		"movie_id", movieID,
		"cinemas", len(eligibleCinemas),
		"showtimes", len(eligibleShowtimes))
	return sess, nil
}

// MintIdempotencyKey produces the de-duplication key attached to the
// reservation creation. One key per logical submission, reused on retries.
func (w *Workflow) MintIdempotencyKey() string {
	return uuid.NewString()
}

// Submit performs the reservation creation for a session that BeginSubmit
// has already moved into the submitting state. On success the session is
// terminal and a confirmation event is published best-effort; on failure the
// session returns to the seat-selection state untouched so the user may
// retry, and the upstream's message is propagated verbatim.
func (w *Workflow) Submit(ctx context.Context, token string, sess *Session, user model.User) (*model.Reservation, error) {
	ctx, cancel := w.bound(ctx)
	defer cancel()

	payload := sess.Payload(user)
	created, err := w.reservations.Create(ctx, token, sess.IdempotencyKey, payload)
	if err != nil {
		sess.finishSubmit(false)
		w.log.Warn("reservation submit failed",
			"session_id", sess.ID,
			"movie_id", sess.MovieID,
			"error", err)
		return nil, err
	}
	sess.finishSubmit(true)
	w.log.Info("reservation confirmed",
		"session_id", sess.ID,
		"reservation_id", created.ID,
		"seats", payload.Seats,
		"total", payload.Total)

	if w.events != nil {
		ev := queue.ReservationConfirmedEvent{
			ReservationID: created.ID,
			Username:      payload.Username,
			MovieID:       payload.MovieID,
			MovieTitle:    sess.Movie.Title,
			CinemaID:      payload.CinemaID,
			CinemaName:    sess.Cinema().Name,
			Date:          payload.Date,
			StartAt:       payload.StartAt,
			Seats:         payload.Seats,
			Total:         payload.Total,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := w.events.PublishReservationConfirmed(ctx, ev); err != nil {
			// Broker trouble is not the user's problem.
			w.log.Warn("confirmation event publish failed", "reservation_id", created.ID, "error", err)
		}
	}
	return created, nil
}
