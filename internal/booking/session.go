package booking

// session.go holds the per-funnel state machine. A Session is created per
// movie visited, owned by exactly one user, and is discarded after a
// successful submission or when it expires in the store. Every mutation
// enforces the selection-dependency invariants: changing the cinema clears
// the showtime and the seats, changing the showtime clears the seats, and a
// reserved seat can never enter the selection.

import (
	"errors"
	"time"

	"github.com/Poojithanaramala/client/internal/model"
	"github.com/Poojithanaramala/client/internal/upstream"
)

// State identifies where a session sits in the funnel.
type State string

const (
	// StateReady means the context is loaded and nothing is selected yet.
	StateReady State = "ready"
	// StateCinemaSelected means a cinema is picked but no showtime.
	StateCinemaSelected State = "cinema_selected"
	// StateShowtimeSelected means cinema and showtime are picked; seats may
	// be toggled and the session may be submitted from here.
	StateShowtimeSelected State = "showtime_selected"
	// StateSubmitting flags an in-flight reservation creation. A session in
	// this state rejects any further mutation or submit.
	StateSubmitting State = "submitting"
	// StateSucceeded is terminal: the reservation was created upstream.
	StateSucceeded State = "succeeded"
)

// ErrSubmitInFlight is returned when a submit arrives while a previous one
// for the same session has not settled yet.
var ErrSubmitInFlight = errors.New("submission already in progress")

// submitStaleAfter bounds how long a session may sit in the submitting state
// before a new submit may reclaim it. Only a process dying between persisting
// the state and settling the attempt leaves the stamp this old.
const submitStaleAfter = 2 * time.Minute

// errPreconditions carries the exact wording the funnel has always shown
// when submit is attempted before the selection is complete.
var errPreconditions = NewValidationError("Please select cinema, showtime, and seats")

// NewValidationError builds a user-facing validation failure that matches
// the upstream taxonomy, so handlers map local and upstream rejections the
// same way.
func NewValidationError(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return upstream.ErrValidation }

// Session is one booking funnel instance. It serializes to JSON as stored
// in the session store; none of the fields are secret.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	MovieID   string    `json:"movie_id"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`

	// Context loaded atomically by Workflow.Start. Cinemas and Showtimes
	// hold only the eligible subsets for the movie, in upstream order.
	Movie     *model.Movie     `json:"movie"`
	Cinemas   []model.Cinema   `json:"cinemas"`
	Showtimes []model.Showtime `json:"showtimes"`

	// Current selection. SelectedSeats preserves toggle order, which is the
	// order the reservation payload and the summary display use.
	CinemaID      string    `json:"cinema_id,omitempty"`
	ShowtimeID    string    `json:"showtime_id,omitempty"`
	SelectedSeats []SeatKey `json:"selected_seats,omitempty"`

	// IdempotencyKey is minted on the first submit attempt and reused on
	// retries so an ambiguous failure cannot double-book. SubmittingAt
	// stamps entry into the submitting state; a submission orphaned by a
	// crash is reclaimed once the stamp goes stale instead of wedging the
	// session until it expires.
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	SubmittingAt   time.Time `json:"submitting_at"`
}

// Cinema returns the selected cinema, or nil when none is selected.
func (s *Session) Cinema() *model.Cinema {
	if s.CinemaID == "" {
		return nil
	}
	for i := range s.Cinemas {
		if s.Cinemas[i].ID == s.CinemaID {
			return &s.Cinemas[i]
		}
	}
	return nil
}

// Showtime returns the selected showtime, or nil when none is selected.
func (s *Session) Showtime() *model.Showtime {
	if s.ShowtimeID == "" {
		return nil
	}
	for i := range s.Showtimes {
		if s.Showtimes[i].ID == s.ShowtimeID {
			return &s.Showtimes[i]
		}
	}
	return nil
}

// CinemaShowtimes returns the eligible showtimes narrowed to the selected
// cinema, in upstream order. Empty when no cinema is selected.
func (s *Session) CinemaShowtimes() []model.Showtime {
	if s.CinemaID == "" {
		return nil
	}
	out := make([]model.Showtime, 0, len(s.Showtimes))
	for _, st := range s.Showtimes {
		if st.CinemaID == s.CinemaID {
			out = append(out, st)
		}
	}
	return out
}

// SelectCinema sets the active cinema and resets everything downstream of
// it: the showtime and the seat selection. The cinema must be one of the
// eligible cinemas loaded for this movie.
func (s *Session) SelectCinema(cinemaID string) error {
	if s.State == StateSubmitting {
		return ErrSubmitInFlight
	}
	found := false
	for i := range s.Cinemas {
		if s.Cinemas[i].ID == cinemaID {
			found = true
			break
		}
	}
	if !found {
		return NewValidationError("cinema does not offer this movie")
	}
	s.CinemaID = cinemaID
	s.ShowtimeID = ""
	s.SelectedSeats = nil
	s.State = StateCinemaSelected
	return nil
}

// SelectShowtime sets the active showtime. The showtime must belong to the
// selected cinema; picking it resets the seat selection, since a seat
// identifier is only meaningful within one cinema's layout and the summary
// must restart per showtime.
func (s *Session) SelectShowtime(showtimeID string) error {
	if s.State == StateSubmitting {
		return ErrSubmitInFlight
	}
	if s.CinemaID == "" {
		return NewValidationError("select a cinema first")
	}
	var target *model.Showtime
	for i := range s.Showtimes {
		if s.Showtimes[i].ID == showtimeID {
			target = &s.Showtimes[i]
			break
		}
	}
	if target == nil || target.CinemaID != s.CinemaID {
		return NewValidationError("showtime not available at the selected cinema")
	}
	s.ShowtimeID = showtimeID
	s.SelectedSeats = nil
	s.State = StateShowtimeSelected
	return nil
}

// ToggleSeat flips a seat's membership in the selection. Toggling a seat the
// upstream reports as reserved is silently ignored, matching how the seat
// map has always behaved. Unknown seats are rejected. Removal keeps the
// relative order of the remaining seats; addition appends.
func (s *Session) ToggleSeat(key SeatKey) error {
	if s.State == StateSubmitting {
		return ErrSubmitInFlight
	}
	if s.ShowtimeID == "" {
		return NewValidationError("select a showtime first")
	}
	cinema := s.Cinema()
	if cinema == nil {
		return NewValidationError("select a cinema first")
	}
	seat := cinema.FindSeat(key.Row, key.Number)
	if seat == nil {
		return NewValidationError("no such seat in this cinema")
	}
	if seat.Reserved() {
		return nil
	}
	for i, sel := range s.SelectedSeats {
		if sel == key {
			s.SelectedSeats = append(s.SelectedSeats[:i], s.SelectedSeats[i+1:]...)
			return nil
		}
	}
	s.SelectedSeats = append(s.SelectedSeats, key)
	return nil
}

// Total recomputes the running total: seat count times the selected
// cinema's ticket price. It is never stored, so it cannot drift from the
// selection. Zero when no cinema is selected.
func (s *Session) Total() float64 {
	cinema := s.Cinema()
	if cinema == nil {
		return 0
	}
	return float64(len(s.SelectedSeats)) * cinema.TicketPrice
}

// BeginSubmit validates the funnel preconditions and moves the session into
// the submitting state, minting the idempotency key on the first attempt.
// Callers must hold the store's submit claim and persist the session before
// performing the network call. A session already in the submitting state is
// rejected unless its stamp has gone stale, which only happens when the
// process holding it died before settling; the reclaim reuses the existing
// idempotency key, so the upstream sees a retry rather than a new booking.
// mintKey supplies a fresh key; it is only invoked when the session does not
// have one yet.
func (s *Session) BeginSubmit(mintKey func() string) error {
	if s.State == StateSubmitting && time.Since(s.SubmittingAt) < submitStaleAfter {
		return ErrSubmitInFlight
	}
	if s.State == StateSucceeded {
		return NewValidationError("this booking was already confirmed")
	}
	if s.CinemaID == "" || s.ShowtimeID == "" || len(s.SelectedSeats) == 0 {
		return errPreconditions
	}
	if s.IdempotencyKey == "" {
		s.IdempotencyKey = mintKey()
	}
	s.State = StateSubmitting
	s.SubmittingAt = time.Now().UTC()
	return nil
}

// Payload builds the reservation submission from the current selection and
// the caller's identity. It assumes BeginSubmit has validated the state.
func (s *Session) Payload(user model.User) model.ReservationRequest {
	cinema := s.Cinema()
	showtime := s.Showtime()
	return model.ReservationRequest{
		MovieID:     s.MovieID,
		CinemaID:    cinema.ID,
		Date:        showtime.StartDate,
		StartAt:     showtime.StartAt,
		Seats:       Labels(s.SelectedSeats),
		TicketPrice: cinema.TicketPrice,
		Total:       s.Total(),
		Username:    user.Username,
		Phone:       user.Phone,
	}
}

// AbortSubmit returns an in-flight session to the seat-selection state
// without touching the selection. Callers use it when a submission could not
// even be attempted, e.g. the identity lookup failed.
func (s *Session) AbortSubmit() { s.finishSubmit(false) }

// finishSubmit settles an in-flight submission. Success is terminal; failure
// returns the session to the seat-selection state with every selection
// intact so the user can retry without re-picking anything.
func (s *Session) finishSubmit(ok bool) {
	s.SubmittingAt = time.Time{}
	if ok {
		s.State = StateSucceeded
		return
	}
	s.State = StateShowtimeSelected
}
