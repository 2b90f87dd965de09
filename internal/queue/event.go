// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published after the upstream accepts a
// reservation. It carries enough context for downstream consumers to log,
// notify, or feed analytics without calling the upstream API back.
type ReservationConfirmedEvent struct {
	ReservationID string   `json:"reservation_id"`
	Username      string   `json:"username"`
	MovieID       string   `json:"movie_id"`
	MovieTitle    string   `json:"movie_title"`
	CinemaID      string   `json:"cinema_id"`
	CinemaName    string   `json:"cinema_name"`
	Date          string   `json:"date"`
	StartAt       string   `json:"start_at"`
	Seats         []string `json:"seats"`
	Total         float64  `json:"total"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
