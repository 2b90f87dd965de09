package model

// ReservationRequest is the payload the gateway constructs immediately before
// submission.  The upstream service is the system of record once the request
// is accepted; the gateway keeps nothing durable.
//
// Seats holds seat labels (row + number) in the order the user picked them,
// and Total is always TicketPrice multiplied by the number of seats.
type ReservationRequest struct {
	MovieID     string   `json:"movieId"`
	CinemaID    string   `json:"cinemaId"`
	Date        string   `json:"date"`
	StartAt     string   `json:"startAt"`
	Seats       []string `json:"seats"`
	TicketPrice float64  `json:"ticketPrice"`
	Total       float64  `json:"total"`
	Username    string   `json:"username"`
	Phone       string   `json:"phone"`
}

// Reservation is a created reservation record as returned by the upstream
// API, e.g. when listing a user's past bookings.
type Reservation struct {
	ID          string   `json:"_id"`
	MovieID     string   `json:"movieId"`
	CinemaID    string   `json:"cinemaId"`
	Date        string   `json:"date"`
	StartAt     string   `json:"startAt"`
	Seats       []string `json:"seats"`
	TicketPrice float64  `json:"ticketPrice"`
	Total       float64  `json:"total"`
	Username    string   `json:"username"`
	Phone       string   `json:"phone"`
	Checkin     bool     `json:"checkin"`
}
