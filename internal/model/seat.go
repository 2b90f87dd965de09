package model

// Seat statuses as reported by the upstream API.  A seat is either free to
// pick or already taken; there is no intermediate hold state on the wire.
const (
	SeatAvailable = "available"
	SeatReserved  = "reserved"
)

// Seat describes one position in a cinema's seating grid.  Seats carry no
// dedicated identifier upstream; a seat is named by its row label combined
// with its number within the row (see booking.SeatKey).
//
// Fields:
//  Row    – row label, usually a single letter ("A", "B", ...).
//  Number – 1-based position within the row.
//  Status – "available" or "reserved".
type Seat struct {
	Row    string `json:"row"`
	Number uint32 `json:"number"`
	Status string `json:"status"`
}

// Reserved reports whether the seat is already taken and therefore can never
// be selected.
func (s Seat) Reserved() bool { return s.Status == SeatReserved }
