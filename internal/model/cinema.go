package model

// Cinema represents a venue fetched from the upstream API.  The seat layout
// rides on the cinema document itself rather than on individual showtimes,
// which means seat occupancy is cinema-global upstream.  That is a known
// upstream simplification; the gateway models the wire format as-is.
//
// Fields:
//  ID             – upstream document identifier.
//  Name           – venue name.
//  City           – city the venue is located in.
//  TicketPrice    – price of one ticket in currency-agnostic units.
//  SeatsAvailable – number of free seats across the layout.
//  Seats          – ordered rows, each an ordered sequence of seats.
//  Image          – optional photo URL.
type Cinema struct {
	ID             string   `json:"_id"`
	Name           string   `json:"name"`
	City           string   `json:"city"`
	TicketPrice    float64  `json:"ticketPrice"`
	SeatsAvailable int      `json:"seatsAvailable"`
	Seats          [][]Seat `json:"seats"`
	Image          string   `json:"image,omitempty"`
}

// FindSeat looks up a seat in the layout by row label and number.  The
// returned pointer references the cinema's own grid; callers must not hold it
// past the cinema's lifetime.  It returns nil when no such seat exists.
func (c *Cinema) FindSeat(row string, number uint32) *Seat {
	for i := range c.Seats {
		for j := range c.Seats[i] {
			if c.Seats[i][j].Row == row && c.Seats[i][j].Number == number {
				return &c.Seats[i][j]
			}
		}
	}
	return nil
}
