// Package booking implements the reservation funnel: load the context for a
// movie, pick a cinema, pick a showtime, toggle seats, submit. All durable
// state lives behind the upstream API; this package only derives, selects
// and submits.
package booking

import (
	"strconv"

	"github.com/Poojithanaramala/client/internal/model"
)

// SeatKey names one seat within a cinema's layout as an explicit composite
// key. Using a struct instead of a concatenated string keeps "A"+10 and
// "A1"+0 distinct even though both would render as "A10"; value equality is
// the defined seat identity throughout the funnel.
type SeatKey struct {
	Row    string `json:"row"`
	Number uint32 `json:"number"`
}

// KeyOf returns the composite key for a layout seat.
func KeyOf(s model.Seat) SeatKey {
	return SeatKey{Row: s.Row, Number: s.Number}
}

// Label renders the seat's wire name, the row label immediately followed by
// the seat number ("A7"). This is the format reservation payloads carry.
func (k SeatKey) Label() string {
	return k.Row + strconv.FormatUint(uint64(k.Number), 10)
}

// Labels renders a seat list in order. The order of keys is preserved, which
// is how the selection order reaches the reservation payload.
func Labels(keys []SeatKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Label())
	}
	return out
}
