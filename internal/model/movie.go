package model

// Movie is a read-only reference fetched from the upstream catalogue.  It is
// used for display and to key a booking funnel; the gateway never creates or
// mutates movies.  Field names follow the upstream wire format, where the
// document identifier is exposed as `_id`.
//
// Fields:
//  ID          – upstream document identifier.
//  Title       – movie title.
//  Image       – optional poster URL.
//  Genre       – comma-joined list of genres (e.g. "action, drama").
//  Language    – spoken language.
//  Director    – director name.
//  Cast        – comma-joined cast list.
//  Description – synopsis text.
//  Duration    – running time in minutes.
//  ReleaseDate – first day the movie is showing.
//  EndDate     – last day the movie is showing.
type Movie struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Image       string `json:"image,omitempty"`
	Genre       string `json:"genre"`
	Language    string `json:"language"`
	Director    string `json:"director,omitempty"`
	Cast        string `json:"cast,omitempty"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
	ReleaseDate string `json:"releaseDate"`
	EndDate     string `json:"endDate,omitempty"`
}
