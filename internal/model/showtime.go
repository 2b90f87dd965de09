package model

// Showtime links a movie to a cinema at a particular date and time.  Many
// showtimes may reference the same movie/cinema pair.  The upstream API has
// no filter parameters on its showtime listing, so narrowing the collection
// to one movie or cinema is always done client-side.
//
// Fields:
//  ID       – upstream document identifier.
//  StartAt  – display time string, e.g. "18:30".
//  StartDate – first day this showtime runs.
//  EndDate  – last day this showtime runs.
//  MovieID  – foreign key into the movie collection.
//  CinemaID – foreign key into the cinema collection.
type Showtime struct {
	ID        string `json:"_id"`
	StartAt   string `json:"startAt"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	MovieID   string `json:"movieId"`
	CinemaID  string `json:"cinemaId"`
}
