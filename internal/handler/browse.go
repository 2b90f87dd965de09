package handler

// browse.go exposes the public catalogue: movie listings, movie details,
// cinemas and showtimes. These are thin proxies over the upstream clients —
// the gateway adds caching (via middleware) and a consistent error shape but
// no derivation; the funnel derives its own context independently of these
// routes.

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Poojithanaramala/client/internal/model"
)

// MovieBrowser lists the catalogue; satisfied by upstream.MovieClient.
type MovieBrowser interface {
	GetAll(ctx context.Context, token string) ([]model.Movie, error)
	GetByID(ctx context.Context, token, id string) (*model.Movie, error)
}

// CinemaBrowser lists venues; satisfied by upstream.CinemaClient.
type CinemaBrowser interface {
	GetAll(ctx context.Context, token string) ([]model.Cinema, error)
}

// ShowtimeBrowser lists showtimes; satisfied by upstream.ShowtimeClient.
type ShowtimeBrowser interface {
	GetAll(ctx context.Context, token string) ([]model.Showtime, error)
}

// BrowseHandler aggregates the read-only clients needed for unauthenticated
// browsing.
type BrowseHandler struct {
	Movies    MovieBrowser
	Cinemas   CinemaBrowser
	Showtimes ShowtimeBrowser
}

// NewBrowseHandler constructs a BrowseHandler.
func NewBrowseHandler(movies MovieBrowser, cinemas CinemaBrowser, showtimes ShowtimeBrowser) *BrowseHandler {
	if movies == nil || cinemas == nil || showtimes == nil {
		panic("nil client passed to NewBrowseHandler")
	}
	return &BrowseHandler{Movies: movies, Cinemas: cinemas, Showtimes: showtimes}
}

// GetMovies handles GET /v1/movies.
func (h *BrowseHandler) GetMovies(c echo.Context) error {
	items, err := h.Movies.GetAll(c.Request().Context(), bearerToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMovie handles GET /v1/movies/:id.
func (h *BrowseHandler) GetMovie(c echo.Context) error {
	movie, err := h.Movies.GetByID(c.Request().Context(), bearerToken(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, movie)
}

// GetCinemas handles GET /v1/cinemas.
func (h *BrowseHandler) GetCinemas(c echo.Context) error {
	items, err := h.Cinemas.GetAll(c.Request().Context(), bearerToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetShowtimes handles GET /v1/showtimes.
func (h *BrowseHandler) GetShowtimes(c echo.Context) error {
	items, err := h.Showtimes.GetAll(c.Request().Context(), bearerToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
