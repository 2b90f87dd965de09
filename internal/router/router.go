package router // package router defines how HTTP routes are registered for the gateway

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing
	"github.com/redis/go-redis/v9"

	"github.com/Poojithanaramala/client/internal/config"
	"github.com/Poojithanaramala/client/internal/handler"
	"github.com/Poojithanaramala/client/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check, used by
// load balancers and monitoring to verify the gateway is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBrowse registers the public catalogue endpoints. These carry no
// JWT middleware — guests browse movies before logging in — but GET
// responses are cached in Redis when available, since the catalogue changes
// far less often than it is read.
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	g := e.Group("/v1", cache)
	g.GET("/movies", b.GetMovies)
	g.GET("/movies/:id", b.GetMovie)
	g.GET("/cinemas", b.GetCinemas)
	g.GET("/showtimes", b.GetShowtimes)
}

// RegisterBooking registers the reservation funnel and the caller's booking
// history. Every route requires a valid upstream-issued bearer token and
// shares a per-caller token-bucket budget: the funnel ends in an upstream
// write, so it is the one surface worth rate limiting.
func RegisterBooking(e *echo.Echo, bh *handler.BookingHandler, rh *handler.ReservationHandler, jwtSecret string, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), limiter)

	// The funnel: start a session for a movie, then narrow cinema ->
	// showtime -> seats, then submit.
	g.POST("/booking/movies/:movieId", bh.Start)
	g.GET("/booking/sessions/:id", bh.Get)
	g.PUT("/booking/sessions/:id/cinema", bh.SelectCinema)
	g.PUT("/booking/sessions/:id/showtime", bh.SelectShowtime)
	g.POST("/booking/sessions/:id/seats", bh.ToggleSeat)
	g.POST("/booking/sessions/:id/submit", bh.Submit)

	// Booking history.
	g.GET("/reservations", rh.List)
	g.POST("/reservations/:id/checkin", rh.Checkin)
}
