package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Poojithanaramala/client/internal/booking"
	"github.com/Poojithanaramala/client/internal/config"
	"github.com/Poojithanaramala/client/internal/handler"
	"github.com/Poojithanaramala/client/internal/logger"
	"github.com/Poojithanaramala/client/internal/queue"
	"github.com/Poojithanaramala/client/internal/router"
	queue_publisher "github.com/Poojithanaramala/client/internal/service"
	"github.com/Poojithanaramala/client/internal/store"
	"github.com/Poojithanaramala/client/internal/upstream"
)

func main() {
	// Load a local .env when present; real deployments set the environment
	// directly, so a missing file is not an error.
	_ = godotenv.Load()

	cfg := config.Load()
	slg := logger.New(cfg.Env)

	// Redis backs sessions, the browse cache and the rate limiter. A nil
	// client degrades all three: sessions fall back to the in-process store
	// and the middlewares become pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		slg.Warn("redis unreachable; using in-process sessions, no cache, no rate limiting")
	}

	// Collaborator clients share one base client against the upstream API.
	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	movies := upstream.NewMovieClient(api)
	cinemas := upstream.NewCinemaClient(api)
	showtimes := upstream.NewShowtimeClient(api)
	reservations := upstream.NewReservationClient(api)
	identity := upstream.NewIdentityClient(api)

	wf := booking.NewWorkflow(movies, cinemas, showtimes, reservations,
		queue_publisher.New(), cfg.UpstreamTimeout, slg)
	sessions := store.New(rdb, cfg.SessionTTL)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	router.RegisterRoutes(e)
	router.RegisterBrowse(e, handler.NewBrowseHandler(movies, cinemas, showtimes), rdb)
	router.RegisterBooking(e,
		handler.NewBookingHandler(wf, sessions, identity),
		handler.NewReservationHandler(reservations),
		cfg.JWTSecret, rdb)

	// Consume confirmation events in the background; the consumer maintains
	// its own reconnect loop against the broker.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			slg.Error("reservation consumer stopped", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	slg.Info("listening", "addr", addr, "env", cfg.Env, "upstream", cfg.UpstreamBaseURL)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
