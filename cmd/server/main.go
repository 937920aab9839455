package main // Entry point package

import (
	"context" // context for the background sweeper lifetime
	"log"     // Logging library

	"github.com/joho/godotenv"    // loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/cinemasahara/booking-service/internal/checkout"   // checkout sessions and confirmation gateway
	"github.com/cinemasahara/booking-service/internal/config"     // Internal config loader
	"github.com/cinemasahara/booking-service/internal/database"   // MySQL connection helper
	"github.com/cinemasahara/booking-service/internal/handler"    // HTTP handlers
	"github.com/cinemasahara/booking-service/internal/middleware" // cache and rate-limit middleware
	"github.com/cinemasahara/booking-service/internal/queue"      // RabbitMQ consumer
	"github.com/cinemasahara/booking-service/internal/repository" // DB repositories
	"github.com/cinemasahara/booking-service/internal/router"     // Internal router setup
	queue_publisher "github.com/cinemasahara/booking-service/internal/service"
)

func main() {
	// Load a local .env when present; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open MySQL and fail fast when the database is unreachable.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil
	// client disables both middlewares gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	// Repositories over the shared DB handle.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	screenings := repository.NewScreeningRepo(db)
	seats := repository.NewScreeningSeatRepo(db)
	holds := repository.NewSeatHoldRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Checkout flow: in-memory sessions with a background sweeper, a
	// transactional store and the RabbitMQ publisher.
	manager := checkout.NewManager(cfg.CheckoutTTL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.StartSweeper(ctx, cfg.CheckoutSweep)
	store := checkout.NewSQLStore(db, seats, holds, bookings)
	gateway := checkout.NewGateway(store, queue_publisher.PublishBookingConfirmed)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(db, screenings, seats, holds)
	checkoutH := handler.NewCheckoutHandler(db, manager, gateway, screenings, seats, holds)
	bookingH := handler.NewBookingHandler(bookings, seats)
	adminH := handler.NewAdminHandler(screenings, seats, bookings)

	e := echo.New() // Create Echo instance

	// Public browse routes get the Redis response cache and token-bucket
	// rate limiter when Redis is up.
	var publicMW []echo.MiddlewareFunc
	if rdb != nil {
		publicMW = append(publicMW,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
			middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		)
	}

	router.RegisterRoutes(e) // health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, publicMW...)
	router.RegisterCheckout(e, checkoutH, cfg.JWTSecret)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Consume booking.confirmed events in the background; the consumer
	// reconnects on broker failures and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
