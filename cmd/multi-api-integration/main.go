package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/superdark1999/multi-api-integration/internal/aggregate"
	httpapi "github.com/superdark1999/multi-api-integration/internal/api/http"
	"github.com/superdark1999/multi-api-integration/internal/config"
	"github.com/superdark1999/multi-api-integration/internal/providers"
	"github.com/superdark1999/multi-api-integration/internal/ratelimit"
	"github.com/superdark1999/multi-api-integration/internal/scheduler"
	"github.com/superdark1999/multi-api-integration/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Rate limiter: a shared Redis window when configured, with the local
	// in-process window covering absence and per-call store failures.
	var counter ratelimit.CounterStore
	if cfg.RedisURL != "" {
		redisCounter, err := ratelimit.NewRedisCounter(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to init redis counter: %v", err)
		}
		defer func() {
			if err := redisCounter.Close(); err != nil {
				log.Printf("failed to close redis counter: %v", err)
			}
		}()
		counter = redisCounter
	} else {
		log.Println("REDIS_URL not set; rate limiting is local to this process")
	}

	limiter := ratelimit.NewLimiter(counter, cfg.RateLimitRequests, cfg.RateLimitWindow)
	limiter.Local().StartJanitor(ctx, 2*time.Minute)

	// Optional MongoDB persistence.
	var sink aggregate.SnapshotSink
	var mongoSink *storage.MongoSink
	if cfg.MongoURI != "" {
		mongoSink = storage.NewMongoSink(cfg.MongoURI)
		sink = mongoSink
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoSink.Close(closeCtx); err != nil {
				log.Printf("failed to close mongo sink: %v", err)
			}
		}()
	} else {
		log.Println("MONGODB_URI not set; aggregated data will not be persisted")
	}

	// Core aggregation service over the three upstream sources.
	service := aggregate.NewService(
		providers.NewCoinGeckoSource(httpClient),
		providers.NewOpenWeatherSource(httpClient, cfg.OpenWeatherAPIKey),
		providers.NewNewsAPISource(httpClient, cfg.NewsAPIKey),
		sink,
	)

	// Optional background snapshot refresh.
	sched := scheduler.New(cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "multi-api-integration",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpapi.NewRateLimitMiddleware(limiter))

	health := func(c *fiber.Ctx) bool {
		return mongoSink != nil && mongoSink.Connected(c.Context())
	}
	httpapi.RegisterRoutes(app, service, health)

	addr := cfg.Host + ":" + cfg.Port

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("[ ready ] http://%s", addr)

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
