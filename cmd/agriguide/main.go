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

	"github.com/bharti-kisan/agriguide/internal/advisory"
	httpapi "github.com/bharti-kisan/agriguide/internal/api/http"
	"github.com/bharti-kisan/agriguide/internal/assistant"
	"github.com/bharti-kisan/agriguide/internal/config"
	"github.com/bharti-kisan/agriguide/internal/market"
	"github.com/bharti-kisan/agriguide/internal/scheduler"
	"github.com/bharti-kisan/agriguide/internal/store"
	"github.com/bharti-kisan/agriguide/internal/weather"
	"github.com/bharti-kisan/agriguide/internal/weather/providers"
)

const serviceName = "agriguide"

func main() {
	// Load configuration (.env first, then the environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory snapshot store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	thresholds, err := store.OpenThresholdStore(cfg.ThresholdsFile)
	if err != nil {
		log.Fatalf("failed to open threshold store: %v", err)
	}

	// Open-Meteo serves forecasts, geocoding and soil data without an API key.
	openMeteo := providers.NewOpenMeteoProvider(httpClient, providers.OpenMeteoURLs{
		Forecast: cfg.OpenMeteoBaseURL,
	})

	geocoders := providers.ChainGeocoder{openMeteo}
	if cfg.GeocoderAPIKey != "" {
		geocoders = append(geocoders, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey))
	}

	weatherService := weather.NewService(memStore, openMeteo, geocoders, openMeteo)
	advisoryService := advisory.NewService(weatherService, thresholds)

	if cfg.GroqAPIKey == "" {
		log.Printf("INFO: GROQ_API_KEY is not set; /api/v1/ai will answer 503")
	}
	assistantService := assistant.NewService(
		assistant.NewClient(httpClient, assistant.Config{
			APIKey:      cfg.GroqAPIKey,
			Model:       cfg.GroqModel,
			VisionModel: cfg.GroqVisionModel,
		}),
		store.NewHistoryStore(cfg.HistoryMax),
	)

	prices := market.NewClient(httpClient, cfg.DataGovAPIKey, "", cfg.PriceCacheTTL)

	// Scheduler that periodically refreshes tracked locations.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, advisoryService)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second, // AI answers can be slow
		BodyLimit:             5 * 1024 * 1024,  // inline images
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
	app.Get("/health", health)
	app.Get("/api/health", health)

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Services{
		Weather:   weatherService,
		Advisory:  advisoryService,
		Assistant: assistantService,
		Prices:    prices,
		Reminders: store.NewReminderStore(),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: %s listening on :%s", serviceName, cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
