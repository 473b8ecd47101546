package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/airmet/air-quality-monitor/internal/api/http"
	"github.com/airmet/air-quality-monitor/internal/airquality"
	"github.com/airmet/air-quality-monitor/internal/airquality/providers"
	"github.com/airmet/air-quality-monitor/internal/config"
	"github.com/airmet/air-quality-monitor/internal/scheduler"
	"github.com/airmet/air-quality-monitor/internal/store"
	"github.com/airmet/air-quality-monitor/internal/web"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound Open-Meteo calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	geocoder := providers.NewGeocodingClient(httpClient, cfg.GeocodeBaseURL)
	source := providers.NewAirQualityClient(httpClient, cfg.AirQualityBaseURL)

	// Every successful fetch overwrites this document.
	docs := store.NewFileStore(cfg.OutputFile)

	// Optional query history in SQLite.
	var history airquality.HistoryStore
	if cfg.HistoryDB != "" {
		sqlHistory, err := store.NewSQLiteHistory(cfg.HistoryDB)
		if err != nil {
			log.Fatalf("failed to open history db: %v", err)
		}
		defer sqlHistory.Close()
		history = sqlHistory
	}

	// Core service sequencing geocode, fetch, statistics, charts, persist.
	service := airquality.NewService(geocoder, source, docs, history, cfg.PastDays, cfg.ForecastDays)

	// Scheduler that keeps the latest query fresh.
	sched := scheduler.New(cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "air-quality-monitor",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "air-quality-monitor",
		})
	})

	// UI page and API routes.
	web.Register(app)
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

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
