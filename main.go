package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fenilmodi00/ipo-companion/config"
	"github.com/fenilmodi00/ipo-companion/database"
	"github.com/fenilmodi00/ipo-companion/handlers"
	"github.com/fenilmodi00/ipo-companion/jobs"
	"github.com/fenilmodi00/ipo-companion/services"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	unified := cfg.Unified()
	shared.ConfigureLogging(unified.Logging)
	if data, err := unified.ToJSON(); err == nil {
		logrus.Debugf("Effective configuration: %s", data)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Client state lives in Postgres when configured, in memory otherwise
	var store services.KeyValueStore = database.NewMemoryStore()
	var db *sql.DB
	if unified.Database.URL != "" {
		if err := database.ConnectWithConfig(unified.Database.URL, &unified.Database); err != nil {
			logrus.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			logrus.Fatalf("Failed to migrate database: %v", err)
		}
		db = database.DB
		store = database.NewPostgresStore(db)
	}

	// Market API client with response cache
	cacheService := services.NewCacheServiceWithConfig(unified.Cache.DefaultTTL, unified.Cache.MaxSize, nil)
	clientFactory := shared.NewHTTPClientFactory(unified.Service.HTTPRequestTimeout)
	defer clientFactory.CleanupAllClients()
	client := services.NewMarketAPIClient(unified.Service, clientFactory, cacheService)

	// State cells
	requestValidator := services.NewRequestValidator()
	sessionService := services.NewSessionService(store, client, requestValidator)
	themeService := services.NewThemeService(store)
	if err := sessionService.Init(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to restore session, starting signed out")
	}
	if err := themeService.Init(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to restore theme, using system mode")
	}
	client.SetTokenProvider(sessionService)

	formatter := shared.NewCurrencyFormatter(unified.Presentation.CurrencyLocale, unified.Presentation.CurrencySymbol)
	presenter := services.NewPresentationService(formatter, shared.SystemClock{})
	portfolioService := services.NewPortfolioService(client, sessionService, requestValidator)
	pageSize := unified.Pagination.PageSize

	logrus.WithFields(logrus.Fields{
		"base_url":    unified.Service.BaseURL,
		"timeout":     unified.Service.HTTPRequestTimeout,
		"rate_limit":  unified.Service.RequestsPerSecond,
		"cache_ttl":   unified.Cache.DefaultTTL,
		"page_size":   pageSize,
		"postgres":    db != nil,
		"signed_in":   sessionService.Token() != "",
		"theme_mode":  themeService.Mode(),
		"currency":    unified.Presentation.CurrencyLocale,
		"max_entries": unified.Cache.MaxSize,
	}).Info("IPO companion services initialized")

	// Background jobs
	jobs.NewCacheCleanupJob(cacheService).Start(ctx, unified.Cache.PurgeInterval)
	if unified.Cache.WarmupInterval > 0 {
		jobs.NewGMPWarmupJob(client, pageSize, unified.Service.HTTPRequestTimeout).Start(ctx, unified.Cache.WarmupInterval)
	}

	// Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      unified.Logging.ServiceName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: unified.Service.HTTPRequestTimeout + 5*time.Second,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	handlers.SetupRoutes(app, handlers.Handlers{
		IPO:         handlers.NewIPOHandler(client, presenter, pageSize),
		GMP:         handlers.NewGMPHandler(client, presenter, pageSize),
		Market:      handlers.NewMarketHandler(client, presenter, pageSize),
		Feeds:       handlers.NewFeedHandler(services.NewFeeds(client, presenter, pageSize)),
		Session:     handlers.NewSessionHandler(sessionService, themeService),
		Portfolio:   handlers.NewPortfolioHandler(portfolioService, presenter),
		Performance: handlers.NewPerformanceHandler(db, client, cacheService),
	})

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down server")
		client.Metrics().LogSummary()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.WithError(err).Warn("Server shutdown failed")
		}
	}()

	// Start server
	logrus.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
