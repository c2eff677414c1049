package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/property-scraper/internal/adapter/chromedp_browser"
	"github.com/user/property-scraper/internal/adapter/postgres"
	redis_adapter "github.com/user/property-scraper/internal/adapter/redis"
	sheets_adapter "github.com/user/property-scraper/internal/adapter/sheets"
	"github.com/user/property-scraper/internal/delivery/http/handler"
	"github.com/user/property-scraper/internal/delivery/http/router"
	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/internal/extractor"
	"github.com/user/property-scraper/internal/repository"
	"github.com/user/property-scraper/internal/usecase"
	"github.com/user/property-scraper/pkg/config"
	"github.com/user/property-scraper/pkg/logger"
	"github.com/user/property-scraper/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx := context.Background()

	// --- Optional backends ---
	// Each backend is wired only when configured; the scraper itself runs
	// without any of them.
	var historyRepo repository.RunHistoryRepository
	var failedRepo repository.FailedURLRepository
	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		historyRepo = postgres.NewRunHistoryRepo(dbpool)
		failedRepo = postgres.NewFailedURLRepo(dbpool)
		slog.Info("PostgreSQL connection pool established")
	}

	var visitedRepo repository.VisitedRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		visitedRepo = redis_adapter.NewVisitedRepo(rdb)
		slog.Info("Redis connection established")
	}

	var sheetRepo repository.SheetRepository
	if cfg.SheetID != "" && cfg.SheetCredentials != "" {
		repo, err := sheets_adapter.NewSheetRepo(ctx, cfg.SheetCredentials, cfg.SheetID)
		if err != nil {
			slog.Error("Unable to create Sheets client", "error", err)
			os.Exit(1)
		}
		sheetRepo = repo
		slog.Info("Google Sheets client ready", "spreadsheet_id", cfg.SheetID)
	}

	// --- Browser ---
	browserFactory := chromedp_browser.NewFactory(chromedp_browser.Options{
		PageLoadTimeout: cfg.PageLoadTimeout,
		ElementTimeout:  cfg.ElementTimeout,
		Headless:        cfg.Headless,
		UserAgent:       cfg.UserAgent,
		Stealth:         cfg.StealthMode,
	})

	// --- Extractors ---
	registry := extractor.NewRegistry(
		extractor.NewForSale(cfg.Categories[entity.CategoryForSale], cfg.CompetitorName),
		extractor.NewForRent(cfg.Categories[entity.CategoryForRent], cfg.CompetitorName, cfg.USDRate),
	)

	// --- Use Cases ---
	collector := usecase.NewURLCollector(registry, cfg.PageDelay)
	writer := usecase.NewSheetWriter(sheetRepo)
	orchestrator := usecase.NewScrapeOrchestrator(
		browserFactory,
		registry,
		collector,
		writer,
		visitedRepo,
		failedRepo,
		historyRepo,
		usecase.OrchestratorConfig{
			MaxRetries:     cfg.MaxRetries,
			BackoffBase:    cfg.BackoffBase,
			RateLimitDelay: cfg.RateLimitDelay,
			VisitedTTL:     cfg.VisitedTTL,
			CompetitorName: cfg.CompetitorName,
			SheetName:      cfg.SheetName,
			CombinedSheet:  cfg.CombinedSheet,
		},
	)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(orchestrator, cfg.MaxPropertiesDefault, cfg.MaxPagesDefault)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     httpRouter,
		ReadTimeout: 10 * time.Second,
		// Scrape runs are synchronous and can take minutes, so writes are
		// not bounded here.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
