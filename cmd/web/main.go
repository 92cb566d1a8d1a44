package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/handlers"
	"ecommerce-dashboard/internal/middleware"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/server"
	"ecommerce-dashboard/internal/services"
)

const (
	csvLoadTimeout = 30 * time.Second
	renderTimeout  = time.Minute
)

type app struct {
	handler     http.Handler
	analytics   *services.Analytics
	rateLimiter *middleware.RateLimiter
}

// newApp loads the data, draws the charts and assembles the HTTP handler.
// Any failure here is fatal: the dashboard never serves a partial page.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	analytics := services.NewAnalytics(
		services.WithTargetYear(cfg.Dashboard.TargetYear),
		services.WithCacheDir(cfg.Data.CacheDir),
		services.WithLogger(logger),
	)

	loadCtx, cancel := context.WithTimeout(ctx, csvLoadTimeout)
	defer cancel()

	start := time.Now()
	if err := analytics.LoadFromCSV(loadCtx, cfg.Data.CSVFile); err != nil {
		return nil, fmt.Errorf("load order data: %w", err)
	}
	logger.Info("order data loaded", "duration", time.Since(start))

	image, err := os.ReadFile(cfg.Data.ImageFile)
	if err != nil {
		return nil, fmt.Errorf("read customer map: %w", err)
	}

	renderer := charts.NewRenderer(cfg.Dashboard.TopCategories, logger)
	renderCtx, cancelRender := context.WithTimeout(ctx, renderTimeout)
	defer cancelRender()
	if err := renderer.Render(renderCtx, analytics); err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}

	srv := server.NewServer(server.Deps{
		Analytics:   analytics,
		Renderer:    renderer,
		CustomerMap: handlers.NewAsset(image),
		Dashboard:   cfg.Dashboard,
		Logger:      logger,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return &app{
		handler:     middlewareChain(srv),
		analytics:   analytics,
		rateLimiter: rateLimiter,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"csv_file", cfg.Data.CSVFile,
		"target_year", cfg.Dashboard.TargetYear,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	go a.rateLimiter.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      a.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("stopping background workers", "stats", a.analytics.Stats())
		cancel()
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
