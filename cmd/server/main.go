// Package main is the entrypoint for the LLM URL Solution API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verygoodplugins/llm-url-solution/internal/ai"
	"github.com/verygoodplugins/llm-url-solution/internal/analyzer"
	"github.com/verygoodplugins/llm-url-solution/internal/api"
	"github.com/verygoodplugins/llm-url-solution/internal/api/handler"
	mw "github.com/verygoodplugins/llm-url-solution/internal/api/middleware"
	"github.com/verygoodplugins/llm-url-solution/internal/cache"
	"github.com/verygoodplugins/llm-url-solution/internal/config"
	"github.com/verygoodplugins/llm-url-solution/internal/detector"
	"github.com/verygoodplugins/llm-url-solution/internal/generator"
	"github.com/verygoodplugins/llm-url-solution/internal/publisher"
	"github.com/verygoodplugins/llm-url-solution/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	workerCount     = 2
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "model", cfg.AI.Model, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create generation provider
	provider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create generation provider: %w", err)
	}
	slog.Info("generation provider initialized", "provider", provider.Name())

	// 6. Assemble the pipeline
	pgStore := store.NewPostgresStore(pool)
	pub := publisher.NewPostgresPublisher(pool,
		publisher.NewStrategy(cfg.Generation.CategoryStrategy),
		cfg.Generation.DefaultStatus, cfg.Generation.DefaultContentType)

	slugAnalyzer := analyzer.New()
	limiter := generator.NewRateLimiter(pgStore, cfg.Generation.HourlyLimit, cfg.Generation.DailyLimit)
	genService := generator.NewService(pgStore, redisCache, slugAnalyzer, pub, pub,
		provider, limiter, cfg.Generation, cfg.Site, logger)

	worker := generator.NewWorker(genService, logger)
	worker.Start(ctx, workerCount)

	janitor := generator.NewJanitor(pgStore, cfg.Generation.RetentionDays, logger)
	go janitor.Run(ctx)

	detection := detector.NewService(pgStore, slugAnalyzer, pub, worker, cfg.Detection, logger)

	// Requeue events left pending by a previous run.
	if cfg.Detection.AutoGenerate {
		pending, err := pgStore.ListUnprocessed(ctx, 20)
		if err != nil {
			slog.Warn("requeue of pending events failed", "error", err)
		} else {
			for _, event := range pending {
				worker.Submit(event.ID)
			}
			if len(pending) > 0 {
				slog.Info("pending events requeued", "count", len(pending))
			}
		}
	}

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, cfg.Server.RequestsPerMinute),

		HealthHandler:    handler.NewHealthHandler(pgStore, redisCache),
		ReportHandler:    handler.NewReportHandler(detection),
		ListDetections:   handler.NewListDetectionsHandler(pgStore),
		GetDetection:     handler.NewGetDetectionHandler(pgStore),
		DeleteDetections: handler.NewDeleteDetectionsHandler(pgStore),
		StatusHandler:    handler.NewStatusHandler(redisCache, pgStore),
		GenerateHandler:  handler.NewGenerateHandler(genService, worker),
		GetRecord:        handler.NewGetRecordHandler(pub),
		StatsHandler:     handler.NewStatsHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.AI.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	worker.Wait()
	slog.Info("server stopped gracefully")
	return nil
}
