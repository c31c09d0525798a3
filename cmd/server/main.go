package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/KOFI-GYIMAH/insight-gateway/docs"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/config"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/db"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/insight"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/metrics"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/opendigger"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/queue"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/server"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/service"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/worker"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
)

// @title Insight Gateway
// @version 1.0.0
// @description Repository insight endpoints backed by OpenDigger.
// @BasePath /api
func main() {
	// * Load configuration
	cfg, err := config.LoadConfiguration()
	if err != nil {
		logger.Error("‼️ Failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.IsDev || os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.LevelDebug)
		logger.Debug("development mode: debug logging and non-secure cookies")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// * Metrics
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		prom := metrics.NewPrometheusRecorder(nil)
		recorder = prom

		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

		go func() {
			logger.Info("Serving metrics on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error: %v", err)
			}
		}()
	}

	// * Insight lookups over OpenDigger
	client := opendigger.NewClient(cfg.OpenDiggerBaseURL)
	insightService := insight.NewService(client, recorder)

	deps := server.Deps{
		Insight:  insightService,
		Recorder: recorder,
	}

	workerDone := make(chan struct{})

	// * Optional tracking: PostgreSQL store, refresh worker and RabbitMQ queue
	if cfg.DBURL != "" {
		database, err := db.NewPostgresDB(cfg.DBURL)
		if err != nil {
			logger.Error("Failed to initialize database: %v", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			logger.Error("Failed to run migrations: %v", err)
			os.Exit(1)
		}
		logger.Info("Successfully ran migrations")

		tracking := service.NewTrackingService(insightService, database, recorder)

		if cfg.RabbitMQURL != "" {
			rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
			if err != nil {
				logger.Error("Failed to initialize RabbitMQ: %v", err)
				os.Exit(1)
			}
			defer rabbitMQ.Close()

			tracking.WithPublisher(rabbitMQ)
			if err := rabbitMQ.ConsumeRefreshRequests(ctx, tracking.Refresh); err != nil {
				logger.Error("Failed to consume refresh requests: %v", err)
				os.Exit(1)
			}
		}

		refreshWorker := worker.NewRefreshWorker(tracking, cfg.RefreshInterval)
		go func() {
			defer close(workerDone)
			refreshWorker.Run(ctx)
		}()
		deps.Tracker = tracking
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewHandler(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting API server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server error: %v", err)
			os.Exit(1)
		}
	}()

	// * Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown error: %v", err)
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}

	// * Let an in-flight refresh finish before the database is closed
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.Warn("refresh worker did not stop before the shutdown deadline")
	}
}
