package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/4f71/mentormate/internal/bootstrap"
	"github.com/4f71/mentormate/internal/config"
	"github.com/4f71/mentormate/internal/observability/logging"
	"github.com/4f71/mentormate/internal/observability/metrics"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("indexer", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, nil)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	indexerMetrics := metrics.NewIndexerMetrics("indexer")
	metricsServer := &http.Server{
		Addr:         ":" + cfg.IndexerMetricsPort,
		Handler:      metricsHandler(indexerMetrics),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("indexer_metrics_listening", "port", cfg.IndexerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("indexer_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("indexer_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeFAQFileIngested(ctx, func(handlerCtx context.Context, fileID string) error {
		indexCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		done := indexerMetrics.IndexStarted()
		if err := app.IndexUC.IndexByID(indexCtx, fileID); err != nil {
			done("failed")
			return err
		}
		done("ready")

		if file, err := app.Repo.GetByID(indexCtx, fileID); err == nil {
			indexerMetrics.AddSkippedLines(file.SkippedCount)
		}
		return nil
	})
	if err != nil {
		slog.Error("indexer_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func metricsHandler(m *metrics.IndexerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
