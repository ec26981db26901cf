package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgeledger/loanintel/internal/bootstrap"
	"github.com/edgeledger/loanintel/internal/config"
	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/observability/logging"
	"github.com/edgeledger/loanintel/internal/observability/metrics"
)

const processTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewJSONLogger("worker", "info").Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, fileID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
		defer cancel()
		return processDocument(processCtx, app, workerMetrics, fileID)
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func processDocument(ctx context.Context, app *bootstrap.App, m *metrics.WorkerMetrics, fileID string) error {
	if file, err := app.Files.GetByID(ctx, fileID); err == nil {
		m.ObserveQueueLag("worker", time.Since(file.CreatedAt))
	}

	m.StartDocument()
	start := time.Now()
	err := app.ProcessUC.ProcessByID(ctx, fileID)
	outcome := "processed"
	if err != nil {
		outcome = "failed"
	}
	m.FinishDocument("worker", outcome, time.Since(start))
	if err != nil {
		return err
	}

	if data, derr := app.Docs.Get(ctx, fileID); derr == nil && data != nil {
		warnings := domain.Analysis{Sections: data.Sections}.WarningCount()
		m.ObserveAnalysis("worker", len(data.Sections), warnings, data.RiskScore)
	}
	return nil
}
