package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/export/sheets"
	"fintrack/internal/ingest"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	classifier, err := cli.BuildClassifier(cfg)
	if err != nil {
		logger.Error("Failed to load classification rules", log.FieldError, err, "path", cfg.RulesFile)
		os.Exit(1)
	}

	be := cli.InitBackend(logger, cfg)
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	// Google Sheets export is optional.
	var exporter worker.Exporter
	sheetsExporter, err := sheets.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter", log.FieldError, err)
		os.Exit(1)
	}
	if sheetsExporter != nil {
		exporter = sheetsExporter
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	pipeline := ingest.New(classifier.Classify)
	ingestSvc := services.NewIngestService(pipeline, be.Store, amqpClient)
	querySvc := services.NewQueryService(be.Store)
	w := worker.NewIngestWorker(ingestSvc, exporter)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Consuming statement jobs", "queue", cfg.AMQPQueue, "consumer_tag", cfg.ConsumerTag)
		return w.Run(gctx, amqpClient, cfg.ConsumerTag)
	})

	// Periodic heartbeat with the current record count.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				records, err := querySvc.List(gctx)
				if err != nil {
					logger.Error("Store heartbeat failed", log.FieldError, err)
					continue
				}
				logger.Info("Worker heartbeat", "stored_records", len(records))
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
