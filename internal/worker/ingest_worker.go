// Package worker processes queued statement jobs: fetch, ingest, commit,
// and optionally mirror the batch to Google Sheets.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ingest"
	"fintrack/internal/services"
)

// Exporter mirrors a committed batch to an external sink.
type Exporter interface {
	ExportBatch(ctx context.Context, txs []core.Transaction) error
}

// IngestWorker consumes statement jobs from the queue and runs them
// through the ingestion service.
type IngestWorker struct {
	service  *services.IngestService
	fetchers map[string]ingest.Fetcher
	exporter Exporter
}

func NewIngestWorker(service *services.IngestService, exporter Exporter) *IngestWorker {
	return &IngestWorker{
		service: service,
		fetchers: map[string]ingest.Fetcher{
			"file": ingest.FileFetcher{},
			"http": ingest.HTTPFetcher{},
		},
		exporter: exporter,
	}
}

// HandleJob processes one statement job. Returning an error requeues the
// job; a statement whose extraction fails is not requeued because retrying
// the same text cannot succeed.
func (w *IngestWorker) HandleJob(ctx context.Context, msg *amqp.StatementJobMessage) error {
	slog.InfoContext(ctx, "Processing statement job",
		"source", msg.Source,
		"policy", msg.Policy)

	raw, err := w.fetch(ctx, msg.Source)
	if err != nil {
		return fmt.Errorf("fetch statement %s: %w", msg.Source, err)
	}

	out, err := w.service.Ingest(ctx, raw, services.ParsePolicy(msg.Policy))
	if err != nil {
		return fmt.Errorf("commit batch from %s: %w", msg.Source, err)
	}
	if !out.Success() {
		slog.ErrorContext(ctx, "Statement extraction failed",
			"source", msg.Source,
			"details", out.Details)
		return nil
	}

	if w.exporter != nil && len(out.Transactions) > 0 {
		if err := w.exporter.ExportBatch(ctx, out.Transactions); err != nil {
			// The batch is committed locally. Log and move on rather than
			// requeueing a job that would duplicate it.
			slog.ErrorContext(ctx, "Failed to export batch",
				"batch_id", out.Transactions[0].BatchID,
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Statement job completed",
		"source", msg.Source,
		"accepted", len(out.Transactions),
		"dropped", out.Dropped)
	return nil
}

func (w *IngestWorker) fetch(ctx context.Context, source string) (string, error) {
	scheme := "file"
	if len(source) > 4 && source[:4] == "http" {
		scheme = "http"
	}
	fetcher, ok := w.fetchers[scheme]
	if !ok {
		return "", fmt.Errorf("no fetcher for source %s", source)
	}
	return fetcher.Fetch(ctx, source)
}

// Run consumes jobs until the context is cancelled.
func (w *IngestWorker) Run(ctx context.Context, client *amqp.Client, consumerTag string) error {
	return client.ConsumeStatementJobs(ctx, consumerTag, func(msg *amqp.StatementJobMessage) error {
		return w.HandleJob(ctx, msg)
	})
}
