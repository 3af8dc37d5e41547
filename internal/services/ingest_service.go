// Package services orchestrates the ingestion pipeline, the transaction
// store and the message queue behind one application-facing API.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/aggregate"
	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ingest"
	"fintrack/internal/store"
)

// ReplacePolicy decides what happens to existing records when a new batch
// is committed. The choice belongs to the caller, never to the pipeline.
type ReplacePolicy int

const (
	// PolicyAppend keeps existing records and adds the batch.
	PolicyAppend ReplacePolicy = iota
	// PolicyReplaceAll clears the store before adding the batch.
	PolicyReplaceAll
)

func (p ReplacePolicy) String() string {
	if p == PolicyReplaceAll {
		return "replace_all"
	}
	return "append"
}

// ParsePolicy maps a wire value to a policy, defaulting to append.
func ParsePolicy(s string) ReplacePolicy {
	if s == "replace_all" || s == "replace" {
		return PolicyReplaceAll
	}
	return PolicyAppend
}

// IngestService runs statements through the pipeline and commits accepted
// batches to the store.
type IngestService struct {
	pipeline   *ingest.Pipeline
	store      store.TransactionStore
	amqpClient *amqp.Client
}

func NewIngestService(pipeline *ingest.Pipeline, st store.TransactionStore, amqpClient *amqp.Client) *IngestService {
	return &IngestService{
		pipeline:   pipeline,
		store:      st,
		amqpClient: amqpClient,
	}
}

// Ingest extracts a batch from raw statement text and commits it under the
// given policy. The store is only touched after extraction succeeds, so a
// failed extraction leaves existing records exactly as they were, even
// under the replace-all policy.
func (s *IngestService) Ingest(ctx context.Context, raw string, policy ReplacePolicy) (ingest.Outcome, error) {
	out := s.pipeline.Ingest(raw)
	if !out.Success() {
		return out, nil
	}

	if policy == PolicyReplaceAll {
		if err := s.store.Clear(ctx); err != nil {
			return ingest.Outcome{}, fmt.Errorf("clear store: %w", err)
		}
	}

	stored, err := s.store.BulkAppend(ctx, out.Transactions)
	if err != nil {
		return ingest.Outcome{}, fmt.Errorf("append batch: %w", err)
	}
	out.Transactions = stored

	if len(stored) > 0 {
		s.publishBatchIngested(ctx, stored[0].BatchID, len(stored))
	}

	slog.InfoContext(ctx, "Batch committed",
		"policy", policy.String(),
		"accepted", len(stored),
		"dropped", out.Dropped)

	return out, nil
}

func (s *IngestService) publishBatchIngested(ctx context.Context, batchID string, count int) {
	if s.amqpClient == nil {
		return
	}
	// Best effort. The batch is already committed locally.
	if err := s.amqpClient.PublishBatchIngested(ctx, batchID, count); err != nil {
		slog.ErrorContext(ctx, "Failed to publish batch ingested event",
			"batch_id", batchID, "error", err)
	}
}

// EnqueueStatementJob hands a statement source to the worker queue instead
// of ingesting inline.
func (s *IngestService) EnqueueStatementJob(ctx context.Context, source string, policy ReplacePolicy) error {
	if s.amqpClient == nil {
		return fmt.Errorf("no message queue configured")
	}
	return s.amqpClient.PublishStatementJob(ctx, source, policy.String())
}

// Close releases the queue connection. The store is owned by the caller.
func (s *IngestService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
	}
	return nil
}

// QueryService answers dashboard reads over the stored transactions.
type QueryService struct {
	store store.TransactionStore
}

func NewQueryService(st store.TransactionStore) *QueryService {
	return &QueryService{store: st}
}

// List returns all transactions, newest first.
func (s *QueryService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.List(ctx)
}

// Summary computes the headline totals.
func (s *QueryService) Summary(ctx context.Context) (aggregate.Summary, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return aggregate.Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	return aggregate.Summarize(records), nil
}

// CategoryBreakdown computes per-category spend with percentages.
func (s *QueryService) CategoryBreakdown(ctx context.Context) ([]aggregate.CategoryTotal, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return aggregate.CategoryTotals(records), nil
}

// MonthlyBreakdown computes per-month spend, oldest month first.
func (s *QueryService) MonthlyBreakdown(ctx context.Context) ([]aggregate.MonthlyTotal, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return aggregate.MonthlyTotals(records), nil
}

// BudgetStatus compares spend against the given limit.
func (s *QueryService) BudgetStatus(ctx context.Context, limit float64) (aggregate.BudgetStatus, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return aggregate.BudgetStatus{}, fmt.Errorf("list transactions: %w", err)
	}
	return aggregate.Budget(records, limit), nil
}

// Clear removes every stored transaction.
func (s *QueryService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}
