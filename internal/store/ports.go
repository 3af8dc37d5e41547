package store

import (
	"context"

	"fintrack/internal/core"
)

// Ports for transaction persistence.
type (
	// Lister returns all stored transactions sorted by date descending,
	// newest first. Two calls without intervening writes return the same
	// ordered sequence.
	Lister interface {
		List(ctx context.Context) ([]core.Transaction, error)
	}

	// BulkAppender persists a batch of transactions in one call. The store
	// assigns each record its identifier and creation timestamp; the input
	// slice is not mutated. Either all records are appended or none.
	BulkAppender interface {
		BulkAppend(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error)
	}

	// Clearer removes every stored transaction.
	Clearer interface {
		Clear(ctx context.Context) error
	}

	// TransactionStore is the full persistence contract the ingestion and
	// query services depend on.
	TransactionStore interface {
		Lister
		BulkAppender
		Clearer
	}
)
