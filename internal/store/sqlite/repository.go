// Package sqlite persists transactions in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// List implements store.Lister. Ordering is date descending with insertion
// order as tiebreaker, matching the memory backend.
func (r *Repository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, original_description, amount, category, batch_id, created_date
		FROM transactions
		ORDER BY date DESC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx          core.Transaction
			date        string
			category    string
			createdDate string
		)
		if err := rows.Scan(&tx.ID, &date, &tx.Description, &tx.OriginalDescription,
			&tx.Amount, &category, &tx.BatchID, &createdDate); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date, err = core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		cat, ok := core.ParseCategory(category)
		if !ok {
			return nil, fmt.Errorf("stored transaction %s: %w: %q", tx.ID, core.ErrInvalidCategory, category)
		}
		tx.Category = cat
		tx.CreatedDate, err = time.Parse(time.RFC3339Nano, createdDate)
		if err != nil {
			return nil, fmt.Errorf("parse stored created_date %q: %w", createdDate, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// BulkAppend implements store.BulkAppender. The whole batch is written in
// one sql transaction so a failed record leaves nothing behind.
func (r *Repository) BulkAppend(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (id, date, description, original_description, amount, category, batch_id, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	stored := make([]core.Transaction, len(txs))
	for i, tx := range txs {
		tx.ID = uuid.NewString()
		tx.CreatedDate = r.now()
		if _, err := stmt.ExecContext(ctx,
			tx.ID, tx.Date.String(), tx.Description, tx.OriginalDescription,
			tx.Amount, tx.Category.String(), tx.BatchID,
			tx.CreatedDate.Format(time.RFC3339Nano)); err != nil {
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
		stored[i] = tx
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	slog.InfoContext(ctx, "Batch saved to SQLite", "count", len(stored))
	return stored, nil
}

// Clear implements store.Clearer.
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	slog.InfoContext(ctx, "Transaction store cleared")
	return nil
}
