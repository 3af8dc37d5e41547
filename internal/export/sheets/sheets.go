// Package sheets mirrors committed transaction batches into a Google
// spreadsheet, one row per transaction.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/config"
	"fintrack/internal/core"
)

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromConfig creates an exporter from the sheets settings in cfg.
// Returns nil without error when no spreadsheet is configured, so callers
// can treat export as an optional feature.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Exporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, nil
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets exporter initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

func loadCredentials(cfg *config.Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.GoogleCredentialsJSON) != "":
		return []byte(cfg.GoogleCredentialsJSON), nil
	case cfg.GoogleCredentialsFile != "":
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing Google credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
	}
}

// ExportBatch appends the transactions to the configured sheet. Row layout
// is date, description, original description, amount, category, batch id.
func (e *Exporter) ExportBatch(ctx context.Context, txs []core.Transaction) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(txs) == 0 {
		return nil
	}

	values := make([][]any, len(txs))
	for i, tx := range txs {
		values[i] = []any{
			tx.Date.String(),
			tx.Description,
			tx.OriginalDescription,
			tx.Amount,
			tx.Category.String(),
			tx.BatchID,
		}
	}

	rng := fmt.Sprintf("%s!A:F", e.sheetName)
	vr := &gsheet.ValueRange{Values: values}

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append rows to sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Batch exported to Google Sheets",
		"sheet", e.sheetName,
		"rows", len(txs),
		"batch_id", txs[0].BatchID)
	return nil
}
