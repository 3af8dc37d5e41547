package ingest

import (
	"errors"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"fintrack/internal/core"
	"fintrack/internal/statement"
)

// ErrNotText reports input that is not decodable statement text. It is
// raised before any row is parsed, so a batch failing this check commits
// nothing.
var ErrNotText = errors.New("input is not valid text")

// Status values carried by an Outcome.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Outcome is the result of one ingestion call. Status is "success" with
// the accepted transactions, or "error" with Details explaining why
// nothing was produced.
type Outcome struct {
	Status       string             `json:"status"`
	Transactions []core.Transaction `json:"transactions,omitempty"`
	Details      string             `json:"details,omitempty"`

	// RowCount and Dropped describe the batch: data rows seen and rows
	// excluded as malformed. Accepted = RowCount - Dropped.
	RowCount int `json:"row_count"`
	Dropped  int `json:"dropped"`
}

// Success reports whether the outcome carries an accepted batch.
func (o Outcome) Success() bool { return o.Status == StatusSuccess }

// Pipeline orchestrates parsing, normalization and classification for one
// statement at a time. It holds no store reference; committing the batch
// is the caller's job.
type Pipeline struct {
	classify func(string) core.Category
	now      func() time.Time
}

// New builds a pipeline around the given classifier function.
func New(classify func(string) core.Category) *Pipeline {
	return &Pipeline{classify: classify, now: time.Now}
}

// NewWithClock injects the batch id clock, for deterministic tests.
func NewWithClock(classify func(string) core.Category, now func() time.Time) *Pipeline {
	return &Pipeline{classify: classify, now: now}
}

// Ingest parses raw statement text into a transaction batch. Malformed
// rows are dropped and counted, never failing the call; undecodable input
// fails the whole call with an error outcome.
//
// Every accepted transaction shares one batch id derived from the current
// timestamp, so two sequential ingestions of the same text yield distinct
// batches.
func (p *Pipeline) Ingest(raw string) Outcome {
	if !utf8.ValidString(raw) {
		slog.Warn("Ingestion rejected undecodable input")
		return Outcome{Status: StatusError, Details: ErrNotText.Error()}
	}

	batchID := strconv.FormatInt(p.now().UnixMilli(), 10)

	sc := statement.NewScanner(raw)
	var (
		accepted []core.Transaction
		rows     int
		dropped  int
	)
	for sc.Scan() {
		rows++
		tx, err := Normalize(sc.Row(), p.classify)
		if err != nil {
			dropped++
			slog.Debug("Row dropped during ingestion", "row", rows, "reason", err)
			continue
		}
		tx.BatchID = batchID
		accepted = append(accepted, tx)
	}

	slog.Info("Statement ingested",
		"batch_id", batchID,
		"rows", rows,
		"accepted", len(accepted),
		"dropped", dropped)

	return Outcome{
		Status:       StatusSuccess,
		Transactions: accepted,
		RowCount:     rows,
		Dropped:      dropped,
	}
}
