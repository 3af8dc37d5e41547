// Package ingest turns raw statement text into categorized transaction
// batches ready for persistence.
package ingest

import (
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/statement"
)

var (
	ErrMissingDate        = errors.New("row has no date")
	ErrMissingDescription = errors.New("row has no description")
	ErrBadDate            = errors.New("row date is not a valid date")
	ErrBadAmount          = errors.New("row amount is not a number")
)

// Normalize converts one parsed statement row into a transaction. The error
// explains why a row was rejected; callers drop rejected rows and move on,
// they do not fail the batch.
//
// The description doubles as original_description unless the row carries a
// distinct one. A row-supplied category wins over the classifier; an
// unrecognized category value is treated as absent.
func Normalize(row statement.Row, classify func(string) core.Category) (core.Transaction, error) {
	date := row["date"]
	if date == "" {
		return core.Transaction{}, ErrMissingDate
	}
	parsedDate, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", ErrBadDate, date)
	}

	desc := row["description"]
	if desc == "" {
		return core.Transaction{}, ErrMissingDescription
	}

	amount, err := core.ParseAmount(row["amount"])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", ErrBadAmount, row["amount"])
	}

	original := row["original_description"]
	if original == "" {
		original = desc
	}

	category, ok := core.ParseCategory(row["category"])
	if !ok {
		category = classify(desc)
	}

	return core.Transaction{
		Date:                parsedDate,
		Description:         desc,
		OriginalDescription: original,
		Amount:              amount,
		Category:            category,
	}, nil
}
