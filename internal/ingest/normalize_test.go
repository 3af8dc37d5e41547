package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/classify"
	"fintrack/internal/core"
	"fintrack/internal/statement"
)

func TestNormalizeRejections(t *testing.T) {
	c := classify.New()

	tests := []struct {
		name string
		row  statement.Row
		want error
	}{
		{"missing date", statement.Row{"description": "Coffee", "amount": "-4.50"}, ErrMissingDate},
		{"bad date", statement.Row{"date": "05/01/2024", "description": "Coffee", "amount": "-4.50"}, ErrBadDate},
		{"missing description", statement.Row{"date": "2024-01-05", "amount": "-4.50"}, ErrMissingDescription},
		{"bad amount", statement.Row{"date": "2024-01-05", "description": "Coffee", "amount": "abc"}, ErrBadAmount},
		{"missing amount", statement.Row{"date": "2024-01-05", "description": "Coffee"}, ErrBadAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.row, c.Classify)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeOriginalDescription(t *testing.T) {
	c := classify.New()

	tx, err := Normalize(statement.Row{
		"date":        "2024-01-05",
		"description": "Starbucks Coffee",
		"amount":      "-4.50",
	}, c.Classify)
	require.NoError(t, err)
	assert.Equal(t, "Starbucks Coffee", tx.OriginalDescription)

	tx, err = Normalize(statement.Row{
		"date":                 "2024-01-05",
		"description":          "Coffee",
		"original_description": "STARBUCKS #1234 SEATTLE WA",
		"amount":               "-4.50",
	}, c.Classify)
	require.NoError(t, err)
	assert.Equal(t, "STARBUCKS #1234 SEATTLE WA", tx.OriginalDescription)
	assert.Equal(t, "Coffee", tx.Description)
}

func TestNormalizeClassifies(t *testing.T) {
	c := classify.New()
	tx, err := Normalize(statement.Row{
		"date":        "2024-01-05",
		"description": "Netflix.com",
		"amount":      "-15.99",
	}, c.Classify)
	require.NoError(t, err)
	assert.Equal(t, core.CategorySubscriptions, tx.Category)
}
