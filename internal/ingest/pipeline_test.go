package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/classify"
	"fintrack/internal/core"
)

func newTestPipeline(millis int64) *Pipeline {
	c := classify.New()
	return NewWithClock(c.Classify, func() time.Time {
		return time.UnixMilli(millis)
	})
}

func TestIngestScenario(t *testing.T) {
	raw := "date,description,amount\n" +
		"2024-01-05,Starbucks Coffee,-4.50\n" +
		"2024-01-06,Salary Deposit,2500.00\n" +
		"2024-01-07,,-10.00"

	out := newTestPipeline(1700000000000).Ingest(raw)

	require.True(t, out.Success())
	require.Len(t, out.Transactions, 2, "row without description must be dropped")
	assert.Equal(t, 3, out.RowCount)
	assert.Equal(t, 1, out.Dropped)

	first := out.Transactions[0]
	assert.Equal(t, core.CategoryFoodDining, first.Category)
	assert.Equal(t, -4.50, first.Amount)
	assert.Equal(t, "Starbucks Coffee", first.Description)
	assert.Equal(t, "Starbucks Coffee", first.OriginalDescription)

	second := out.Transactions[1]
	assert.Equal(t, core.CategoryIncome, second.Category)
	assert.Equal(t, 2500.00, second.Amount)

	for _, tx := range out.Transactions {
		assert.Equal(t, "1700000000000", tx.BatchID)
	}
}

func TestIngestDropsMalformedRows(t *testing.T) {
	raw := "date,description,amount\n" +
		"not-a-date,Coffee,-4.50\n" +
		"2024-01-06,Lunch,abc\n" +
		",Dinner,-12.00\n" +
		"2024-01-08,Groceries,-30.00"

	out := newTestPipeline(1).Ingest(raw)

	require.True(t, out.Success())
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, 4, out.RowCount)
	assert.Equal(t, 3, out.Dropped)
	assert.Equal(t, "Groceries", out.Transactions[0].Description)
}

func TestIngestAcceptedNeverExceedsRows(t *testing.T) {
	raw := "date,description,amount\n" +
		"2024-01-05,A,-1\n" +
		"2024-01-06,B,-2\n"

	out := newTestPipeline(1).Ingest(raw)
	require.True(t, out.Success())
	assert.LessOrEqual(t, len(out.Transactions), out.RowCount)
}

func TestIngestEmptyInput(t *testing.T) {
	out := newTestPipeline(1).Ingest("")
	require.True(t, out.Success())
	assert.Empty(t, out.Transactions)
	assert.Zero(t, out.RowCount)
}

func TestIngestRejectsUndecodableInput(t *testing.T) {
	out := newTestPipeline(1).Ingest("date,description,amount\n\xff\xfe")
	require.False(t, out.Success())
	assert.Equal(t, StatusError, out.Status)
	assert.NotEmpty(t, out.Details)
	assert.Empty(t, out.Transactions)
}

func TestIngestDistinctBatchIDs(t *testing.T) {
	raw := "date,description,amount\n2024-01-05,Coffee,-4.50"

	c := classify.New()
	millis := int64(1700000000000)
	p := NewWithClock(c.Classify, func() time.Time {
		millis++
		return time.UnixMilli(millis)
	})

	first := p.Ingest(raw)
	second := p.Ingest(raw)
	require.True(t, first.Success())
	require.True(t, second.Success())
	assert.NotEqual(t, first.Transactions[0].BatchID, second.Transactions[0].BatchID)
}

func TestIngestLeadingFloatAmounts(t *testing.T) {
	raw := "date,description,amount\n" +
		"2024-01-05,Coffee,-4.50 CHF\n" +
		"2024-01-06,Gadget,12.99usd"

	out := newTestPipeline(1).Ingest(raw)
	require.True(t, out.Success())
	require.Len(t, out.Transactions, 2)
	assert.Equal(t, -4.50, out.Transactions[0].Amount)
	assert.Equal(t, 12.99, out.Transactions[1].Amount)
}

func TestIngestExplicitCategoryColumn(t *testing.T) {
	raw := "date,description,amount,category\n" +
		"2024-01-05,Monthly rent,-1200,utilities\n" +
		"2024-01-06,Starbucks,-4.50,\n" +
		"2024-01-07,Something,-1,bogus"

	out := newTestPipeline(1).Ingest(raw)
	require.True(t, out.Success())
	require.Len(t, out.Transactions, 3)
	// Explicit category wins, including ones the classifier never emits.
	assert.Equal(t, core.CategoryUtilities, out.Transactions[0].Category)
	// Empty or unrecognized values fall back to the classifier.
	assert.Equal(t, core.CategoryFoodDining, out.Transactions[1].Category)
	assert.Equal(t, core.CategoryOther, out.Transactions[2].Category)
}
