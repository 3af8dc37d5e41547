package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
)

type (
	// Date is a calendar date. It marshals to and from the ISO 8601
	// YYYY-MM-DD form used by statement exports.
	Date struct {
		time.Time
	}

	// Transaction is one validated, categorized statement record.
	// ID and CreatedDate are assigned by the store at persistence time;
	// BatchID is assigned by the ingestion pipeline.
	Transaction struct {
		ID                  string    `json:"id,omitempty"`
		Date                Date      `json:"date"`
		Description         string    `json:"description"`
		OriginalDescription string    `json:"original_description"`
		Amount              float64   `json:"amount"`
		Category            Category  `json:"category"`
		BatchID             string    `json:"batch_id,omitempty"`
		CreatedDate         time.Time `json:"created_date"`
	}
)

// NewDate creates a Date from year, month and day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthKey returns the zero-padded YYYY-MM key of the date's calendar month.
// The padding makes lexicographic order equal chronological order.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsExpense reports whether the record represents money leaving the account.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// IsIncome reports whether the record represents money entering the account.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
