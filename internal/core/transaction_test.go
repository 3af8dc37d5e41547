package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || int(d.Month()) != 1 || d.Day() != 5 {
		t.Fatalf("unexpected date: %v", d)
	}
	if got := d.MonthKey(); got != "2024-01" {
		t.Fatalf("MonthKey = %q, want 2024-01", got)
	}

	bads := []string{"", "2024-13-01", "05/01/2024", "not a date", "2024-02-30"}
	for _, in := range bads {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("ParseDate(%q) expected error", in)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 3, 9)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-09"` {
		t.Fatalf("unexpected JSON: %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2024, 1, 5),
		Description: "Starbucks Coffee",
		Amount:      -4.50,
		Category:    CategoryFoodDining,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Description: "a", Amount: 1, Category: CategoryOther}, // zero date
		{Date: NewDate(2024, 1, 1), Description: "  ", Amount: 1, Category: CategoryOther},
		{Date: NewDate(2024, 1, 1), Description: "a", Amount: math.NaN(), Category: CategoryOther},
		{Date: NewDate(2024, 1, 1), Description: "a", Amount: math.Inf(1), Category: CategoryOther},
		{Date: NewDate(2024, 1, 1), Description: "a", Amount: 1, Category: Category("snacks")},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory(" Food_Dining "); !ok || c != CategoryFoodDining {
		t.Fatalf("unexpected: %v %v", c, ok)
	}
	if _, ok := ParseCategory("snacks"); ok {
		t.Fatalf("expected unknown category to fail")
	}
	for _, c := range Categories() {
		if !c.Valid() {
			t.Fatalf("category %q should be valid", c)
		}
	}
	if n := len(Categories()); n != 12 {
		t.Fatalf("closed set size = %d, want 12", n)
	}
}
