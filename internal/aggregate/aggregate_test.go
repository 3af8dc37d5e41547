package aggregate

import (
	"math"
	"testing"

	"fintrack/internal/core"
)

func tx(date string, amount float64, cat core.Category) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		Date:     d,
		Amount:   amount,
		Category: cat,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTotals(t *testing.T) {
	records := []core.Transaction{
		tx("2024-01-05", -4.50, core.CategoryFoodDining),
		tx("2024-01-06", 2500.00, core.CategoryIncome),
	}

	if got := TotalExpenses(records); !almostEqual(got, 4.50) {
		t.Fatalf("TotalExpenses = %v, want 4.50", got)
	}
	if got := TotalIncome(records); !almostEqual(got, 2500.00) {
		t.Fatalf("TotalIncome = %v, want 2500.00", got)
	}
	if got := NetBalance(records); !almostEqual(got, 2495.50) {
		t.Fatalf("NetBalance = %v, want 2495.50", got)
	}
}

func TestTotalsEmpty(t *testing.T) {
	if got := TotalExpenses(nil); got != 0 {
		t.Fatalf("TotalExpenses(nil) = %v", got)
	}
	if got := TotalIncome(nil); got != 0 {
		t.Fatalf("TotalIncome(nil) = %v", got)
	}
	if got := NetBalance(nil); got != 0 {
		t.Fatalf("NetBalance(nil) = %v", got)
	}
	if got := CategoryTotals(nil); got != nil {
		t.Fatalf("CategoryTotals(nil) = %v", got)
	}
	if got := MonthlyTotals(nil); got != nil {
		t.Fatalf("MonthlyTotals(nil) = %v", got)
	}
	if got := AverageMonthlySpend(nil); got != 0 {
		t.Fatalf("AverageMonthlySpend(nil) = %v", got)
	}
}

func TestSummarize(t *testing.T) {
	records := []core.Transaction{
		tx("2024-01-05", -4.50, core.CategoryFoodDining),
		tx("2024-01-06", 2500.00, core.CategoryIncome),
		tx("2024-01-07", -100.00, core.CategoryShopping),
	}
	s := Summarize(records)
	if !almostEqual(s.TotalExpenses, 104.50) {
		t.Fatalf("TotalExpenses = %v", s.TotalExpenses)
	}
	if !almostEqual(s.TotalIncome, 2500.00) {
		t.Fatalf("TotalIncome = %v", s.TotalIncome)
	}
	if !almostEqual(s.NetBalance, 2395.50) {
		t.Fatalf("NetBalance = %v", s.NetBalance)
	}
	if s.Count != 3 {
		t.Fatalf("Count = %d", s.Count)
	}
}

func TestCategoryTotals(t *testing.T) {
	records := []core.Transaction{
		tx("2024-01-05", -30, core.CategoryFoodDining),
		tx("2024-01-06", -10, core.CategoryFoodDining),
		tx("2024-01-07", -60, core.CategoryShopping),
		tx("2024-01-08", 2500, core.CategoryIncome), // excluded from spend
	}

	totals := CategoryTotals(records)
	if len(totals) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(totals))
	}
	if totals[0].Category != core.CategoryShopping || !almostEqual(totals[0].Total, 60) {
		t.Fatalf("unexpected first row: %+v", totals[0])
	}
	if totals[1].Category != core.CategoryFoodDining || !almostEqual(totals[1].Total, 40) {
		t.Fatalf("unexpected second row: %+v", totals[1])
	}
	if !almostEqual(totals[0].Percent, 60) || !almostEqual(totals[1].Percent, 40) {
		t.Fatalf("unexpected percentages: %v %v", totals[0].Percent, totals[1].Percent)
	}

	var sum float64
	for _, ct := range totals {
		sum += ct.Percent
	}
	if !almostEqual(sum, 100) {
		t.Fatalf("percentages sum to %v, want 100", sum)
	}
}

func TestMonthlyTotals(t *testing.T) {
	records := []core.Transaction{
		tx("2024-02-10", -20, core.CategoryFoodDining),
		tx("2024-01-05", -30, core.CategoryShopping),
		tx("2024-01-20", -10, core.CategoryFoodDining),
		tx("2024-02-15", 500, core.CategoryIncome), // income never counts as spend
	}

	months := MonthlyTotals(records)
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if months[0].Key != "2024-01" || !almostEqual(months[0].Total, 40) {
		t.Fatalf("unexpected first month: %+v", months[0])
	}
	if months[1].Key != "2024-02" || !almostEqual(months[1].Total, 20) {
		t.Fatalf("unexpected second month: %+v", months[1])
	}
	if months[0].Label != "Jan 2024" {
		t.Fatalf("unexpected label: %q", months[0].Label)
	}
}

func TestMonthlyTotalsSortedAcrossYears(t *testing.T) {
	records := []core.Transaction{
		tx("2024-01-05", -1, core.CategoryOther),
		tx("2023-12-05", -1, core.CategoryOther),
		tx("2023-02-05", -1, core.CategoryOther),
	}
	months := MonthlyTotals(records)
	want := []string{"2023-02", "2023-12", "2024-01"}
	for i, m := range months {
		if m.Key != want[i] {
			t.Fatalf("month %d = %q, want %q", i, m.Key, want[i])
		}
	}
}

func TestBudget(t *testing.T) {
	records := []core.Transaction{
		tx("2024-01-05", -300, core.CategoryShopping),
	}

	t.Run("under budget", func(t *testing.T) {
		status := Budget(records, 1000)
		if !almostEqual(status.Spent, 300) || !almostEqual(status.Remaining, 700) {
			t.Fatalf("unexpected status: %+v", status)
		}
		if !almostEqual(status.PercentUsed, 30) || status.OverBudget {
			t.Fatalf("unexpected status: %+v", status)
		}
	})

	t.Run("over budget caps percent", func(t *testing.T) {
		status := Budget(records, 200)
		if !status.OverBudget {
			t.Fatal("expected over budget")
		}
		if !almostEqual(status.PercentUsed, 100) {
			t.Fatalf("PercentUsed = %v, want capped at 100", status.PercentUsed)
		}
		if !almostEqual(status.Remaining, -100) {
			t.Fatalf("Remaining = %v", status.Remaining)
		}
	})

	t.Run("zero limit means no budget", func(t *testing.T) {
		status := Budget(records, 0)
		if status.PercentUsed != 0 || status.OverBudget {
			t.Fatalf("unexpected status with zero limit: %+v", status)
		}
	})
}

func TestAverageMonthlySpend(t *testing.T) {
	records := []core.Transaction{
		tx("2024-01-05", -30, core.CategoryOther),
		tx("2024-02-05", -10, core.CategoryOther),
	}
	if got := AverageMonthlySpend(records); !almostEqual(got, 20) {
		t.Fatalf("AverageMonthlySpend = %v, want 20", got)
	}
}

func TestAggregationEmptyTolerance(t *testing.T) {
	empty := []core.Transaction{}
	_ = Summarize(empty)
	status := Budget(empty, 500)
	if status.Spent != 0 || status.OverBudget {
		t.Fatalf("unexpected budget on empty input: %+v", status)
	}
	if !almostEqual(status.Remaining, 500) {
		t.Fatalf("Remaining = %v", status.Remaining)
	}
}
