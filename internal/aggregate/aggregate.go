// Package aggregate computes spending views over a transaction collection.
//
// Every function here is a pure, single-pass fold over its input slice and
// tolerates the empty collection, so callers never need a zero-records
// special case.
package aggregate

import (
	"math"
	"sort"

	"fintrack/internal/core"
)

// CategoryTotal is one row of the per-category spend breakdown.
type CategoryTotal struct {
	Category core.Category `json:"category"`
	Total    float64       `json:"total"`
	Percent  float64       `json:"percent"`
}

// MonthlyTotal is one row of the per-month spend series. Key is the
// zero-padded YYYY-MM month identifier, Label a human-readable form.
type MonthlyTotal struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// BudgetStatus reports spend against a monthly budget limit.
type BudgetStatus struct {
	Limit       float64 `json:"limit"`
	Spent       float64 `json:"spent"`
	Remaining   float64 `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
	OverBudget  bool    `json:"over_budget"`
}

// Summary bundles the headline numbers for the dashboard view.
type Summary struct {
	TotalExpenses float64 `json:"total_expenses"`
	TotalIncome   float64 `json:"total_income"`
	NetBalance    float64 `json:"net_balance"`
	Count         int     `json:"count"`
}

// TotalExpenses sums the absolute value of all negative amounts.
func TotalExpenses(records []core.Transaction) float64 {
	var total float64
	for _, tx := range records {
		if tx.Amount < 0 {
			total += math.Abs(tx.Amount)
		}
	}
	return total
}

// TotalIncome sums all positive amounts.
func TotalIncome(records []core.Transaction) float64 {
	var total float64
	for _, tx := range records {
		if tx.Amount > 0 {
			total += tx.Amount
		}
	}
	return total
}

// NetBalance is income minus expenses. Negative means a deficit.
func NetBalance(records []core.Transaction) float64 {
	return TotalIncome(records) - TotalExpenses(records)
}

// Summarize computes the headline numbers in one pass.
func Summarize(records []core.Transaction) Summary {
	var s Summary
	for _, tx := range records {
		switch {
		case tx.Amount < 0:
			s.TotalExpenses += math.Abs(tx.Amount)
		case tx.Amount > 0:
			s.TotalIncome += tx.Amount
		}
	}
	s.NetBalance = s.TotalIncome - s.TotalExpenses
	s.Count = len(records)
	return s
}

// CategoryTotals breaks expense spend down by category. Income records are
// excluded, so a category that only ever receives positive amounts does not
// appear. Percentages are relative to the categories present; with no
// expense records the result is empty and no percentage is computed.
// Output is sorted by total descending, ties broken by category name for
// a stable order.
func CategoryTotals(records []core.Transaction) []CategoryTotal {
	sums := make(map[core.Category]float64)
	var grand float64
	for _, tx := range records {
		if tx.Amount >= 0 {
			continue
		}
		abs := math.Abs(tx.Amount)
		sums[tx.Category] += abs
		grand += abs
	}
	if len(sums) == 0 {
		return nil
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for cat, sum := range sums {
		totals = append(totals, CategoryTotal{
			Category: cat,
			Total:    sum,
			Percent:  sum / grand * 100,
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// MonthlyTotals groups expense spend by calendar month, sorted ascending
// by the YYYY-MM key. Zero-padding makes the lexicographic sort correct.
func MonthlyTotals(records []core.Transaction) []MonthlyTotal {
	sums := make(map[string]float64)
	labels := make(map[string]string)
	for _, tx := range records {
		if tx.Amount >= 0 {
			continue
		}
		key := tx.Date.MonthKey()
		sums[key] += math.Abs(tx.Amount)
		if _, ok := labels[key]; !ok {
			labels[key] = tx.Date.Format("Jan 2006")
		}
	}
	if len(sums) == 0 {
		return nil
	}

	totals := make([]MonthlyTotal, 0, len(sums))
	for key, sum := range sums {
		totals = append(totals, MonthlyTotal{Key: key, Label: labels[key], Total: sum})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Key < totals[j].Key })
	return totals
}

// Budget compares total spend against a limit. A non-positive limit means
// no budget is configured: percent used stays at zero and the over-budget
// flag is never raised.
func Budget(records []core.Transaction, limit float64) BudgetStatus {
	spent := TotalExpenses(records)
	status := BudgetStatus{
		Limit:     limit,
		Spent:     spent,
		Remaining: limit - spent,
	}
	if limit > 0 {
		status.PercentUsed = math.Min(spent/limit*100, 100)
		status.OverBudget = status.Remaining < 0
	}
	return status
}

// AverageMonthlySpend is total expense spend divided by the number of
// distinct expense months, zero when there are none.
func AverageMonthlySpend(records []core.Transaction) float64 {
	months := MonthlyTotals(records)
	if len(months) == 0 {
		return 0
	}
	var total float64
	for _, m := range months {
		total += m.Total
	}
	return total / float64(len(months))
}
