package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/aggregate"
)

var statsBudget float64

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display spending statistics",
	Long: `Display aggregate statistics over the stored transactions.

Shows:
- Total expenses, income and net balance
- Spending per category with percentages
- Monthly expense totals
- Budget status when a limit is configured

Example:
  fintrack stats
  fintrack stats --budget 1500`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().Float64Var(&statsBudget, "budget", 0, "monthly budget limit (default from DEFAULT_BUDGET)")
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err, "failed to load configuration")

	_, querySvc, cleanup, err := openServices(cfg)
	exitOnError(err, "failed to open services")
	defer func() { _ = cleanup() }()

	ctx := cmd.Context()

	records, err := querySvc.List(ctx)
	exitOnError(err, "failed to list transactions")

	summary, err := querySvc.Summary(ctx)
	exitOnError(err, "failed to compute summary")

	fmt.Println("\n=== Spending Summary ===")
	fmt.Printf("Transactions:   %d\n", summary.Count)
	fmt.Printf("Total expenses: %.2f\n", summary.TotalExpenses)
	fmt.Printf("Total income:   %.2f\n", summary.TotalIncome)
	fmt.Printf("Net balance:    %.2f\n", summary.NetBalance)

	categories, err := querySvc.CategoryBreakdown(ctx)
	exitOnError(err, "failed to compute category breakdown")

	if len(categories) > 0 {
		fmt.Println("\n=== By Category ===")
		for _, c := range categories {
			fmt.Printf("%-16s %10.2f  %5.1f%%\n", c.Category, c.Total, c.Percent)
		}
	}

	months, err := querySvc.MonthlyBreakdown(ctx)
	exitOnError(err, "failed to compute monthly breakdown")

	if len(months) > 0 {
		fmt.Println("\n=== By Month ===")
		for _, m := range months {
			fmt.Printf("%-10s %10.2f\n", m.Label, m.Total)
		}
		fmt.Printf("%-10s %10.2f\n", "average", aggregate.AverageMonthlySpend(records))
	}

	limit := statsBudget
	if limit <= 0 {
		limit = cfg.DefaultBudget
	}
	if limit > 0 {
		status, err := querySvc.BudgetStatus(ctx, limit)
		exitOnError(err, "failed to compute budget status")

		fmt.Println("\n=== Budget ===")
		fmt.Printf("Limit:     %.2f\n", status.Limit)
		fmt.Printf("Spent:     %.2f\n", status.Spent)
		fmt.Printf("Remaining: %.2f\n", status.Remaining)
		fmt.Printf("Used:      %.1f%%\n", status.PercentUsed)
		if status.OverBudget {
			fmt.Println("Status:    OVER BUDGET")
		}
	}

	fmt.Println()
}
