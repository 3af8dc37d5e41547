package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fintrack/internal/ingest"
	"fintrack/internal/services"
)

var ingestPolicy string

// ingestCmd represents the ingest command.
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a statement file into the local store",
	Long: `Parse a delimited statement file, categorize its rows, and commit
the resulting batch to the configured backend.

The policy flag chooses between appending to the stored records and
replacing them with the new batch.

Example:
  fintrack ingest statement.csv
  fintrack ingest statement.csv --policy replace_all`,
	Args: cobra.ExactArgs(1),
	Run:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPolicy, "policy", "append", "replace policy: append or replace_all")
}

func runIngest(cmd *cobra.Command, args []string) {
	path := args[0]

	cfg, err := loadConfig()
	exitOnError(err, "failed to load configuration")

	exitOnError(ingest.CheckMediaName(path), "unsupported statement file")

	raw, err := os.ReadFile(path)
	exitOnError(err, "failed to read statement file")

	ingestSvc, _, cleanup, err := openServices(cfg)
	exitOnError(err, "failed to open services")
	defer func() { _ = cleanup() }()

	out, err := ingestSvc.Ingest(cmd.Context(), string(raw), services.ParsePolicy(ingestPolicy))
	exitOnError(err, "failed to commit batch")

	if !out.Success() {
		fmt.Fprintf(os.Stderr, "Extraction failed: %s\n", out.Details)
		os.Exit(1)
	}

	fmt.Printf("Ingested %s\n", path)
	fmt.Printf("  rows:     %d\n", out.RowCount)
	fmt.Printf("  accepted: %d\n", len(out.Transactions))
	fmt.Printf("  dropped:  %d\n", out.Dropped)
	if len(out.Transactions) > 0 {
		fmt.Printf("  batch:    %s\n", out.Transactions[0].BatchID)
	}
}
