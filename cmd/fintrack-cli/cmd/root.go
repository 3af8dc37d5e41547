// Package cmd provides CLI commands for fintrack.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/ingest"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

var (
	rulesFile string
	debug     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Ingest bank statements and report spending",
	Long: `fintrack is a CLI for the statement ingestion pipeline.

It supports:
- Ingesting delimited statement files into the local store
- Enqueueing statement jobs for the background worker
- Reporting spending summaries, category and monthly breakdowns

Example:
  fintrack ingest statement.csv --policy replace_all
  fintrack stats --budget 1500`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.LoadEnvFile()

		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger := log.New(log.Config{
			Level:     logLevel,
			Component: log.ComponentCLI,
			Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}),
		})
		log.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "classification rules file (default from RULES_FILE)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(enqueueCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig loads and validates configuration, applying CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if rulesFile != "" {
		cfg.RulesFile = rulesFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openServices wires a local ingestion and query service pair against the
// configured backend. The returned cleanup must run before exit.
func openServices(cfg *config.Config) (*services.IngestService, *services.QueryService, backend.CleanupFunc, error) {
	classifier, err := cli.BuildClassifier(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load rules %s: %w", cfg.RulesFile, err)
	}

	logger := log.New(log.Config{Component: log.ComponentBackend})
	be, err := backend.New(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize backend: %w", err)
	}

	pipeline := ingest.New(classifier.Classify)
	return services.NewIngestService(pipeline, be.Store, nil), services.NewQueryService(be.Store), be.Cleanup, nil
}

// exitOnError logs the error and exits with a non-zero status.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
