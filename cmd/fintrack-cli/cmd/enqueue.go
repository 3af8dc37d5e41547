package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/amqp"
	"fintrack/internal/services"
)

var enqueuePolicy string

// enqueueCmd represents the enqueue command.
var enqueueCmd = &cobra.Command{
	Use:   "enqueue <source>",
	Short: "Queue a statement job for the background worker",
	Long: `Publish a statement job to the broker. The worker fetches the
source, which is either a local file path or an HTTP URL, and commits
the batch on its side.

Requires AMQP_URL to be set.

Example:
  fintrack enqueue /data/statements/january.csv
  fintrack enqueue https://bank.example.com/export.csv --policy replace_all`,
	Args: cobra.ExactArgs(1),
	Run:  runEnqueue,
}

func init() {
	enqueueCmd.Flags().StringVar(&enqueuePolicy, "policy", "append", "replace policy: append or replace_all")
}

func runEnqueue(cmd *cobra.Command, args []string) {
	source := args[0]

	cfg, err := loadConfig()
	exitOnError(err, "failed to load configuration")

	if cfg.AMQPURL == "" {
		exitOnError(fmt.Errorf("AMQP_URL is not set"), "broker not configured")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	exitOnError(err, "failed to connect to broker")
	defer client.Close()

	policy := services.ParsePolicy(enqueuePolicy)
	err = client.PublishStatementJob(cmd.Context(), source, policy.String())
	exitOnError(err, "failed to publish statement job")

	fmt.Printf("Queued %s (policy %s)\n", source, policy)
}
