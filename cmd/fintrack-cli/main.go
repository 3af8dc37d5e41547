package main

import (
	"os"

	"fintrack/cmd/fintrack-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
