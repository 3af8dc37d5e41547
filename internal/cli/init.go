// Package cli provides common initialization utilities shared by the
// fintrack binaries.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/classify"
	"fintrack/internal/config"
	"fintrack/internal/log"
)

// SetupLogger initializes structured logging for the given component and
// sets it as the default logger.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// BuildClassifier returns the default keyword classifier, or one built
// from the configured rules file when set.
func BuildClassifier(cfg *config.Config) (*classify.Classifier, error) {
	if cfg.RulesFile == "" {
		return classify.New(), nil
	}
	rules, err := classify.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	return classify.NewWithRules(rules), nil
}

// InitBackend builds the configured transaction store.
// Returns the backend or exits the process on failure.
func InitBackend(logger *log.Logger, cfg *config.Config) *backend.Result {
	be, err := backend.New(cfg, logger.WithComponent(log.ComponentBackend))
	if err != nil {
		logger.Error("Failed to initialize data backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	return be
}
