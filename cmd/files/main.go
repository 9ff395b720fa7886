package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/tendant/simple-files/pkg/simplefiles/config"
)

var (
	envFile    string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:           "files",
	Short:         "Upload, list and download files backed by S3 and Postgres",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			_ = godotenv.Load()
			return nil
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default .env when present)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML/TOML/JSON config file; environment variables take precedence")
}

// loadConfig reads the server configuration and builds the root logger.
func loadConfig() (*config.ServerConfig, *slog.Logger, error) {
	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithFile(configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cfg), nil
}

// newLogger uses a colored console handler in development and JSON elsewhere.
func newLogger(cfg *config.ServerConfig) *slog.Logger {
	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.SlogLevel(),
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
