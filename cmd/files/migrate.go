package main

import (
	"errors"

	"github.com/spf13/cobra"
	repopg "github.com/tendant/simple-files/pkg/simplefiles/repo/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Create or upgrade the files table in the database named by DATABASE_URL.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.UseMemoryDatabase() {
			return errors.New("DATABASE_URL must point at postgres to run migrations")
		}
		return repopg.Migrate(cfg.DatabaseURL, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
