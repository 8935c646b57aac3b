package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infralens/api/internal/config"
	"github.com/infralens/api/internal/database"
)

func newMigrateCommand() *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			if down > 0 {
				return database.RollbackMigrations(cfg.DatabaseURL, down, logger)
			}
			return database.RunMigrations(cfg.DatabaseURL, logger)
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "Roll back this many migrations instead of applying")

	return cmd
}
