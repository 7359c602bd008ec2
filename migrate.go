package main

import (
	"fmt"

	"replyforge/config"
	"replyforge/database"
	"replyforge/internal/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDatabaseEnv()
			logger.Init(config.LOG_LEVEL, !config.IsProduction())

			db, err := database.Open(config.DB_URL)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info().Msg("database schema up to date")
			return nil
		},
	}
}
