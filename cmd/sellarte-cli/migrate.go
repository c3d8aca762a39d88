package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sellarte/internal/migrations"
	"sellarte/internal/platform/config"
	"sellarte/internal/platform/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			db, err := postgres.OpenSQL(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrations.Up(db); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}
