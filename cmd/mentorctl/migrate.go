package main

import (
	"context"
	"fmt"
	"time"

	"mentorbook/internal/migrations"
	"mentorbook/pkg/config"

	"github.com/spf13/cobra"
)

const migrateTimeout = 120 * time.Second

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema of the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load("mentorctl")
			cfg.SetStore()
			defer cfg.GracefulShutdown()

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			if err := migrations.Run(ctx, cfg); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s store\n", cfg.StoreDriver)
			return nil
		},
	}
}
