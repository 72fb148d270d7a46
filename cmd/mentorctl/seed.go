package main

import (
	"context"
	"fmt"

	bookingrepo "mentorbook/internal/bookings/repository"
	mentorrepo "mentorbook/internal/mentors/repository"
	"mentorbook/internal/migrations"
	"mentorbook/internal/seed"
	"mentorbook/pkg/config"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "seed",
		Short: "Replace all mentors and bookings with the demo mentor set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load("mentorctl")
			if err := seed.Allowed(cfg, force); err != nil {
				return err
			}

			cfg.SetStore()
			defer cfg.GracefulShutdown()

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			if err := migrations.Run(ctx, cfg); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			mentors, err := seed.NewSeeder(mentorrepo.New(cfg), bookingrepo.New(cfg), cfg.Log).Run(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range mentors {
				fmt.Fprintf(out, "%d\t%s\n", m.ID, m.Name)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "allow seeding when ENVIRONMENT=production")
	return c
}
