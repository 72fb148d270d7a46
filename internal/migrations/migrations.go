package migrations

import (
	"context"
	"fmt"

	mongomigration "mentorbook/internal/migrations/mongo"
	pgmigration "mentorbook/internal/migrations/postgres"
	"mentorbook/pkg/config"
)

// Run migrates the store selected by STORE_DRIVER. The store must already be connected.
func Run(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return mongomigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
	case config.StorePostgres:
		return pgmigration.RunMigration(ctx, cfg.Client.Postgres, cfg.Log)
	}
	return fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
