package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/cohortgate/internal/gate/store"
	"github.com/aussiebroadwan/cohortgate/internal/gate/store/drivers/postgres"
	"github.com/aussiebroadwan/cohortgate/internal/gate/store/drivers/sqlite"
)

// OpenStore connects the configured driver and applies its migrations.
func OpenStore(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (store.Store, error) {
	var (
		st  store.Store
		err error
	)

	switch cfg.Driver {
	case DriverPostgres:
		st, err = postgres.NewStore(ctx, cfg.PostgresDSN)
	default:
		st, err = sqlite.NewStore(sqlite.DSN(cfg.SQLiteFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database: %w", cfg.Driver, err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", "driver", cfg.Driver)
	return st, nil
}
