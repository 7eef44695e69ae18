package migrate

import (
	"context"
	"fmt"

	"github.com/pigeonhq/pigeon-backend/pkg/config"
	"github.com/pigeonhq/pigeon-backend/pkg/db"
	"github.com/pigeonhq/pigeon-backend/pkg/db/models"
	"github.com/pigeonhq/pigeon-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in
// dev mode and the feature flag is enabled. The SQLite dev database has no
// goose history and is built from the GORM models instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "auto-migrating sqlite schema from models")
		return client.DB().WithContext(ctx).AutoMigrate(
			&models.Product{},
			&models.Seller{},
			&models.Cart{},
			&models.CartItem{},
		)
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Up(ctx, sqlDB); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
