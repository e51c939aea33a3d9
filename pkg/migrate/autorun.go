package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/castcall-backend/pkg/config"
	"github.com/angelmondragon/castcall-backend/pkg/db"
	"github.com/angelmondragon/castcall-backend/pkg/db/models"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

// Models lists every table the service owns, for gorm AutoMigrate.
var Models = []any{
	&models.AnalyticsEvent{},
}

// MaybeRunDev prepares the schema at startup. SQLite databases are always auto-migrated
// with gorm; Postgres runs the Goose migrations only in dev with the flag enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client == nil {
		return nil
	}

	if cfg.DB.IsSQLite() {
		ctx = logg.WithField(ctx, "driver", config.DBDriverSQLite)
		if err := client.DB().WithContext(ctx).AutoMigrate(Models...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		logg.Info(ctx, "sqlite schema ready")
		return nil
	}

	if !cfg.App.IsDev() || !cfg.DB.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
