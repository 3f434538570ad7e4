// Package migration brings the schema up to date. Postgres runs the embedded
// SQL through golang-migrate; the other drivers use gorm AutoMigrate on the
// same models.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	commissiondomain "github.com/railzwaylabs/supportdesk/internal/commissionrule/domain"
	pricedomain "github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
	"github.com/railzwaylabs/supportdesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&pricedomain.PriceRule{},
		&commissiondomain.CommissionRule{},
		&auditdomain.AuditLog{},
	}
}

func Run(ctx context.Context, conn *gorm.DB, driver string, log *zap.Logger) error {
	if driver != db.DriverPostgres {
		if err := conn.WithContext(ctx).AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("schema migrated", zap.String("driver", driver), zap.String("mode", "auto"))
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	m, err := RunMigrations(ctx, sqlDB)
	if err != nil {
		return err
	}
	log.Info("schema migrated",
		zap.String("driver", driver),
		zap.Uint("version", m.Version),
		zap.String("checksum", m.Checksum),
	)
	return nil
}

// RunMigrations applies the embedded postgres migrations under an advisory
// lock and records the resulting manifest.
func RunMigrations(ctx context.Context, sqlDB *sql.DB) (Manifest, error) {
	if sqlDB == nil {
		return Manifest{}, errors.New("migration database handle is required")
	}

	unlock, err := acquireAdvisoryLock(ctx, sqlDB)
	if err != nil {
		return Manifest{}, err
	}
	defer func() {
		_ = unlock(context.Background())
	}()

	manifest, err := LoadManifest()
	if err != nil {
		return Manifest{}, err
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return Manifest{}, fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return Manifest{}, fmt.Errorf("create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return Manifest{}, fmt.Errorf("create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return Manifest{}, fmt.Errorf("create migrator: %w", err)
	}

	if _, err := ensureNotDirty(migrator); err != nil {
		return Manifest{}, err
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Manifest{}, fmt.Errorf("apply migrations: %w", err)
	}

	current, err := ensureNotDirty(migrator)
	if err != nil {
		return Manifest{}, err
	}
	if current != manifest.Version {
		return Manifest{}, fmt.Errorf("schema version mismatch after migrate: got %d want %d", current, manifest.Version)
	}

	if err := recordSchemaState(ctx, sqlDB, manifest); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

func ensureNotDirty(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return version, nil
}
