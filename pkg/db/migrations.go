package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func migrateInstance(gdb *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	drv, err := newMigrateDriver(sqlDB)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, "sqlite", drv)
}

// Migrate brings the schema up to date. Running it against an
// already-initialized store is a no-op.
func Migrate(gdb *gorm.DB) error {
	m, err := migrateInstance(gdb)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// SchemaVersion reports the current migration version. Returns zero when
// the store has never been migrated.
func SchemaVersion(gdb *gorm.DB) (uint, bool, error) {
	m, err := migrateInstance(gdb)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
