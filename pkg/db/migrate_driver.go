package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

const versionTable = "schema_migrations"

// migrateDriver adapts the store's open *sql.DB to golang-migrate's
// database.Driver. migrate's bundled sqlite driver cannot be linked here:
// it pulls in modernc.org/sqlite, which registers the same database/sql
// driver name as the glebarez driver the store connects with, and
// registering the name twice panics at init.
type migrateDriver struct {
	db     *sql.DB
	locked atomic.Bool
}

func newMigrateDriver(sqlDB *sql.DB) (database.Driver, error) {
	drv := &migrateDriver{db: sqlDB}
	if err := drv.ensureVersionTable(); err != nil {
		return nil, err
	}
	return drv, nil
}

func (d *migrateDriver) ensureVersionTable() error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (version uint64, dirty bool)`, versionTable)
	_, err := d.db.Exec(query)
	return err
}

// Open is part of database.Driver but unused: the driver is always
// constructed over an existing connection.
func (d *migrateDriver) Open(string) (database.Driver, error) {
	return nil, errors.New("migration driver must be constructed over an open connection")
}

// Close is a no-op; the connection belongs to the store.
func (d *migrateDriver) Close() error {
	return nil
}

func (d *migrateDriver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

func (d *migrateDriver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

func (d *migrateDriver) Run(migration io.Reader) error {
	statements, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	query := "BEGIN; " + string(statements) + " COMMIT;"
	if _, err := d.db.Exec(query); err != nil {
		return fmt.Errorf("migration step failed: %w", err)
	}
	return nil
}

func (d *migrateDriver) SetVersion(version int, dirty bool) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, versionTable)); err != nil {
		_ = tx.Rollback()
		return err
	}
	// migrate signals "no version" with NilVersion and an empty table
	if version >= 0 {
		query := fmt.Sprintf(`INSERT INTO %s (version, dirty) VALUES (?, ?)`, versionTable)
		if _, err := tx.Exec(query, version, dirty); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (d *migrateDriver) Version() (int, bool, error) {
	var (
		version int
		dirty   bool
	)
	query := fmt.Sprintf(`SELECT version, dirty FROM %s LIMIT 1`, versionTable)
	err := d.db.QueryRow(query).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return database.NilVersion, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty, nil
}

func (d *migrateDriver) Drop() error {
	rows, err := d.db.Query(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// FK checks off so drop order does not matter
	if _, err := d.db.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
		return err
	}
	for _, table := range tables {
		if _, err := d.db.Exec(`DROP TABLE ` + table); err != nil {
			return err
		}
	}
	_, err = d.db.Exec(`PRAGMA foreign_keys = ON`)
	return err
}
