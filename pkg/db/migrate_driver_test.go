package db

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func driverUnderTest(t *testing.T) (database.Driver, *sql.DB) {
	t.Helper()
	gdb, err := Connect(Config{Path: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	drv, err := newMigrateDriver(sqlDB)
	require.NoError(t, err)
	return drv, sqlDB
}

func TestMigrateDriverVersionRoundTrip(t *testing.T) {
	drv, _ := driverUnderTest(t)

	version, dirty, err := drv.Version()
	require.NoError(t, err)
	assert.Equal(t, database.NilVersion, version)
	assert.False(t, dirty)

	require.NoError(t, drv.SetVersion(3, true))
	version, dirty, err = drv.Version()
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.True(t, dirty)

	// NilVersion clears the table
	require.NoError(t, drv.SetVersion(database.NilVersion, false))
	version, _, err = drv.Version()
	require.NoError(t, err)
	assert.Equal(t, database.NilVersion, version)
}

func TestMigrateDriverLocking(t *testing.T) {
	drv, _ := driverUnderTest(t)

	require.NoError(t, drv.Lock())
	assert.ErrorIs(t, drv.Lock(), database.ErrLocked)
	require.NoError(t, drv.Unlock())
	assert.ErrorIs(t, drv.Unlock(), database.ErrNotLocked)
}

func TestMigrateDriverRun(t *testing.T) {
	drv, sqlDB := driverUnderTest(t)

	migration := `CREATE TABLE Things (name TEXT PRIMARY KEY);
CREATE TABLE Widgets (id INTEGER PRIMARY KEY);`
	require.NoError(t, drv.Run(strings.NewReader(migration)))

	var count int
	require.NoError(t, sqlDB.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('Things', 'Widgets')`,
	).Scan(&count))
	assert.Equal(t, 2, count)
}
