package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/envspace/envspace/pkg/db"
	"github.com/envspace/envspace/pkg/model"
)

// testStore opens a fresh in-memory store with the schema applied and
// foreign keys enforced.
func testStore(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Connect(db.Config{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func roleNamed(name string) model.Role {
	return model.Role{Name: name}
}

func countRows(t *testing.T, gdb *gorm.DB, query string, args ...interface{}) int {
	t.Helper()
	var count int
	require.NoError(t, gdb.Raw(query, args...).Scan(&count).Error)
	return count
}
