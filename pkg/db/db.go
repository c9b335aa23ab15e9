package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds store connection configuration
type Config struct {
	// Path is the SQLite database file path (defaults to the ENVSPACE_DB
	// env var). ":memory:" opens a throwaway in-memory store.
	Path string
}

// Connect opens the embedded store. Foreign-key enforcement is switched on
// for every connection; without it the referential-integrity constraints in
// the schema are silently ignored.
func Connect(cfg Config) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		path = os.Getenv("ENVSPACE_DB")
	}
	if path == "" {
		return nil, fmt.Errorf("database path is required (set ENVSPACE_DB or the database config key)")
	}

	// Default to silent logging unless ENVSPACE_LOG_LEVEL=debug is set
	logMode := logger.Silent
	if os.Getenv("ENVSPACE_LOG_LEVEL") == "debug" {
		logMode = logger.Info
	}

	dsn := path + "?_pragma=foreign_keys(1)"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}

	if strings.Contains(path, ":memory:") {
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return gdb, nil
}
