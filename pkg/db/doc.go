// Package db owns the embedded relational store: opening it, bringing the
// schema up to date and seeding the superuser account.
//
// The store is a single SQLite file opened through GORM with the pure-Go
// driver. All repositories share the one handle returned by Connect; no
// other component performs schema migration or initialization.
//
// # Bootstrap
//
//	gdb, err := db.Connect(db.Config{Path: cfg.Database})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := db.Bootstrap(gdb, db.AdminSeed{
//	    Email:    cfg.Superuser.Email,
//	    Password: cfg.Superuser.Password,
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
// Bootstrap is idempotent: migrations only create what is absent and the
// superuser is only inserted when no account with the configured email
// exists.
//
// # Environment Variables
//
//   - ENVSPACE_DB: database file path used when Config.Path is empty
//   - ENVSPACE_LOG_LEVEL: set to "debug" for SQL query logging
package db
