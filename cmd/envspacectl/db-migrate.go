package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envspace/envspace/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

Runs all pending migrations against the configured store. Safe to run
against an already-initialized store.

Example:
  envspacectl db migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gdb, err := db.Connect(db.Config{Path: cfg.Database})
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		fmt.Println("Schema is up to date")
		return nil
	},
}

// dbVersionCmd represents the db version command
var dbVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gdb, err := db.Connect(db.Config{Path: cfg.Database})
		if err != nil {
			return err
		}
		version, dirty, err := db.SchemaVersion(gdb)
		if err != nil {
			return err
		}
		if version == 0 {
			fmt.Println("Schema has not been initialized")
			return nil
		}
		fmt.Printf("Schema version: %d (dirty: %v)\n", version, dirty)
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbVersionCmd)
}
