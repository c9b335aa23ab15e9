package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envspace/envspace/pkg/db"
	"github.com/envspace/envspace/pkg/store"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long:  `Manage user accounts in the configured store.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create, reset-password)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// connectStore opens the configured store for the user subcommands.
func connectStore() (*store.Users, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	gdb, err := db.Connect(db.Config{Path: cfg.Database})
	if err != nil {
		return nil, err
	}
	return store.NewUsers(gdb), nil
}

func init() {
	rootCmd.AddCommand(userCmd)
}
