package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/envspace/envspace/pkg/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "envspacectl",
	Short: "Manage an envspace configuration server",
	Long: `envspacectl manages an envspace configuration server: spaces of
environment variables, roles granting access to them, and the user
accounts holding those roles.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")
}

// loadConfig reads the config file named by --config, falling back to
// ENVSPACE_CONFIG and the default path.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
