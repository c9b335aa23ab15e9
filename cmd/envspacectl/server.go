package main

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/envspace/envspace/pkg/config"
	"github.com/envspace/envspace/pkg/db"
	"github.com/envspace/envspace/pkg/server"
	"github.com/envspace/envspace/pkg/server/endpoints"
	"github.com/envspace/envspace/pkg/server/middleware"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the envspace server",
	Long: `Run the envspace server.

Connects to the store, brings the schema up to date, seeds the superuser
account if absent and serves the HTTP API. The config file is watched and
the log level is applied on change without a restart.

Example:
  envspacectl server`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyLogLevel(cfg)

		gdb, err := db.Connect(db.Config{Path: cfg.Database})
		if err != nil {
			return err
		}
		if err := db.Bootstrap(gdb, db.AdminSeed{
			Email:    cfg.Superuser.Email,
			Password: cfg.Superuser.Password,
		}); err != nil {
			return err
		}

		sessions := middleware.NewSessions(tokenSecret(cfg), time.Duration(cfg.TokenTTL)*time.Second)
		srv := server.NewServer(gdb, sessions, cfg.Addr())
		endpoints.RegisterAll(srv)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			path := configPath
			if path == "" {
				path = config.Path()
			}
			err := config.Watch(ctx, path, func(updated *config.Config) {
				applyLogLevel(updated)
				logrus.Info("reloaded configuration")
			})
			if err != nil {
				logrus.WithError(err).Warn("config watch stopped")
			}
		}()

		logrus.WithField("addr", cfg.Addr()).Info("envspace server starting")
		return srv.Start()
	},
}

func applyLogLevel(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("log_level", cfg.LogLevel).Warn("unknown log level, keeping current")
		return
	}
	logrus.SetLevel(level)
}

// tokenSecret returns the configured signing secret, or a random one when
// unset. A random secret invalidates all sessions on restart.
func tokenSecret(cfg *config.Config) []byte {
	if cfg.TokenSecret != "" {
		return []byte(cfg.TokenSecret)
	}

	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	logrus.Warn("no token_secret configured, generated an ephemeral one; sessions will not survive a restart")
	return secret
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
