package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/app"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/config"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "sanehosts",
		Short:         "Switch /etc/hosts between named profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to TOML config file")

	root.AddCommand(
		newServeCmd(),
		newListCmd(),
		newShowCmd(),
		newApplyCmd(),
		newIngestCmd(),
		newBackupCmd(),
		newRestoreCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadService builds a Service for one-shot commands, with terse console
// logging.
func loadService() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	log, err := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		return nil, err
	}
	return app.NewService(cfg, log)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, hosts watcher, and remote-profile refresher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := app.Run(ctx, cfg, log); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
}
