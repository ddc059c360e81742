// Package main provides the entry point for the survivors service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/erazemk/survivors/internal/config"
)

var (
	version    = "0.1.0-dev"
	configPath string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "survivors",
		Short:         "Track survivors, their supplies and infection reports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringP("db", "d", "", "SQLite database path (overrides config)")

	rootCmd.AddCommand(
		newServeCmd(),
		newInitCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig loads the config file and applies flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database.Path, _ = flags.GetString("db")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Server.Addr, _ = flags.GetString("addr")
	}
	if flags.Lookup("log") != nil && flags.Changed("log") {
		cfg.Log.Path, _ = flags.GetString("log")
	}
	if flags.Lookup("log-level") != nil && flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
