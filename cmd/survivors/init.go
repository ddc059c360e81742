package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/survivors/internal/db"
	"github.com/erazemk/survivors/internal/model"
	"github.com/erazemk/survivors/internal/store"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed the item catalogue",
		Long:  "Creates the schema and seeds the default item catalogue without starting the server. Safe to run on an existing database.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	cmd.Flags().String("write-config", "", "also write the effective configuration to this file")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	seeded, err := db.Bootstrap(ctx, database, model.DefaultCatalogue())
	if err != nil {
		return fmt.Errorf("bootstrapping database: %w", err)
	}

	out := cmd.OutOrStdout()
	if seeded {
		fmt.Fprintf(out, "Database initialized: %s\n", cfg.Database.Path)
	} else {
		fmt.Fprintf(out, "Database already initialized: %s\n", cfg.Database.Path)
	}

	items, err := store.ListItems(ctx, database)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Item catalogue:")
	for _, item := range items {
		fmt.Fprintf(out, "  %-12s worth %d  (%s)\n", item.Label, item.Worth, item.ID)
	}

	if path, _ := cmd.Flags().GetString("write-config"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Config written: %s\n", path)
	}
	return nil
}
