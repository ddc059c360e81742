package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/survivors/internal/api"
	"github.com/erazemk/survivors/internal/config"
	"github.com/erazemk/survivors/internal/db"
	"github.com/erazemk/survivors/internal/events"
	"github.com/erazemk/survivors/internal/model"
	"github.com/erazemk/survivors/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Creates the database on first run, seeds the item catalogue and serves the API until interrupted.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringP("addr", "a", "", "listen address (overrides config)")
	cmd.Flags().StringP("log", "l", "", "also write logs to this file")
	cmd.Flags().String("log-level", "", "minimum log level: debug, info, warn, error")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	closeLog, err := setupLogger(level, cfg.Log.Path)
	if err != nil {
		return err
	}
	defer closeLog()

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
	if seeded {
		slog.Info("item catalogue seeded", "items", len(model.DefaultCatalogue()))
	}
	slog.Info("database ready", "path", cfg.Database.Path)

	// Generated on first run and kept in the database.
	secret, err := store.GetIdentitySecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading identity secret: %w", err)
	}

	hub := events.NewHub()
	defer hub.Close()

	router, err := api.NewRouter(database, api.Options{
		IdentitySecret: secret,
		TokenTTL:       cfg.Identity.TokenTTL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Hub:            hub,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Websocket connections are hijacked and not tracked by Shutdown.
	server.RegisterOnShutdown(hub.Close)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}
