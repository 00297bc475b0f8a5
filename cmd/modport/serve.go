package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	v1 "github.com/vmunix/modport/internal/api/v1"
	"github.com/vmunix/modport/internal/events"
	"github.com/vmunix/modport/internal/importer"
	"github.com/vmunix/modport/internal/server"
	"github.com/vmunix/modport/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the REST API under /api/v1.

Profiles, import history and events can be browsed, and POST
/api/v1/imports runs an import batch. Only one batch runs at a time.`,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "127.0.0.1:8487", "Listen address")
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	v1.Version = version
	runner := server.NewRunner(db, runnerConfig(cfg), logger)
	api, err := v1.New(v1.ServerDeps{
		Profiles: runner.Profiles(),
		History:  importer.NewHistoryStore(db),
		EventLog: events.NewEventLog(db),
		Runner:   runner,
		Locator:  source.DefaultLocator(),
		GameDir:  cfg.Game.R2DirName,
	})
	if err != nil {
		return fmt.Errorf("create api: %w", err)
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           v1.LogRequests(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
