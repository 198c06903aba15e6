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

	"github.com/mixtape-labs/mixtape/internal/server"
	"github.com/mixtape-labs/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// Serve starts the REST API server and blocks until it exits or the process
// receives an interrupt.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd.String("config"))

	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = port
	}
	if env := cmd.String("environment"); env != "" {
		r.config.Environment = env
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: set credentials.spotify in the config file or CLIENT_ID/CLIENT_SECRET", shared.ErrMissingCredentials)
	}

	lib, cleanup, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer cleanup()

	e := server.New(server.NewAPI(lib, r.logger), r.logger)
	addr := r.config.Server.Addr()

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	r.logger.Info("server listening", "addr", addr, "catalog", r.catalog.Name(), "environment", r.config.Environment)

	notifyCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-notifyCtx.Done():
		r.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
	}

	return nil
}
