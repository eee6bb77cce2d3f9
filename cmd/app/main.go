package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/ItemLedger_Go/internal/bootstrap"
	"github.com/osse101/ItemLedger_Go/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "item-ledger: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load reads .env first, so the environment checks run after it.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	for _, w := range warnings {
		slog.Warn(w)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := app.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err, ok := <-serverErr:
		if ok {
			slog.Error("Server failed", "error", err)
			runErr = err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), bootstrap.DefaultShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(ctx, app.Components())

	return runErr
}
