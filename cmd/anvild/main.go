// SPDX-License-Identifier: MIT

// Command anvild runs the demo dialog daemon: an in-memory host with
// simulated users, one dialog template, and an HTTP admin surface for
// driving the event sources and inspecting sessions.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgecraft/anvilmenu/internal/api"
	"github.com/forgecraft/anvilmenu/internal/config"
	"github.com/forgecraft/anvilmenu/internal/log"
	"github.com/forgecraft/anvilmenu/internal/telemetry"
	"github.com/forgecraft/anvilmenu/memhost"
)

const version = "0.3.0"

func main() {
	if err := run(); err != nil {
		lg := log.Base()
		lg.Error().Err(err).Msg("daemon exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log.Configure(log.Config{Level: cfg.LogLevel, Service: "anvild"})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracing, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "anvild",
		ServiceVersion: version,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   cfg.TracingSampling,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := tracing.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	host := memhost.New()
	defer host.Shutdown()

	server, err := api.New(host, cfg)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("listen", cfg.Listen).
			Str("version", version).
			Msg("admin server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
