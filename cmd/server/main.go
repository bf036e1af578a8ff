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

	"golang.org/x/sync/errgroup"

	"composite/internal/keystore/handler"
	keystoreMetrics "composite/internal/keystore/metrics"
	"composite/internal/keystore/service"
	"composite/internal/keystore/store/entry"
	"composite/internal/keystore/store/set"
	"composite/internal/platform/config"
	"composite/internal/platform/httpserver"
	"composite/internal/platform/logger"
	"composite/internal/platform/metrics"
)

// main wires dependencies and runs the keystore server until SIGINT/SIGTERM.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	reg := metrics.NewRegistry()
	svc := service.New(entry.NewInMemory(), set.NewInMemory(),
		service.WithLogger(log),
		service.WithMetrics(keystoreMetrics.New(reg)),
	)
	router := newRouter(cfg, log, reg, handler.New(svc, log))
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting keystore", "addr", cfg.Addr, "admin_enabled", cfg.AdminToken != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down keystore")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("keystore stopped", slog.Any("error", err))
		return err
	}
	return nil
}
