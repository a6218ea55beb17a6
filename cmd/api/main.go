// Package main is the entry point for the Ordo-Lectionary API server.
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
	"time"

	"github.com/zapponejosh/ordo-lectionary/internal/api"
	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/config"
	"github.com/zapponejosh/ordo-lectionary/internal/database"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/logger"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
	"github.com/zapponejosh/ordo-lectionary/internal/metrics"
	"github.com/zapponejosh/ordo-lectionary/internal/tabular"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting ordo-lectionary API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("solemnity_policy", cfg.SolemnityPolicy),
	)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	table, err := loadLectionary(ctx, db, cfg, log)
	if err != nil {
		return err
	}

	rules, err := match.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}

	mgr := metrics.NewManager(metrics.WithMetricsEnabled(cfg.MetricsEnabled))
	mgr.SetLectionarySize(table.Len())

	gen := calendar.NewGenerator(
		calendar.WithFeasts(calendar.FeastsFromLectionary(table.Raw())),
		calendar.WithSolemnityPolicy(cfg.Policy()),
		calendar.WithLogger(log),
		calendar.WithWorkers(cfg.Workers),
	)
	matcher := match.New(rules)
	resolver := mapping.NewResolver(gen, matcher, table)
	resolver.Observe(mgr)
	driver := mapping.NewDriver(matcher,
		mapping.WithWorkers(cfg.Workers),
		mapping.WithLogger(log),
		mapping.WithRecorder(mgr),
	)

	handlers := api.NewHandlers(db, resolver, driver, cfg, mgr, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, mgr, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// loadLectionary prefers the stored Lectionary and falls back to the
// configured CSV when the store is empty.
func loadLectionary(ctx context.Context, db *database.DB, cfg *config.Config, log *slog.Logger) (*lectionary.Table, error) {
	entries, err := db.ListLectionary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored lectionary: %w", err)
	}
	source := "database"

	if len(entries) == 0 {
		entries, err = tabular.LoadLectionary(cfg.LectionaryPath)
		if err != nil {
			log.Warn("no lectionary available; readings will not match",
				slog.String("path", cfg.LectionaryPath),
				slog.Any("error", err))
			return lectionary.NewTable(nil), nil
		}
		source = cfg.LectionaryPath
	}

	log.Info("lectionary loaded", slog.String("source", source), slog.Int("entries", len(entries)))
	return lectionary.NewTable(entries), nil
}
