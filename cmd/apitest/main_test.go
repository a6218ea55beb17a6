package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zapponejosh/ordo-lectionary/internal/api"
	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/config"
	"github.com/zapponejosh/ordo-lectionary/internal/database"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
	"github.com/zapponejosh/ordo-lectionary/internal/metrics"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(database.DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	table := lectionary.NewTable([]lectionary.Entry{
		{AdminOrder: "150", YearCycle: "C", Week: "3", DayType: "Sunday", Time: "Ordinary", LiturgicalDay: "3rd Sunday in Ordinary Time", FirstReading: "Neh 8:2-4a, 5-6, 8-10", Psalm: "Ps 19", SecondReading: "1 Cor 12:12-30", Gospel: "Lk 1:1-4; 4:14-21"},
	})

	cfg := config.Default()
	cfg.DatabasePath = ":memory:"
	mgr := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
	matcher := match.New(match.DefaultRules())
	resolver := mapping.NewResolver(calendar.NewGenerator(calendar.WithLogger(logger)), matcher, table)
	driver := mapping.NewDriver(matcher, mapping.WithLogger(logger))

	h := api.NewHandlers(db, resolver, driver, cfg, mgr, logger)
	srv := httptest.NewServer(api.SetupRoutes(h, cfg, mgr, logger))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunnerPassesAgainstServer(t *testing.T) {
	srv := newServer(t)

	var out bytes.Buffer
	runner := NewTestRunner(srv.URL+"/", &out, true)
	runner.Run()

	if runner.errorCount != 0 {
		t.Fatalf("smoke suite reported %d failures:\n%s", runner.errorCount, out.String())
	}
	if !strings.Contains(out.String(), "All tests passed!") {
		t.Errorf("summary missing from output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Gospel: Lk 1:1-4; 4:14-21") {
		t.Errorf("verbose readings missing from output:\n%s", out.String())
	}
}

func TestRunnerReportsFailures(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	var out bytes.Buffer
	runner := NewTestRunner(srv.URL, &out, false)
	runner.Run()

	if runner.errorCount == 0 {
		t.Fatal("expected failures against a closed server")
	}
	if !strings.Contains(out.String(), "Tests completed with") {
		t.Errorf("failure summary missing:\n%s", out.String())
	}
}
