// Package cli implements the ordo command: calendar generation, Lectionary
// import, mapping runs and matcher diagnostics.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/config"
	"github.com/zapponejosh/ordo-lectionary/internal/database"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/logger"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
	"github.com/zapponejosh/ordo-lectionary/internal/tabular"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app is the state every subcommand shares once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dbPath     string
		logLevel   string
	)
	a := &app{}

	cmd := &cobra.Command{
		Use:          "ordo",
		Short:        "Liturgical calendar generator and Ordo–Lectionary matcher",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				if err := os.Setenv(config.FileVar, configPath); err != nil {
					return err
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DatabasePath = dbPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+config.FileVar+")")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides database_path)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")

	cmd.AddCommand(
		generateCmd(a),
		importCmd(a),
		mapCmd(a),
		checkDateCmd(a),
		listUnmatchedCmd(a),
		listAliasesCmd(a),
		listSaintsCmd(a),
		coverageCmd(a),
	)
	return cmd
}

// yearFlags registers --start and --end, defaulting to the configured
// range when left at zero.
type yearFlags struct {
	start, end int
}

func (y *yearFlags) register(c *cobra.Command) {
	c.Flags().IntVar(&y.start, "start", 0, "First civil year (default year_start)")
	c.Flags().IntVar(&y.end, "end", 0, "Last civil year (default year_end)")
}

func (y *yearFlags) resolve(cfg *config.Config) (int, int) {
	start, end := y.start, y.end
	if start == 0 {
		start = cfg.YearStart
	}
	if end == 0 {
		end = start
		if y.start == 0 {
			end = cfg.YearEnd
		}
	}
	return start, end
}

func (a *app) lectionaryPath(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.LectionaryPath
}

func (a *app) loadTable(path string) (*lectionary.Table, error) {
	entries, err := tabular.LoadLectionary(a.lectionaryPath(path))
	if err != nil {
		return nil, err
	}
	a.logger.Debug("lectionary loaded", slog.Int("entries", len(entries)))
	return lectionary.NewTable(entries), nil
}

func (a *app) generator(table *lectionary.Table) *calendar.Generator {
	opts := []calendar.Option{
		calendar.WithSolemnityPolicy(a.cfg.Policy()),
		calendar.WithLogger(a.logger),
		calendar.WithWorkers(a.cfg.Workers),
	}
	if table != nil {
		opts = append(opts, calendar.WithFeasts(calendar.FeastsFromLectionary(table.Raw())))
	}
	return calendar.NewGenerator(opts...)
}

func (a *app) matcher() (*match.Matcher, error) {
	rules, err := match.LoadRules(a.cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	return match.New(rules), nil
}

func (a *app) driver(m *match.Matcher) *mapping.Driver {
	return mapping.NewDriver(m,
		mapping.WithWorkers(a.cfg.Workers),
		mapping.WithLogger(a.logger),
	)
}

// openStore opens and migrates the configured database.
func (a *app) openStore(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(database.DefaultConfig(a.cfg.DatabasePath), a.logger)
	if err != nil {
		return nil, err
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// output opens path for writing. "-" and "" write to the command's stdout.
func output(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return tabular.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
