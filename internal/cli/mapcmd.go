package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/database"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
	"github.com/zapponejosh/ordo-lectionary/internal/ordo"
	"github.com/zapponejosh/ordo-lectionary/internal/tabular"
)

// sourceFlags select the calendar and Lectionary a mapping run uses.
type sourceFlags struct {
	years    yearFlags
	lectPath string
	ordoPath string
}

func (s *sourceFlags) register(c *cobra.Command) {
	s.years.register(c)
	c.Flags().StringVarP(&s.lectPath, "lectionary", "l", "", "Lectionary CSV (default lectionary_path)")
	c.Flags().StringVar(&s.ordoPath, "ordo", "", "Match a parsed Ordo CSV for --start instead of the generated calendar")
}

// run is one finished mapping run with its inputs.
type run struct {
	cal    *calendar.Calendar
	table  *lectionary.Table
	report *mapping.Report
}

func (r *run) bounds() (start, end string) {
	days := r.cal.Days()
	if len(days) == 0 {
		return "", ""
	}
	return calendar.FormatDate(days[0].Date), calendar.FormatDate(days[len(days)-1].Date)
}

func (a *app) mapRun(ctx context.Context, s sourceFlags) (*run, error) {
	table, err := a.loadTable(s.lectPath)
	if err != nil {
		return nil, err
	}
	start, end := s.years.resolve(a.cfg)

	var cal *calendar.Calendar
	if s.ordoPath != "" {
		rows, err := tabular.LoadOrdo(s.ordoPath)
		if err != nil {
			return nil, err
		}
		days := ordo.Parse(rows, start, a.logger)
		if len(days) == 0 {
			return nil, fmt.Errorf("%s has no dated rows", s.ordoPath)
		}
		cal = calendar.NewCalendar(days)
	} else {
		cal, err = a.generator(table).Generate(ctx, start, end)
		if err != nil {
			return nil, err
		}
	}

	m, err := a.matcher()
	if err != nil {
		return nil, err
	}
	report, err := a.driver(m).Run(ctx, cal, table)
	if err != nil {
		return nil, err
	}
	return &run{cal: cal, table: table, report: report}, nil
}

func mapCmd(a *app) *cobra.Command {
	var (
		src      sourceFlags
		out      string
		baseline string
		store    bool
	)

	c := &cobra.Command{
		Use:   "map",
		Short: "Match a calendar against the Lectionary",
		Long: "Match every day of a calendar against the Lectionary and print the statistics and flags.\n\n" +
			"With --baseline the new mapping is compared against an earlier mapping CSV.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, err := a.mapRun(ctx, src)
			if err != nil {
				return err
			}
			rows := mapping.Rows(r.report.Results)

			if out != "" {
				w, err := output(cmd, out)
				if err != nil {
					return err
				}
				if err := tabular.WriteMapping(w, rows); err != nil {
					w.Close()
					return err
				}
				if err := w.Close(); err != nil {
					return fmt.Errorf("close %s: %w", out, err)
				}
			}

			stdout := cmd.OutOrStdout()
			if out != "-" {
				printStats(stdout, r.report.Stats)
				printFlags(stdout, r.report.Flags)
			}

			if baseline != "" {
				before, err := tabular.LoadMapping(baseline)
				if err != nil {
					return err
				}
				printDifferences(cmd.OutOrStdout(), mapping.Compare(before, rows))
			}

			if store {
				db, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer db.Close()

				days := r.cal.Days()
				runRow := database.NewMappingRun(days[0].Date, days[len(days)-1].Date, r.report)
				if err := db.SaveMappingRun(ctx, runRow, rows); err != nil {
					return fmt.Errorf("store mapping run: %w", err)
				}
				a.logger.Info("mapping run stored", slog.String("id", runRow.ID))
			}
			return nil
		},
	}

	src.register(c)
	c.Flags().StringVarP(&out, "out", "o", "", "Write the mapping CSV here, - for stdout")
	c.Flags().StringVar(&baseline, "baseline", "", "Compare against an earlier mapping CSV")
	c.Flags().BoolVar(&store, "store", false, "Store the run summary and rows in the database")
	return c
}

func listUnmatchedCmd(a *app) *cobra.Command {
	var src sourceFlags

	c := &cobra.Command{
		Use:   "list-unmatched",
		Short: "List the days no Lectionary entry was found for",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.mapRun(cmd.Context(), src)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			n := 0
			for _, res := range r.report.Results {
				if res.Matched() {
					continue
				}
				n++
				fmt.Fprintf(w, "%s  %-20s  %s (cycle %s)\n",
					calendar.FormatDate(res.CalendarDate), res.Rank, res.CalendarName, res.Cycle)
			}
			start, end := r.bounds()
			fmt.Fprintf(w, "\n%d of %d days unmatched between %s and %s\n", n, r.report.Stats.Total, start, end)
			return nil
		},
	}

	src.register(c)
	return c
}

func coverageCmd(a *app) *cobra.Command {
	var src sourceFlags

	c := &cobra.Command{
		Use:   "coverage",
		Short: "List the Lectionary entries no day was matched to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.mapRun(cmd.Context(), src)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			groups := mapping.Coverage(r.table, r.report.Results)
			unused := 0
			for _, g := range groups {
				label := g.Time
				if label == "" {
					label = "(no time)"
				}
				fmt.Fprintf(w, "%s (%d)\n", label, len(g.Entries))
				for _, e := range g.Entries {
					fmt.Fprintf(w, "  %-6s %s\n", e.AdminOrder, e.LiturgicalDay)
				}
				unused += len(g.Entries)
			}
			fmt.Fprintf(w, "\n%d of %d lectionary entries unused\n", unused, r.table.Len())
			return nil
		},
	}

	src.register(c)
	return c
}

func printStats(w io.Writer, s mapping.Stats) {
	fmt.Fprintf(w, "days:     %d\n", s.Total)
	fmt.Fprintf(w, "exact:    %d\n", s.Exact)
	fmt.Fprintf(w, "partial:  %d\n", s.Partial)
	fmt.Fprintf(w, "none:     %d\n", s.None)
	fmt.Fprintf(w, "coverage: %.1f%%\n", s.Coverage())

	methods := make([]string, 0, len(s.ByMethod))
	for m := range s.ByMethod {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)
	for _, m := range methods {
		fmt.Fprintf(w, "  %-22s %d\n", m, s.ByMethod[match.Method(m)])
	}
}

func printFlags(w io.Writer, flags []mapping.Flag) {
	if len(flags) == 0 {
		return
	}
	fmt.Fprintf(w, "\nflags (%d):\n", len(flags))
	for _, f := range flags {
		fmt.Fprintf(w, "  %s  %s\n    ordo:       %s\n    lectionary: %s\n", f.Date, f.Issue, f.OrdoName, f.LectionaryName)
	}
}

func printDifferences(w io.Writer, diffs []mapping.Difference) {
	if len(diffs) == 0 {
		fmt.Fprintln(w, "no differences from baseline")
		return
	}
	fmt.Fprintf(w, "%d differences from baseline:\n", len(diffs))
	for _, d := range diffs {
		fmt.Fprintf(w, "  %s  %-7s %s\n", d.Date, d.Kind, d.OrdoName)
		for _, c := range d.Changes {
			fmt.Fprintf(w, "      %s: %q -> %q\n", c.Field, c.Before, c.After)
		}
	}
}
