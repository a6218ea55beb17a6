package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/ics"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/tabular"
)

func generateCmd(a *app) *cobra.Command {
	var (
		years    yearFlags
		lectPath string
		noFeasts bool
		out      string
		icsPath  string
		store    bool
	)

	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate the liturgical calendar for a range of civil years",
		Long: "Generate the liturgical calendar for a range of civil years.\n\n" +
			"Fixed feasts are read from the Lectionary's \"Fixed Feast\" rows unless --no-feasts is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			start, end := years.resolve(a.cfg)

			var table *lectionary.Table
			if !noFeasts {
				t, err := a.loadTable(lectPath)
				if err != nil {
					return err
				}
				table = t
			}

			cal, err := a.generator(table).Generate(ctx, start, end)
			if err != nil {
				return err
			}
			days := cal.Days()
			if err := calendar.Validate(days, start, end); err != nil {
				return fmt.Errorf("generated calendar failed validation: %w", err)
			}

			w, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := tabular.WriteCalendar(w, days); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			if icsPath != "" {
				if err := writeICS(icsPath, fmt.Sprintf("Liturgical Calendar %d–%d", start, end), days); err != nil {
					return err
				}
			}

			if store {
				db, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.UpsertCalendarDays(ctx, days); err != nil {
					return fmt.Errorf("store calendar: %w", err)
				}
			}

			a.logger.Info("calendar generated",
				slog.Int("start", start),
				slog.Int("end", end),
				slog.Int("days", len(days)),
				slog.Int("sunday_solemnities", len(cal.SundaySolemnities())),
			)
			return nil
		},
	}

	years.register(c)
	c.Flags().StringVarP(&lectPath, "lectionary", "l", "", "Lectionary CSV (default lectionary_path)")
	c.Flags().BoolVar(&noFeasts, "no-feasts", false, "Generate without the Lectionary's fixed feasts")
	c.Flags().StringVarP(&out, "out", "o", "-", "Calendar CSV output path, - for stdout")
	c.Flags().StringVar(&icsPath, "ics", "", "Also write an iCalendar file")
	c.Flags().BoolVar(&store, "store", false, "Also store the days in the database")
	return c
}

func writeICS(path, name string, days []calendar.Day) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := ics.Write(f, name, ics.Entries(days, nil), time.Now()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
