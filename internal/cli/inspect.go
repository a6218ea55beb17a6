package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
	"github.com/zapponejosh/ordo-lectionary/internal/normalize"
)

func checkDateCmd(a *app) *cobra.Command {
	var lectPath string

	c := &cobra.Command{
		Use:   "check-date YYYY-MM-DD",
		Short: "Show how one date is named and matched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDateString(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
			}

			table, err := a.loadTable(lectPath)
			if err != nil {
				return err
			}
			m, err := a.matcher()
			if err != nil {
				return err
			}

			res, err := mapping.NewResolver(a.generator(table), m, table).Resolve(cmd.Context(), date)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			d := res.Day
			fmt.Fprintf(w, "date:       %s (%s)\n", calendar.FormatDate(d.Date), d.Weekday())
			fmt.Fprintf(w, "name:       %s\n", d.Name)
			fmt.Fprintf(w, "normalized: %s\n", normalize.Name(d.Name))
			fmt.Fprintf(w, "season:     %s\n", d.Season)
			if label := d.WeekLabel(); label != "" {
				fmt.Fprintf(w, "week:       %s\n", label)
			}
			fmt.Fprintf(w, "rank:       %s\n", d.Rank)
			if d.Rule != "" {
				fmt.Fprintf(w, "rule:       %s\n", d.Rule)
			}
			fmt.Fprintf(w, "cycle:      %s\n", res.Cycle)

			fmt.Fprintln(w, "\nstrategies:")
			for _, s := range res.Trace {
				mark := "-"
				if s.Matched {
					mark = "+"
				}
				fmt.Fprintf(w, "  %s %s\n", mark, s.Strategy)
			}

			r := res.Match
			fmt.Fprintf(w, "\nmatch:      %s", r.Type)
			if r.Method != "" {
				fmt.Fprintf(w, " by %s (score %d)", r.Method, r.Score)
			}
			fmt.Fprintln(w)
			if e := r.Entry; e != nil {
				fmt.Fprintf(w, "lectionary: %s %s\n", e.AdminOrder, e.LiturgicalDay)
				for _, line := range readingLines(e.FirstReading, e.Psalm, e.SecondReading, e.Gospel) {
					fmt.Fprintf(w, "  %s\n", line)
				}
			}
			return nil
		},
	}

	c.Flags().StringVarP(&lectPath, "lectionary", "l", "", "Lectionary CSV (default lectionary_path)")
	return c
}

func readingLines(first, psalm, second, gospel string) []string {
	var lines []string
	for _, r := range []struct{ label, ref string }{
		{"First Reading:", first},
		{"Psalm:", psalm},
		{"Second Reading:", second},
		{"Gospel:", gospel},
	} {
		if strings.TrimSpace(r.ref) != "" {
			lines = append(lines, fmt.Sprintf("%-16s%s", r.label, r.ref))
		}
	}
	return lines
}

func listAliasesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-aliases",
		Short: "Print the name aliases the matcher tries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.matcher()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, al := range m.Rules().Aliases {
				fmt.Fprintf(w, "%s -> %s\n", strings.Join(al.Keywords, " + "), al.Search)
			}
			return nil
		},
	}
}

func listSaintsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-saints",
		Short: "Print the saints whose memorials have proper readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.matcher()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, s := range m.Rules().ProperSaints {
				fmt.Fprintln(w, s)
			}
			return nil
		},
	}
}
