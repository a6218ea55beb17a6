package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/ordo-lectionary/internal/tabular"
)

func importCmd(a *app) *cobra.Command {
	var lectPath string

	c := &cobra.Command{
		Use:   "import",
		Short: "Replace the stored Lectionary with a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			path := a.lectionaryPath(lectPath)

			entries, err := tabular.LoadLectionary(path)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("%s has no entries", path)
			}

			db, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.ReplaceLectionary(ctx, entries); err != nil {
				return fmt.Errorf("import lectionary: %w", err)
			}

			a.logger.Info("lectionary imported",
				slog.String("path", path),
				slog.Int("entries", len(entries)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d lectionary entries\n", len(entries))
			return nil
		},
	}

	c.Flags().StringVarP(&lectPath, "lectionary", "l", "", "Lectionary CSV (default lectionary_path)")
	return c
}
