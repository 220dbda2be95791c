package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/tetracube/internal/storage/postgres"
)

func (a *app) migrateCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or revert the postgres creature schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			direction := args[0]
			res, err := postgres.Migrate(a.cfg.Database.DSN(), direction, steps)
			if err != nil {
				return err
			}
			elapsed := time.Since(start).Round(time.Millisecond)
			out := cmd.OutOrStdout()
			if res.NoChange {
				fmt.Fprintf(out, "no changes (version=%d dirty=%v) [%s]\n", res.Version, res.Dirty, elapsed)
			} else {
				fmt.Fprintf(out, "migrated %s to version=%d dirty=%v [%s]\n", direction, res.Version, res.Dirty, elapsed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to apply or revert (0 = all)")
	return cmd
}
