package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tetracube/internal/config"
	"github.com/cory-johannsen/tetracube/internal/importer"
	"github.com/cory-johannsen/tetracube/internal/storage/postgres"
	"github.com/cory-johannsen/tetracube/internal/storage/yamlstore"
)

func (a *app) importCmd() *cobra.Command {
	var (
		store     string
		outputDir string
		workers   int
	)
	cmd := &cobra.Command{
		Use:   "import <file|dir>...",
		Short: "Import statblocks into the configured creature store",
		Long: `Import converts every named .monster file, and every .monster file directly
inside each named directory, and persists each creature with its features.
A failing statblock is reported and skipped; the command exits non-zero if
any statblock failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("store") {
				a.cfg.Import.Store = store
			}
			if flags.Changed("output-dir") {
				a.cfg.Import.OutputDir = outputDir
			}
			if flags.Changed("workers") {
				a.cfg.Import.Workers = workers
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			files, err := importer.NewDirSource().Files(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			target, location, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			start := time.Now()
			imp := importer.New(target, &streamReporter{w: cmd.ErrOrStderr()}, a.logger)
			results, importErr := imp.ImportFiles(ctx, files, a.cfg.Import.Workers)

			out := cmd.OutOrStdout()
			imported := 0
			for _, r := range results {
				if r == nil {
					continue
				}
				imported++
				fmt.Fprintf(out, "%s\t%s\t%d features\n", r.Ref, r.Name, r.Features)
			}
			a.logger.Info("import finished",
				zap.String("store", a.cfg.Import.Store),
				zap.String("location", location),
				zap.Int("imported", imported),
				zap.Int("failed", len(files)-imported),
				zap.Duration("elapsed", time.Since(start)),
			)
			if importErr != nil {
				return fmt.Errorf("%d of %d statblocks failed: %w", len(files)-imported, len(files), importErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "override import.store: yaml or postgres")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "override import.output_dir for the yaml store")
	cmd.Flags().IntVar(&workers, "workers", 0, "override import.workers")
	return cmd
}

// openStore returns the configured store, where it keeps creatures, and a
// func releasing it.
func (a *app) openStore(ctx context.Context) (importer.Store, string, func(), error) {
	switch a.cfg.Import.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, a.cfg.Database)
		if err != nil {
			return nil, "", nil, fmt.Errorf("connecting to database: %w", err)
		}
		db := a.cfg.Database
		return pool.Creatures(), fmt.Sprintf("%s:%d/%s", db.Host, db.Port, db.Name), pool.Close, nil
	case config.StoreYAML:
		s, err := yamlstore.New(a.cfg.Import.OutputDir)
		if err != nil {
			return nil, "", nil, err
		}
		return s, s.Dir(), func() {}, nil
	default:
		return nil, "", nil, fmt.Errorf("unknown store %q", a.cfg.Import.Store)
	}
}
