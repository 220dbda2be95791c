package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tetracube/internal/config"
	"github.com/cory-johannsen/tetracube/internal/importer"
	"github.com/cory-johannsen/tetracube/internal/observability"
	"github.com/cory-johannsen/tetracube/internal/statblock"
)

// app carries the state shared by every subcommand once the root command's
// pre-run has loaded configuration.
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "tetracube",
		Short: "Tetra-Cube statblock converter",
		Long: `tetracube reads .monster statblocks exported by Tetra-Cube, derives the
creature's game statistics, expands the shorthand in its ability text, and
writes the result as YAML or into a yaml or postgres creature store.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file (defaults plus TETRACUBE_* env when empty)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(a.convertCmd())
	root.AddCommand(a.importCmd())
	root.AddCommand(a.rollCmd())
	root.AddCommand(a.migrateCmd())
	return root
}

// setup loads configuration and builds the logger. Logs go to the command's
// error stream so that stdout carries only command output.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.configPath == "" {
		a.cfg, err = config.LoadDefaults()
	} else {
		a.cfg, err = config.Load(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.verbose {
		a.cfg.Logging.Level = "debug"
	}

	a.logger, err = observability.NewLogger(a.cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	return nil
}

// convertFile loads and converts the statblock at path. A failure carries
// the same user-facing message the importer would report.
func (a *app) convertFile(path string) (*importer.Result, error) {
	sb, err := statblock.LoadFile(path)
	if err != nil {
		return nil, userError(err)
	}
	res, err := importer.Convert(sb, a.logger)
	if err != nil {
		return nil, userError(err)
	}
	return res, nil
}

func userError(err error) error {
	return fmt.Errorf("%s (%w)", importer.Message(err), err)
}

// streamReporter writes each reported message to w on its own line.
type streamReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *streamReporter) ReportError(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, message)
}
