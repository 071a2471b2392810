// Package cli wires the doorlog subcommands.
package cli

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/doorlog/doorlog/internal/config"
	"github.com/doorlog/doorlog/internal/store"
	"github.com/doorlog/doorlog/internal/store/memory"
	"github.com/doorlog/doorlog/internal/store/sqlite"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Quiet      bool
}

// NewRootCommand creates the doorlog root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "doorlog",
		Short:         "Audit-event store for the door controller",
		Long:          "doorlog ingests door-controller action logs into month-sharded stores and serves the metrics API over them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress log output")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.ConfigPath)
}

func (o *RootOptions) newLogger() *log.Logger {
	out := io.Writer(os.Stderr)
	if o.Quiet {
		out = io.Discard
	}
	return log.New(out, "doorlog ", log.LstdFlags|log.LUTC)
}

// openStore builds the configured event store backend.
func openStore(cfg config.Config) store.EventStore {
	if cfg.Store == "memory" {
		return memory.New()
	}
	return sqlite.New(cfg.MetricsPath)
}
