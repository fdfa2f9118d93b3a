package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds state shared by every subcommand.
type globals struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Diff and patch virtual DOM trees",
		Long: `Reconcile diffs two virtual trees and patches a live tree rendered
from the first into the second.

Trees are read from HTML, YAML or JSON files. Patches can be printed
as text or written in a compact binary encoding.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to reconcile.json (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		diffCmd(g),
		applyCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger.
func (g *globals) setup(stderr io.Writer) error {
	var err error
	if g.configPath != "" {
		g.cfg, err = config.LoadFile(g.configPath)
	} else {
		g.cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}

	level := g.cfg.LogLevel()
	if g.verbose {
		level = slog.LevelDebug
	}
	g.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	g.logger.Debug("configuration loaded", "path", g.cfg.Path(), "format", g.cfg.Output.Format)
	return nil
}

// printf writes a formatted line to w, ignoring write errors the way
// fmt.Printf does.
func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
