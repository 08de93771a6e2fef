// Package cli implements the pharmalens command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/PharmaLens/internal/application/analysis"
	"github.com/turtacn/PharmaLens/internal/bootstrap"
	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string
	Timeout    time.Duration
}

// ServiceBuilder constructs the analysis pipeline for a command run and
// returns a cleanup function.  Tests swap this for a fake.
type ServiceBuilder func(ctx context.Context, cfg *config.Config, logger logging.Logger) (analysis.Service, func(), error)

// Dependencies carries everything the command tree needs beyond flags.
type Dependencies struct {
	BuildService ServiceBuilder
}

// defaultBuildService wires the real pipeline through bootstrap.  The CLI
// skips metrics since there is nothing to scrape them.
func defaultBuildService(ctx context.Context, cfg *config.Config, logger logging.Logger) (analysis.Service, func(), error) {
	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{SkipMetrics: true})
	if err != nil {
		return nil, nil, err
	}
	return app.Service, app.Close, nil
}

// NewRootCommand creates the root command with all global flags and
// subcommands attached.
func NewRootCommand(deps Dependencies) *cobra.Command {
	if deps.BuildService == nil {
		deps.BuildService = defaultBuildService
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "pharmalens",
		Short:   "PharmaLens CLI — compound resolution and validation pipeline",
		Long:    "PharmaLens aggregates pharmaceutical compound information from a\nstructure database, a generative model, and vocabulary/regulatory sources\ninto a single confidence-scored analysis record.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment variables only)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "json", "output format (json, text)")
	pf.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "overall analysis timeout")

	cmd.AddCommand(
		newAnalyzeCommand(opts, deps),
		newVersionCommand(),
	)

	return cmd
}

// loadConfig honours --config when given and falls back to environment
// variables otherwise.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	return config.LoadFromEnv()
}

// newCLILogger builds a stderr console logger so JSON output on stdout stays
// machine-readable.
func newCLILogger(opts *RootOptions) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:            strings.ToLower(opts.LogLevel),
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// printJSON writes data as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Execute runs the CLI with the real pipeline wiring.
func Execute() error {
	cmd := NewRootCommand(Dependencies{})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}
