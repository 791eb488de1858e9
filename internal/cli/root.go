// Package cli implements the sigdemo command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/signalgraph/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Stats      bool
	Format     string // "text" | "json" | "yaml"

	// loaded before any subcommand runs
	Config config.Config
}

// ValidFormats defines the allowed output formats for the stats report.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the sigdemo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sigdemo",
		Short: "sigdemo - reactive graph demos",
		Long:  "Runs small programs on a signal graph runtime and prints what their effects render.",

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			c, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			opts.Config = c
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/sigdemo/config.toml)")
	flags.Int("max-passes", 1000, "passes per flush before re-triggered computations are left queued")
	flags.String("log-level", "warn", "log level (debug|info|warn|error)")
	flags.String("log-format", "text", "log format (text|json)")
	flags.Bool("metrics", false, "print Prometheus metrics after the run")
	flags.Bool("trace", false, "emit OpenTelemetry spans through the global tracer provider")
	flags.BoolVar(&opts.Stats, "stats", false, "print runtime stats after the run")
	flags.StringVar(&opts.Format, "format", "text", "stats output format (text|json|yaml)")

	// Add subcommands
	cmd.AddCommand(NewToggleCommand(opts))
	cmd.AddCommand(NewControlledCommand(opts))
	cmd.AddCommand(NewUncontrolledCommand(opts))
	cmd.AddCommand(NewOddCommand(opts))
	cmd.AddCommand(NewNumericCommand(opts))
	cmd.AddCommand(NewProgressCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
