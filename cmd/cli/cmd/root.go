// Package cmd provides the CLI commands for cpow.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cpow/internal/config"
	"cpow/internal/logging"
)

// version is overridden at build time with -ldflags "-X cpow/cmd/cli/cmd.version=..."
var version = "0.1.0"

type rootOptions struct {
	cfgFile string
	verbose bool
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cpow",
		Short: "Raise complex numbers to real powers",
		Long: `cpow evaluates z^n for complex z through polar form and De Moivre's formula.

Each evaluation runs under native float64 arithmetic, arbitrary-precision
decimal arithmetic, or both side by side.

Examples:
  cpow eval --im 1 --exp 3
  cpow eval --im 2 --exp 4 --mode both
  cpow batch cases.hcl --format json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (.json, .yaml or .yml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(newEvalCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	defer logging.Sync()
	return NewRootCommand().ExecuteContext(ctx)
}

func initConfig(opts *rootOptions) error {
	cfg := config.Default()
	if opts.cfgFile != "" {
		loaded, err := config.Load(opts.cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}
	config.Set(cfg)

	logCfg := cfg.Logging
	if opts.verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		return fmt.Errorf("error initializing logging: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cpow version %s\n", version)
		},
	}
}
