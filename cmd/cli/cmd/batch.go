package cmd

import (
	"github.com/spf13/cobra"

	"cpow/adapters/hcl"
	"cpow/internal/logging"
)

func newBatchCmd() *cobra.Command {
	opts := &runFlags{}
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Evaluate every power in an HCL case file",
		Long: `Evaluate every power block in an HCL case file.

  variable "k" { default = 4 }

  power "two_i_fourth" {
    real      = 0
    imaginary = 2
    exponent  = var.k
  }

With --mode both each case runs under both backends and the results are
checked for agreement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := hcl.Load(args[0])
			if err != nil {
				return err
			}
			logging.Sugar.Debugf("loaded %d cases from %s", len(cases), args[0])

			_, err = opts.runCases(cmd.Context(), cmd, cmd.OutOrStdout(), cases)
			return err
		},
	}
	opts.register(cmd)
	return cmd
}
