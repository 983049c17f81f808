package cmd

import (
	"github.com/spf13/cobra"

	"cpow/core/batch"
	"cpow/core/symbolic"
)

type evalOptions struct {
	runFlags
	real      string
	imaginary string
	exponent  string
}

func newEvalCmd() *cobra.Command {
	opts := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one complex power",
		Long: `Evaluate (re + im*i)^exp.

Parts that are not numbers are kept as symbols and the evaluation fails
with a not-constant error.

Examples:
  cpow eval --im 1 --exp 3
  cpow eval --re 1.5 --im -0.5 --exp 0.5 --mode arbitrary --digits 60
  cpow eval --im 2 --exp 4 --mode both --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := batch.Case{
				Name: "eval",
				Operand: symbolic.NewComplex(
					symbolic.FromGo(opts.real),
					symbolic.FromGo(opts.imaginary),
				),
				Exponent: symbolic.FromGo(opts.exponent),
			}
			_, err := opts.runCases(cmd.Context(), cmd, cmd.OutOrStdout(), []batch.Case{c})
			return err
		},
	}

	cmd.Flags().StringVar(&opts.real, "re", "0", "real part")
	cmd.Flags().StringVar(&opts.imaginary, "im", "0", "imaginary part")
	cmd.Flags().StringVarP(&opts.exponent, "exp", "n", "1", "real exponent")
	opts.register(cmd)
	return cmd
}
