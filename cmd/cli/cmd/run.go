package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cpow/core/batch"
	"cpow/core/output"
	"cpow/core/power"
	"cpow/internal/config"
	"cpow/internal/errors"
	"cpow/internal/logging"
)

// runFlags are the evaluation flags shared by eval and batch.
// Each one overrides its config value only when set.
type runFlags struct {
	mode     string
	format   string
	decimals int32
	digits   int32
	workers  int
	noColor  bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().StringVarP(&f.mode, "mode", "m", defaults.Precision.Mode, "precision mode (native, arbitrary, both)")
	cmd.Flags().StringVarP(&f.format, "format", "f", defaults.Output.Format, "output format (text, json)")
	cmd.Flags().Int32Var(&f.decimals, "decimals", defaults.Output.Decimals, "decimal places shown for each part")
	cmd.Flags().Int32Var(&f.digits, "digits", defaults.Precision.Digits, "significant digits kept in arbitrary mode")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", defaults.Batch.Workers, "concurrent evaluations")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// settings merges flags over the global config
func (f *runFlags) settings(cmd *cobra.Command) (*config.Config, error) {
	merged := *config.Get()
	flags := cmd.Flags()
	if flags.Changed("mode") {
		merged.Precision.Mode = f.mode
	}
	if flags.Changed("format") {
		merged.Output.Format = f.format
	}
	if flags.Changed("decimals") {
		merged.Output.Decimals = f.decimals
	}
	if flags.Changed("digits") {
		merged.Precision.Digits = f.digits
	}
	if flags.Changed("workers") {
		merged.Batch.Workers = f.workers
	}
	if flags.Changed("no-color") {
		merged.Output.NoColor = f.noColor
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// runCases evaluates cases as configured and renders the report to w.
// It fails when any evaluation failed or the modes disagreed.
func (f *runFlags) runCases(ctx context.Context, cmd *cobra.Command, w io.Writer, cases []batch.Case) (*batch.Report, error) {
	cfg, err := f.settings(cmd)
	if err != nil {
		return nil, err
	}
	modes, err := cfg.Modes()
	if err != nil {
		return nil, err
	}
	tolerance, err := cfg.ToleranceDecimal()
	if err != nil {
		return nil, err
	}
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	formatter, err := output.New(format, output.Options{
		Decimals: cfg.Output.Decimals,
		NoColor:  cfg.Output.NoColor,
	})
	if err != nil {
		return nil, err
	}

	evaluator := power.NewEvaluator(power.Config{Digits: cfg.Precision.Digits})
	runner := batch.NewRunner(evaluator, batch.Config{
		Modes:     modes,
		Workers:   cfg.Batch.Workers,
		Tolerance: tolerance,
	})

	logging.Info("evaluating",
		zap.String("command", cmd.Name()),
		zap.Int("cases", len(cases)),
		zap.Stringers("modes", modes),
	)
	report, err := runner.Run(ctx, cases)
	if err != nil {
		return nil, err
	}
	if err := formatter.Render(w, report); err != nil {
		return report, errors.Internal("failed to render output", err)
	}

	switch {
	case report.Stats.Failed == 1 && len(report.Outcomes) == 1:
		return report, report.Outcomes[0].Err
	case report.Stats.Failed > 0:
		return report, errors.Newf(errors.TypeInput, "%d of %d evaluations failed", report.Stats.Failed, report.Stats.Evaluations)
	case report.Stats.Disagreements > 0:
		return report, errors.Newf(errors.TypeInput, "%d cases disagree across modes", report.Stats.Disagreements)
	}
	return report, nil
}
