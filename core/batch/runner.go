// Package batch evaluates many complex powers under several precision modes.
// Evaluations run on a bounded worker pool and the report is ordered by case
// and mode regardless of completion order.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cpow/core/determinism"
	"cpow/core/numeric"
	"cpow/core/power"
	"cpow/core/symbolic"
	"cpow/internal/errors"
	"cpow/internal/logging"
)

// Case is one named power to evaluate
type Case struct {
	Name     string
	Operand  symbolic.Complex
	Exponent symbolic.Value
}

// Config configures a Runner
type Config struct {
	// Modes are evaluated in order; the first is the reference for agreement
	Modes []numeric.Mode

	// Workers bounds concurrent evaluations
	Workers int

	// Tolerance is the relative difference allowed between modes
	Tolerance decimal.Decimal
}

// DefaultConfig returns a config running every mode on all CPUs
func DefaultConfig() Config {
	return Config{
		Modes:     numeric.Modes,
		Workers:   runtime.NumCPU(),
		Tolerance: decimal.New(1, -9),
	}
}

// Runner evaluates batches of cases
type Runner struct {
	evaluator *power.Evaluator
	config    Config
	ids       *determinism.IDGenerator
	logger    *zap.Logger
}

// NewRunner creates a runner backed by evaluator
func NewRunner(evaluator *power.Evaluator, config Config) *Runner {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Tolerance.IsNegative() {
		config.Tolerance = config.Tolerance.Abs()
	}
	return &Runner{
		evaluator: evaluator,
		config:    config,
		ids:       determinism.NewIDGenerator("cpow.case"),
		logger:    logging.Named("batch"),
	}
}

type job struct {
	index int
	id    determinism.StableID
	c     Case
	mode  numeric.Mode
}

// Run evaluates every case under every configured mode.
// Per-case failures are recorded in the report; the returned error is
// reserved for invalid input and cancellation.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Report, error) {
	modes := r.config.Modes
	if len(modes) == 0 {
		return nil, errors.Config("no precision modes selected", nil)
	}
	ids, err := r.caseIDs(cases)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcomes := make([]Outcome, len(cases)*len(modes))

	workers := r.config.Workers
	if len(outcomes) < workers {
		workers = len(outcomes)
	}

	work := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range work {
				outcomes[j.index] = r.evaluate(j)
			}
		}()
	}

dispatch:
	for i, c := range cases {
		for k, mode := range modes {
			select {
			case <-ctx.Done():
				break dispatch
			case work <- job{index: i*len(modes) + k, id: ids[i], c: c, mode: mode}:
			}
		}
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		r.logger.Warn("batch cancelled", zap.Error(err))
		return nil, errors.Wrap(errors.TypeInternal, "batch cancelled", err)
	}

	report := newReport(modes, outcomes, r.config.Tolerance)
	report.Stats.Duration = time.Since(start)
	r.logger.Info("batch complete",
		zap.Int("cases", report.Stats.Cases),
		zap.Int("failed", report.Stats.Failed),
		zap.Int("disagreements", report.Stats.Disagreements),
		zap.Stringer("digest", report.Digest),
	)
	return report, nil
}

// caseIDs validates names and derives stable IDs from case content
func (r *Runner) caseIDs(cases []Case) ([]determinism.StableID, error) {
	seen := determinism.NewStableMap[string, int]()
	ids := make([]determinism.StableID, len(cases))
	for i, c := range cases {
		if strings.TrimSpace(c.Name) == "" {
			return nil, errors.Input(fmt.Sprintf("case %d has no name", i))
		}
		if prev, dup := seen.Get(c.Name); dup {
			return nil, errors.Input(fmt.Sprintf("duplicate case %q", c.Name)).
				WithContext("first", prev).
				WithContext("second", i)
		}
		seen.Set(c.Name, i)
		ids[i] = r.ids.Generate(c.Name, c.Operand.String(), c.Exponent.String())
	}
	return ids, nil
}

func (r *Runner) evaluate(j job) Outcome {
	start := time.Now()
	result, err := r.evaluator.EvaluateMode(j.c.Operand, j.c.Exponent, j.mode)
	out := Outcome{
		ID:       j.id,
		Case:     j.c,
		Mode:     j.mode,
		Result:   result,
		Err:      err,
		Duration: time.Since(start),
	}
	if err != nil {
		r.logger.Debug("case failed",
			zap.String("case", j.c.Name),
			zap.Stringer("mode", j.mode),
			zap.Error(err),
		)
	}
	return out
}
