package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cpow/core/determinism"
	"cpow/core/numeric"
	"cpow/core/power"
	"cpow/internal/errors"
)

// Outcome is the evaluation of one case under one mode
type Outcome struct {
	ID       determinism.StableID
	Case     Case
	Mode     numeric.Mode
	Result   power.Result
	Err      error
	Duration time.Duration
}

// OK reports whether the evaluation succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Comparison checks one case's results across modes against the reference mode
type Comparison struct {
	Case      string
	Reference numeric.Mode
	MaxDelta  decimal.Decimal
	Agree     bool
}

// Stats summarises a report
type Stats struct {
	Cases         int
	Evaluations   int
	Succeeded     int
	Failed        int
	NotConstant   int
	Disagreements int
	Duration      time.Duration
}

// Report is the ordered result of a batch run
type Report struct {
	// Modes are the modes each case was evaluated under
	Modes []numeric.Mode

	// Outcomes are ordered by case, then by mode
	Outcomes []Outcome

	// Comparisons are keyed by case name for cases where two or more modes succeeded
	Comparisons *determinism.StableMap[string, Comparison]

	Stats Stats

	// Digest hashes every outcome's value or error and is stable across runs
	Digest determinism.ContentHash
}

// Case returns the outcomes for the named case in mode order
func (r *Report) Case(name string) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Case.Name == name {
			out = append(out, o)
		}
	}
	return out
}

func newReport(modes []numeric.Mode, outcomes []Outcome, tolerance decimal.Decimal) *Report {
	report := &Report{
		Modes:       modes,
		Outcomes:    outcomes,
		Comparisons: determinism.NewStableMap[string, Comparison](),
	}
	report.Stats.Evaluations = len(outcomes)
	if len(modes) > 0 {
		report.Stats.Cases = len(outcomes) / len(modes)
	}

	var canonical strings.Builder
	for _, o := range outcomes {
		if o.OK() {
			report.Stats.Succeeded++
			fmt.Fprintf(&canonical, "%s\x00%s\x00%s\n", o.ID, o.Mode, o.Result.Value)
			continue
		}
		report.Stats.Failed++
		if errors.IsType(o.Err, errors.TypeNotConstant) {
			report.Stats.NotConstant++
		}
		fmt.Fprintf(&canonical, "%s\x00%s\x00error: %v\n", o.ID, o.Mode, o.Err)
	}
	report.Digest = determinism.ComputeHash([]byte(canonical.String()))

	for i := 0; i+len(modes) <= len(outcomes) && len(modes) > 1; i += len(modes) {
		cmp, ok := compare(outcomes[i:i+len(modes)], tolerance)
		if !ok {
			continue
		}
		if !cmp.Agree {
			report.Stats.Disagreements++
		}
		report.Comparisons.Set(cmp.Case, cmp)
	}
	return report
}

// compare measures each successful outcome against the first successful one.
// The allowed difference is tolerance scaled by the reference magnitude, floored at one.
func compare(group []Outcome, tolerance decimal.Decimal) (Comparison, bool) {
	var ref *Outcome
	maxDelta := decimal.Zero
	compared := 0
	for i := range group {
		o := &group[i]
		if !o.OK() {
			continue
		}
		if ref == nil {
			ref = o
			continue
		}
		compared++
		maxDelta = decimal.Max(maxDelta,
			delta(ref.Result.Value.Real, o.Result.Value.Real),
			delta(ref.Result.Value.Imaginary, o.Result.Value.Imaginary),
		)
	}
	if compared == 0 {
		return Comparison{}, false
	}

	scale := decimal.Max(decimal.NewFromInt(1),
		ref.Result.Value.Real.Decimal().Abs(),
		ref.Result.Value.Imaginary.Decimal().Abs(),
	)
	return Comparison{
		Case:      ref.Case.Name,
		Reference: ref.Mode,
		MaxDelta:  maxDelta,
		Agree:     maxDelta.LessThanOrEqual(tolerance.Mul(scale)),
	}, true
}

func delta(a, b numeric.Number) decimal.Decimal {
	return a.Decimal().Sub(b.Decimal()).Abs()
}
