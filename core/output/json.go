package output

import (
	"encoding/json"
	"io"

	"cpow/core/batch"
	"cpow/core/numeric"
	"cpow/internal/errors"
)

type jsonFormatter struct {
	opts Options
}

func (f *jsonFormatter) Format() Format {
	return FormatJSON
}

type jsonReport struct {
	Modes       []numeric.Mode   `json:"modes"`
	Results     []jsonResult     `json:"results"`
	Comparisons []jsonComparison `json:"comparisons,omitempty"`
	Stats       jsonStats        `json:"stats"`
	Digest      string           `json:"digest"`
}

type jsonResult struct {
	ID        string       `json:"id"`
	Case      string       `json:"case"`
	Mode      numeric.Mode `json:"mode"`
	Operand   string       `json:"operand"`
	Exponent  string       `json:"exponent"`
	Value     string       `json:"value,omitempty"`
	Real      string       `json:"real,omitempty"`
	Imaginary string       `json:"imaginary,omitempty"`
	Radius    string       `json:"radius,omitempty"`
	Angle     string       `json:"angle,omitempty"`
	Error     *jsonError   `json:"error,omitempty"`
}

type jsonError struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

type jsonComparison struct {
	Case      string       `json:"case"`
	Reference numeric.Mode `json:"reference"`
	MaxDelta  string       `json:"max_delta"`
	Agree     bool         `json:"agree"`
}

type jsonStats struct {
	Cases         int   `json:"cases"`
	Evaluations   int   `json:"evaluations"`
	Succeeded     int   `json:"succeeded"`
	Failed        int   `json:"failed"`
	NotConstant   int   `json:"not_constant"`
	Disagreements int   `json:"disagreements"`
	DurationMS    int64 `json:"duration_ms"`
}

// Render writes the report as indented JSON. Parts are exact decimal strings
// holding every significant digit the mode kept.
func (f *jsonFormatter) Render(w io.Writer, report *batch.Report) error {
	doc := jsonReport{
		Modes:   report.Modes,
		Results: make([]jsonResult, 0, len(report.Outcomes)),
		Digest:  report.Digest.Hex(),
		Stats: jsonStats{
			Cases:         report.Stats.Cases,
			Evaluations:   report.Stats.Evaluations,
			Succeeded:     report.Stats.Succeeded,
			Failed:        report.Stats.Failed,
			NotConstant:   report.Stats.NotConstant,
			Disagreements: report.Stats.Disagreements,
			DurationMS:    report.Stats.Duration.Milliseconds(),
		},
	}

	for _, o := range report.Outcomes {
		r := jsonResult{
			ID:       string(o.ID),
			Case:     o.Case.Name,
			Mode:     o.Mode,
			Operand:  o.Case.Operand.String(),
			Exponent: o.Case.Exponent.String(),
		}
		if o.OK() {
			value := o.Result.Value
			r.Value = Text(value, f.opts.Decimals)
			r.Real = value.Real.String()
			r.Imaginary = value.Imaginary.String()
			r.Radius = o.Result.Polar.Radius.String()
			r.Angle = o.Result.Polar.Angle.String()
		} else {
			t, _ := errors.TypeOf(o.Err)
			r.Error = &jsonError{Type: string(t), Message: o.Err.Error()}
		}
		doc.Results = append(doc.Results, r)
	}

	report.Comparisons.Range(func(_ string, cmp batch.Comparison) bool {
		doc.Comparisons = append(doc.Comparisons, jsonComparison{
			Case:      cmp.Case,
			Reference: cmp.Reference,
			MaxDelta:  cmp.MaxDelta.String(),
			Agree:     cmp.Agree,
		})
		return true
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
