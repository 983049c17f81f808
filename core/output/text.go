package output

import (
	"io"

	"github.com/shopspring/decimal"

	"cpow/core/batch"
	"cpow/core/power"
	"cpow/core/ui"
)

// Text renders z with each part rounded to decimals places.
// Parts that round to zero are omitted, a unit imaginary part prints as "i"
// and the origin prints as "0".
func Text(z power.Rect, decimals int32) string {
	re := z.Real.Decimal().Round(decimals)
	im := z.Imaginary.Decimal().Round(decimals)

	if im.IsZero() {
		if re.IsZero() {
			return "0"
		}
		return re.String()
	}

	term := imaginaryTerm(im)
	switch {
	case re.IsZero():
		return term
	case im.IsNegative():
		return re.String() + term
	}
	return re.String() + "+" + term
}

func imaginaryTerm(im decimal.Decimal) string {
	switch {
	case im.Equal(decimal.NewFromInt(1)):
		return "i"
	case im.Equal(decimal.NewFromInt(-1)):
		return "-i"
	}
	return im.String() + "*i"
}

type textFormatter struct {
	opts Options
}

func (f *textFormatter) Format() Format {
	return FormatText
}

// Render prints a lone successful result as just its value, and anything
// larger as a table followed by agreement warnings and a summary
func (f *textFormatter) Render(w io.Writer, report *batch.Report) error {
	out := ui.NewAutoWriter(w)
	if f.opts.NoColor {
		out = ui.NewWriter(w, true)
	}

	if len(report.Outcomes) == 1 && report.Outcomes[0].OK() {
		out.Println("%s", Text(report.Outcomes[0].Result.Value, f.opts.Decimals))
		return nil
	}

	table := out.NewTable("CASE", "MODE", "VALUE")
	for _, o := range report.Outcomes {
		value := "error: " + errorText(o.Err)
		if o.OK() {
			value = Text(o.Result.Value, f.opts.Decimals)
		}
		table.AddRow(o.Case.Name, o.Mode.String(), value)
	}
	table.Render()

	if report.Stats.Disagreements > 0 {
		out.Header("Disagreements")
	}
	report.Comparisons.Range(func(name string, cmp batch.Comparison) bool {
		if !cmp.Agree {
			out.Warning("%s: modes differ by %s", name, cmp.MaxDelta.String())
		}
		return true
	})

	stats := report.Stats
	if stats.Failed > 0 {
		out.Error("%d of %d evaluations failed", stats.Failed, stats.Evaluations)
	} else {
		out.Success("%d cases, %d evaluations", stats.Cases, stats.Evaluations)
	}
	out.Faint("digest %s", report.Digest)
	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
