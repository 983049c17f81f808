// Package hcl loads batches of complex powers from HCL case files.
//
//	variable "x" {}
//	variable "k" { default = 3 }
//
//	power "i_cubed" {
//	  real      = 0
//	  imaginary = 1
//	  exponent  = var.k
//	}
//
// Variables with a default resolve to it. Variables without one stay
// symbolic, so any part that depends on them fails with a NotConstant error
// when evaluated.
package hcl

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"go.uber.org/zap"

	"cpow/core/batch"
	"cpow/core/symbolic"
	"cpow/internal/errors"
	"cpow/internal/logging"
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "variable", LabelNames: []string{"name"}},
		{Type: "power", LabelNames: []string{"name"}},
	},
}

var variableSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default"},
		{Name: "description"},
	},
}

var powerSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "real"},
		{Name: "imaginary"},
		{Name: "exponent", Required: true},
	},
}

// functions are the numeric helpers available in case expressions
var functions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"log":    stdlib.LogFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"pow":    stdlib.PowFunc,
	"signum": stdlib.SignumFunc,
}

// Load reads and parses a case file
func Load(path string) ([]batch.Case, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read case file %s", path)
	}
	return Parse(src, path)
}

// Parse parses case file source. filename is used in diagnostics only.
func Parse(src []byte, filename string) ([]batch.Case, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	vars, diags := declare(content.Blocks)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(vars)},
		Functions: functions,
	}

	l := &loader{src: src, ctx: ctx}
	cases, diags := l.powers(content.Blocks)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	logging.Debug("loaded case file", zap.String("file", filename), zap.Int("cases", len(cases)))
	return cases, nil
}

// declare binds every variable to its default, or to an unknown number
func declare(blocks hcl.Blocks) (map[string]cty.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	vars := make(map[string]cty.Value)
	for _, block := range blocks.OfType("variable") {
		name := block.Labels[0]
		if _, dup := vars[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate variable",
				Detail:   fmt.Sprintf("Variable %q is declared more than once.", name),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}

		content, moreDiags := block.Body.Content(variableSchema)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}
		attr, ok := content.Attributes["default"]
		if !ok {
			vars[name] = cty.UnknownVal(cty.Number)
			continue
		}

		val, moreDiags := attr.Expr.Value(nil)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}
		num, err := convert.Convert(val, cty.Number)
		if err != nil || num.IsNull() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid variable default",
				Detail:   fmt.Sprintf("Default for %q must be a number.", name),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		vars[name] = num
	}
	return vars, diags
}

type loader struct {
	src []byte
	ctx *hcl.EvalContext
}

func (l *loader) powers(blocks hcl.Blocks) ([]batch.Case, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var cases []batch.Case
	seen := make(map[string]bool)

	for _, block := range blocks.OfType("power") {
		name := block.Labels[0]
		if seen[name] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate power",
				Detail:   fmt.Sprintf("Power %q is defined more than once.", name),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		seen[name] = true

		content, moreDiags := block.Body.Content(powerSchema)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}

		realPart, moreDiags := l.value(content.Attributes["real"])
		diags = append(diags, moreDiags...)
		imaginaryPart, moreDiags := l.value(content.Attributes["imaginary"])
		diags = append(diags, moreDiags...)
		exponent, moreDiags := l.value(content.Attributes["exponent"])
		diags = append(diags, moreDiags...)

		cases = append(cases, batch.Case{
			Name:     name,
			Operand:  symbolic.NewComplex(realPart, imaginaryPart),
			Exponent: exponent,
		})
	}
	return cases, diags
}

// value evaluates an attribute. A missing attribute is zero.
func (l *loader) value(attr *hcl.Attribute) (symbolic.Value, hcl.Diagnostics) {
	if attr == nil {
		return symbolic.NumberFromInt(0), nil
	}

	val, diags := attr.Expr.Value(l.ctx)
	if diags.HasErrors() {
		return symbolic.Undefined(), diags
	}
	if !val.IsKnown() {
		return symbolic.Symbol(l.symbolName(attr.Expr)), nil
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil || num.IsNull() {
		return symbolic.Undefined(), hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid number",
			Detail:   fmt.Sprintf("Attribute %q must be a number.", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}

	v, err := symbolic.NumberFromString(num.AsBigFloat().Text('f', -1))
	if err != nil {
		return symbolic.Undefined(), hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid number",
			Detail:   err.Error(),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	return v, nil
}

// symbolName names an unresolved expression: the variable name for a bare
// reference, otherwise the expression source
func (l *loader) symbolName(expr hcl.Expression) string {
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() && len(traversal) == 2 {
		if attr, ok := traversal[1].(hcl.TraverseAttr); ok && traversal.RootName() == "var" {
			return attr.Name
		}
	}
	return string(expr.Range().SliceBytes(l.src))
}

func diagError(filename string, diags hcl.Diagnostics) error {
	err := errors.Parsing("invalid case file "+filename, diags)
	for _, diag := range diags {
		if diag.Severity == hcl.DiagError && diag.Subject != nil {
			return err.WithContext("line", diag.Subject.Start.Line)
		}
	}
	return err
}
