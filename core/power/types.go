// Package power raises complex operands to real exponents through polar form.
//
// The pipeline is Decompose, ToPolar, Reconstruct. Each stage receives the
// numeric.Backend explicitly and passes named-field values to the next, so no
// stage can reach a value that an earlier one did not bind.
package power

import (
	"fmt"

	"cpow/core/numeric"
	"cpow/core/symbolic"
)

// Rect is a complex number in rectangular form
type Rect struct {
	Real      numeric.Number
	Imaginary numeric.Number
}

// Polar is a complex number as a modulus and a principal angle.
// Radius is never negative and Angle lies in (-π, π].
type Polar struct {
	Radius numeric.Number
	Angle  numeric.Number
}

// Shape classifies which parts of a Rect are exactly zero
type Shape int

const (
	// ShapeZero has both parts zero
	ShapeZero Shape = iota
	// ShapeReal has a zero imaginary part
	ShapeReal
	// ShapeImaginary has a zero real part
	ShapeImaginary
	// ShapeComplex has both parts nonzero
	ShapeComplex
)

// String returns the shape name
func (s Shape) String() string {
	switch s {
	case ShapeZero:
		return "zero"
	case ShapeReal:
		return "real"
	case ShapeImaginary:
		return "imaginary"
	default:
		return "complex"
	}
}

// Shape reports which parts of z are exactly zero
func (z Rect) Shape() Shape {
	realZero := z.Real.Decimal().IsZero()
	imagZero := z.Imaginary.Decimal().IsZero()
	switch {
	case realZero && imagZero:
		return ShapeZero
	case imagZero:
		return ShapeReal
	case realZero:
		return ShapeImaginary
	}
	return ShapeComplex
}

// String returns "(real, imaginary)"
func (z Rect) String() string {
	return fmt.Sprintf("(%s, %s)", z.Real, z.Imaginary)
}

// String returns "radius∠angle"
func (p Polar) String() string {
	return fmt.Sprintf("%s∠%s", p.Radius, p.Angle)
}

// Result is the outcome of one evaluation
type Result struct {
	// Mode is the backend mode the result was computed under
	Mode numeric.Mode

	// Operand and Exponent are the inputs as given
	Operand  symbolic.Complex
	Exponent symbolic.Value

	// Polar is the operand in polar form
	Polar Polar

	// Value is operand^exponent
	Value Rect
}

// Shape reports which parts of the value are exactly zero
func (r Result) Shape() Shape {
	return r.Value.Shape()
}
