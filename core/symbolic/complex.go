package symbolic

import "fmt"

// Complex is the operand real + imaginary·i
type Complex struct {
	Real      Value
	Imaginary Value
}

// NewComplex creates an operand from its parts
func NewComplex(realPart, imaginaryPart Value) Complex {
	return Complex{Real: realPart, Imaginary: imaginaryPart}
}

// I returns the imaginary unit
func I() Complex {
	return Complex{Real: NumberFromInt(0), Imaginary: NumberFromInt(1)}
}

// Scale returns the operand k·i, so Scale(2) is 2i
func Scale(k int64) Complex {
	return Complex{Real: NumberFromInt(0), Imaginary: NumberFromInt(k)}
}

// IsConstant returns true if both parts are numeric constants
func (c Complex) IsConstant() bool {
	return c.Real.IsConstant() && c.Imaginary.IsConstant()
}

// Equals compares operands part by part
func (c Complex) Equals(other Complex) bool {
	return c.Real.Equals(other.Real) && c.Imaginary.Equals(other.Imaginary)
}

// String returns "(real, imaginary)"
func (c Complex) String() string {
	return fmt.Sprintf("(%s, %s)", c.Real, c.Imaginary)
}
