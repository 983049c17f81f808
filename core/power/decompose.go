package power

import (
	"cpow/core/numeric"
	"cpow/core/symbolic"
	"cpow/internal/errors"
)

// Decompose converts both parts of op into numbers of b's mode.
// A symbol yields a NotConstant error and an undefined part a Domain error.
func Decompose(op symbolic.Complex, b numeric.Backend) (Rect, error) {
	realPart, err := constant("real part", op.Real, b)
	if err != nil {
		return Rect{}, err
	}
	imaginaryPart, err := constant("imaginary part", op.Imaginary, b)
	if err != nil {
		return Rect{}, err
	}
	return Rect{Real: realPart, Imaginary: imaginaryPart}, nil
}

// Exponent converts a scalar exponent into a number of b's mode
func Exponent(exp symbolic.Value, b numeric.Backend) (numeric.Number, error) {
	return constant("exponent", exp, b)
}

func constant(what string, v symbolic.Value, b numeric.Backend) (numeric.Number, error) {
	switch v.Kind() {
	case symbolic.KindUndefined:
		return numeric.Number{}, errors.Domain("decompose", what+" is undefined")
	case symbolic.KindSymbol:
		return numeric.Number{}, errors.NotConstant(what+" "+v.Name()).WithContext("symbol", v.Name())
	}
	literal, err := v.Literal()
	if err != nil {
		return numeric.Number{}, errors.Internal("decompose "+what, err)
	}
	return b.Parse(literal)
}
