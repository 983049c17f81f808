package power

import (
	"cpow/core/numeric"
	"cpow/internal/errors"
)

// Reconstruct applies De Moivre's formula: r^n·(cos nθ + i·sin nθ).
//
// A zero radius short-circuits without trigonometry: positive exponents give
// zero, a zero exponent gives one and negative exponents are a Domain error.
func Reconstruct(p Polar, exponent numeric.Number, b numeric.Backend) (Rect, error) {
	radiusSign, err := b.Sign(p.Radius)
	if err != nil {
		return Rect{}, err
	}
	switch {
	case radiusSign < 0:
		return Rect{}, errors.Domain("reconstruct", "negative radius")
	case radiusSign == 0:
		return reconstructOrigin(exponent, b)
	}

	newRadius, err := b.Pow(p.Radius, exponent)
	if err != nil {
		return Rect{}, err
	}
	newAngle, err := b.Mul(p.Angle, exponent)
	if err != nil {
		return Rect{}, err
	}

	cos, err := b.Cos(newAngle)
	if err != nil {
		return Rect{}, err
	}
	sin, err := b.Sin(newAngle)
	if err != nil {
		return Rect{}, err
	}

	newReal, err := b.Mul(newRadius, cos)
	if err != nil {
		return Rect{}, err
	}
	newImaginary, err := b.Mul(newRadius, sin)
	if err != nil {
		return Rect{}, err
	}
	return Rect{Real: newReal, Imaginary: newImaginary}, nil
}

func reconstructOrigin(exponent numeric.Number, b numeric.Backend) (Rect, error) {
	exponentSign, err := b.Sign(exponent)
	if err != nil {
		return Rect{}, err
	}
	switch exponentSign {
	case 1:
		return Rect{Real: b.Zero(), Imaginary: b.Zero()}, nil
	case 0:
		return Rect{Real: b.FromInt(1), Imaginary: b.Zero()}, nil
	}
	return Rect{}, errors.Domain("reconstruct", "zero raised to a negative power")
}
