package power

import (
	"cpow/core/numeric"
)

// ToPolar converts z to polar form.
// The origin maps to a zero radius and angle without calling Hypot or Atan2.
func ToPolar(z Rect, b numeric.Backend) (Polar, error) {
	realSign, err := b.Sign(z.Real)
	if err != nil {
		return Polar{}, err
	}
	imaginarySign, err := b.Sign(z.Imaginary)
	if err != nil {
		return Polar{}, err
	}
	if realSign == 0 && imaginarySign == 0 {
		return Polar{Radius: b.Zero(), Angle: b.Zero()}, nil
	}

	radius, err := b.Hypot(z.Real, z.Imaginary)
	if err != nil {
		return Polar{}, err
	}

	angle, err := b.Atan2(z.Imaginary, z.Real)
	if err != nil {
		return Polar{}, err
	}
	return Polar{Radius: radius, Angle: angle}, nil
}
