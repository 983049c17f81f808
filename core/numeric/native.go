package numeric

import (
	"math"

	"cpow/internal/errors"
)

type nativeBackend struct{}

// Native returns the float64 backend
func Native() Backend {
	return nativeBackend{}
}

func (nativeBackend) Mode() Mode { return ModeNative }

func (b nativeBackend) Parse(literal string) (Number, error) {
	d, err := parseLiteral(literal)
	if err != nil {
		return Number{}, err
	}
	return b.wrap("parse", d.InexactFloat64())
}

func (nativeBackend) FromInt(v int64) Number {
	return Number{mode: ModeNative, float: float64(v)}
}

func (nativeBackend) Zero() Number {
	return Number{mode: ModeNative}
}

func (b nativeBackend) Add(x, y Number) (Number, error) {
	if err := expect(ModeNative, "add", x, y); err != nil {
		return Number{}, err
	}
	return b.wrap("add", x.float+y.float)
}

func (b nativeBackend) Mul(x, y Number) (Number, error) {
	if err := expect(ModeNative, "mul", x, y); err != nil {
		return Number{}, err
	}
	return b.wrap("mul", x.float*y.float)
}

func (b nativeBackend) Sqrt(x Number) (Number, error) {
	if err := expect(ModeNative, "sqrt", x); err != nil {
		return Number{}, err
	}
	if x.float < 0 {
		return Number{}, errors.Domain("sqrt", "negative radicand")
	}
	return b.wrap("sqrt", math.Sqrt(x.float))
}

func (b nativeBackend) Hypot(x, y Number) (Number, error) {
	if err := expect(ModeNative, "hypot", x, y); err != nil {
		return Number{}, err
	}
	return b.wrap("hypot", math.Hypot(x.float, y.float))
}

func (b nativeBackend) Atan2(y, x Number) (Number, error) {
	if err := expect(ModeNative, "atan2", y, x); err != nil {
		return Number{}, err
	}
	if y.float == 0 && x.float == 0 {
		return Number{}, errors.Domain("atan2", "angle of the origin is undefined")
	}
	angle := math.Atan2(y.float, x.float)
	// a negative zero imaginary part yields -π; the principal range is (-π, π]
	if angle == -math.Pi {
		angle = math.Pi
	}
	return b.wrap("atan2", angle)
}

func (b nativeBackend) Sin(x Number) (Number, error) {
	if err := expect(ModeNative, "sin", x); err != nil {
		return Number{}, err
	}
	return b.wrap("sin", math.Sin(x.float))
}

func (b nativeBackend) Cos(x Number) (Number, error) {
	if err := expect(ModeNative, "cos", x); err != nil {
		return Number{}, err
	}
	return b.wrap("cos", math.Cos(x.float))
}

func (b nativeBackend) Pow(base, exp Number) (Number, error) {
	if err := expect(ModeNative, "pow", base, exp); err != nil {
		return Number{}, err
	}
	if base.float == 0 && exp.float < 0 {
		return Number{}, errors.Domain("pow", "zero raised to a negative power")
	}
	return b.wrap("pow", math.Pow(base.float, exp.float))
}

func (nativeBackend) Sign(x Number) (int, error) {
	if err := expect(ModeNative, "sign", x); err != nil {
		return 0, err
	}
	switch {
	case x.float > 0:
		return 1, nil
	case x.float < 0:
		return -1, nil
	}
	return 0, nil
}

// wrap rejects results that are not finite
func (nativeBackend) wrap(op string, v float64) (Number, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}, errors.Domain(op, "result is not a finite number")
	}
	return Number{mode: ModeNative, float: v}, nil
}
