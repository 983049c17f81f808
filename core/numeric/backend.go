package numeric

import (
	"github.com/shopspring/decimal"

	"cpow/internal/errors"
)

// DefaultDigits is the number of significant digits kept by the arbitrary backend
const DefaultDigits int32 = 40

// Backend supplies the primitive operations over one representation.
// All operands must carry the backend's Mode.
type Backend interface {
	// Mode returns the representation this backend produces
	Mode() Mode

	// Parse converts a decimal literal into a Number.
	// Text that is not a numeric literal fails with a NotConstant error.
	Parse(literal string) (Number, error)

	// FromInt converts an integer
	FromInt(v int64) Number

	// Zero returns the additive identity
	Zero() Number

	Add(a, b Number) (Number, error)
	Mul(a, b Number) (Number, error)

	// Sqrt returns the non-negative square root
	Sqrt(x Number) (Number, error)

	// Hypot returns sqrt(x² + y²) without overflow or underflow in the squares
	Hypot(x, y Number) (Number, error)

	// Atan2 returns the principal angle of (x, y) in (-π, π]
	Atan2(y, x Number) (Number, error)

	// Sin and Cos carry the backend's full precision
	Sin(x Number) (Number, error)
	Cos(x Number) (Number, error)

	// Pow returns base raised to a real exponent
	Pow(base, exp Number) (Number, error)

	// Sign returns -1, 0 or +1
	Sign(x Number) (int, error)
}

// ForMode returns the backend for mode. digits applies to ModeArbitrary
// and falls back to DefaultDigits when not positive.
func ForMode(mode Mode, digits int32) (Backend, error) {
	switch mode {
	case ModeNative:
		return Native(), nil
	case ModeArbitrary:
		return NewArbitrary(digits), nil
	}
	return nil, errors.Newf(errors.TypeConfig, "no backend for precision mode %s", mode)
}

// parseLiteral parses decimal text shared by both backends
func parseLiteral(literal string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, errors.NotConstant(literal)
	}
	return d, nil
}
