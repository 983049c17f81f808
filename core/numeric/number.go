package numeric

import (
	"github.com/shopspring/decimal"

	"cpow/internal/errors"
)

// Number is a numeric constant in exactly one representation.
// The zero Number is undefined and is rejected by every backend primitive.
type Number struct {
	mode  Mode
	float float64
	dec   decimal.Decimal
}

// Mode returns the mode the number was produced under
func (n Number) Mode() Mode {
	return n.mode
}

// IsDefined reports whether n holds a value
func (n Number) IsDefined() bool {
	return n.mode != modeUnset
}

// Decimal returns the value as a decimal, converting native values by their shortest representation
func (n Number) Decimal() decimal.Decimal {
	switch n.mode {
	case ModeNative:
		return decimal.NewFromFloat(n.float)
	case ModeArbitrary:
		return n.dec
	}
	return decimal.Zero
}

// Float64 returns the value as a float64 (lossy for arbitrary values)
func (n Number) Float64() float64 {
	switch n.mode {
	case ModeNative:
		return n.float
	case ModeArbitrary:
		return n.dec.InexactFloat64()
	}
	return 0
}

// String returns the shortest exact decimal text of the value
func (n Number) String() string {
	if !n.IsDefined() {
		return "<undefined>"
	}
	return n.Decimal().String()
}

// expect verifies that every operand of op is defined and tagged with mode
func expect(mode Mode, op string, operands ...Number) error {
	for _, x := range operands {
		if !x.IsDefined() {
			return errors.Domain(op, "operand was never assigned")
		}
		if x.mode != mode {
			return errors.BackendMismatch(op, mode.String(), x.mode.String())
		}
	}
	return nil
}
