// Package symbolic provides the operand values handed to complex evaluation.
// A value is either a numeric constant, a named symbol that has no numeric
// value yet, or undefined.
package symbolic

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ValueKind represents the kind of a value
type ValueKind int

const (
	// KindUndefined is the zero value: nothing was ever bound
	KindUndefined ValueKind = iota
	// KindNumber is an exact decimal constant
	KindNumber
	// KindSymbol is a named unknown
	KindSymbol
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSymbol:
		return "symbol"
	default:
		return "undefined"
	}
}

// Value is a symbolic scalar
type Value struct {
	kind    ValueKind
	number  decimal.Decimal
	literal string
	name    string
}

// Undefined returns the undefined value
func Undefined() Value {
	return Value{}
}

// Number creates a constant from a decimal
func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, number: d, literal: d.String()}
}

// NumberFromString creates a constant from a decimal literal such as "-2.5" or "1e-3"
func NumberFromString(s string) (Value, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, fmt.Errorf("invalid numeric literal %q: %w", s, err)
	}
	return Number(d), nil
}

// MustNumber is NumberFromString that panics on malformed input
func MustNumber(s string) Value {
	v, err := NumberFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// NumberFromInt creates a constant from an integer
func NumberFromInt(v int64) Value {
	return Number(decimal.NewFromInt(v))
}

// NumberFromFloat creates a constant from a finite float64.
// Non-finite input yields an undefined value.
func NumberFromFloat(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Number(decimal.NewFromFloat(v))
}

// Symbol creates a named unknown
func Symbol(name string) Value {
	return Value{kind: KindSymbol, name: name}
}

// FromGo converts a Go value to a Value
func FromGo(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return Undefined()
	case Value:
		return val
	case int:
		return NumberFromInt(int64(val))
	case int64:
		return NumberFromInt(val)
	case float64:
		return NumberFromFloat(val)
	case decimal.Decimal:
		return Number(val)
	case string:
		if n, err := NumberFromString(val); err == nil {
			return n
		}
		return Symbol(val)
	}
	return Undefined()
}

// Kind returns the value kind
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsUndefined returns true if nothing was bound
func (v Value) IsUndefined() bool {
	return v.kind == KindUndefined
}

// IsConstant returns true if the value is a numeric constant
func (v Value) IsConstant() bool {
	return v.kind == KindNumber
}

// Literal returns the exact decimal text of a constant
func (v Value) Literal() (string, error) {
	if v.kind != KindNumber {
		return "", fmt.Errorf("value is %v, not number", v.kind)
	}
	return v.literal, nil
}

// Decimal returns the constant as a decimal
func (v Value) Decimal() (decimal.Decimal, error) {
	if v.kind != KindNumber {
		return decimal.Zero, fmt.Errorf("value is %v, not number", v.kind)
	}
	return v.number, nil
}

// Name returns the symbol name, empty for other kinds
func (v Value) Name() string {
	return v.name
}

// Equals compares values for equality
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUndefined:
		return true
	case KindNumber:
		return v.number.Equal(other.number)
	case KindSymbol:
		return v.name == other.name
	}
	return false
}

// String returns a string representation
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.literal
	case KindSymbol:
		return v.name
	default:
		return "(undefined)"
	}
}
