// Package numeric provides the arithmetic backends used by complex evaluation.
// Every value is tagged with the precision mode that produced it and a backend
// refuses values carrying any other tag.
package numeric

import (
	"strings"

	"cpow/internal/errors"
)

// Mode selects the representation used for numeric values
type Mode int

const (
	// modeUnset is the tag of an undefined Number
	modeUnset Mode = iota

	// ModeNative uses float64 arithmetic
	ModeNative

	// ModeArbitrary uses arbitrary-precision decimal arithmetic
	ModeArbitrary
)

// Modes lists the selectable modes in evaluation order
var Modes = []Mode{ModeNative, ModeArbitrary}

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeNative:
		return "native"
	case ModeArbitrary:
		return "arbitrary"
	default:
		return "unset"
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "float", "float64":
		return ModeNative, nil
	case "arbitrary", "big", "decimal":
		return ModeArbitrary, nil
	}
	return modeUnset, errors.Newf(errors.TypeConfig, "unknown precision mode %q (want native or arbitrary)", s)
}
