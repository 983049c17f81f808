package symbolic

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		kind     ValueKind
		constant bool
		text     string
	}{
		{"zero value is undefined", Value{}, KindUndefined, false, "(undefined)"},
		{"integer", NumberFromInt(-3), KindNumber, true, "-3"},
		{"float", NumberFromFloat(0.5), KindNumber, true, "0.5"},
		{"exponent literal", MustNumber("2.5e2"), KindNumber, true, "250"},
		{"symbol", Symbol("x"), KindSymbol, false, "x"},
		{"non-finite float", NumberFromFloat(math.Inf(1)), KindUndefined, false, "(undefined)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.constant, tt.value.IsConstant())
			assert.Equal(t, tt.text, tt.value.String())
		})
	}
}

func TestLiteralOnlyForNumbers(t *testing.T) {
	lit, err := MustNumber("0.10").Literal()
	require.NoError(t, err)
	assert.Equal(t, "0.1", lit)

	_, err = Symbol("y").Literal()
	assert.Error(t, err)

	_, err = Undefined().Decimal()
	assert.Error(t, err)
}

func TestNumberFromStringRejectsGarbage(t *testing.T) {
	_, err := NumberFromString("two")
	assert.Error(t, err)

	assert.Panics(t, func() { MustNumber("") })
}

func TestFromGo(t *testing.T) {
	assert.True(t, FromGo(nil).IsUndefined())
	assert.True(t, FromGo(2).Equals(NumberFromInt(2)))
	assert.True(t, FromGo(int64(7)).Equals(NumberFromInt(7)))
	assert.True(t, FromGo(1.25).Equals(MustNumber("1.25")))
	assert.True(t, FromGo(decimal.NewFromInt(4)).Equals(NumberFromInt(4)))
	assert.True(t, FromGo("3").Equals(NumberFromInt(3)))
	assert.True(t, FromGo("theta").Equals(Symbol("theta")))
	assert.True(t, FromGo([]int{1}).IsUndefined())
}

func TestEquals(t *testing.T) {
	assert.True(t, MustNumber("1.0").Equals(NumberFromInt(1)))
	assert.False(t, NumberFromInt(1).Equals(Symbol("1")))
	assert.False(t, Symbol("a").Equals(Symbol("b")))
	assert.True(t, Undefined().Equals(Value{}))
}

func TestComplex(t *testing.T) {
	i := I()
	assert.True(t, i.IsConstant())
	assert.Equal(t, "(0, 1)", i.String())
	assert.True(t, Scale(2).Equals(NewComplex(NumberFromInt(0), NumberFromInt(2))))

	partial := NewComplex(Symbol("x"), NumberFromInt(1))
	assert.False(t, partial.IsConstant())

	var unset Complex
	assert.False(t, unset.IsConstant())
	assert.True(t, unset.Real.IsUndefined())
}
