package power

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cpow/core/numeric"
	"cpow/core/symbolic"
	"cpow/internal/errors"
)

const epsilon = 1e-9

func newTestEvaluator() *Evaluator {
	return NewEvaluator(DefaultConfig()).WithLogger(zap.NewNop())
}

func operand(re, im string) symbolic.Complex {
	return symbolic.NewComplex(symbolic.MustNumber(re), symbolic.MustNumber(im))
}

func assertRect(t *testing.T, wantReal, wantImaginary float64, got Rect) {
	t.Helper()
	tolerance := func(want float64) float64 { return epsilon * math.Max(1, math.Abs(want)) }
	assert.InDelta(t, wantReal, got.Real.Float64(), tolerance(wantReal), "real part of %s", got)
	assert.InDelta(t, wantImaginary, got.Imaginary.Float64(), tolerance(wantImaginary), "imaginary part of %s", got)
}

// assertClose compares got against want relative to the larger part of want,
// so operands far from unit magnitude are held to the same standard
func assertClose(t *testing.T, want, got Rect) {
	t.Helper()
	scale := math.Max(math.Abs(want.Real.Float64()), math.Abs(want.Imaginary.Float64()))
	tolerance := epsilon * scale
	assert.InDelta(t, want.Real.Float64(), got.Real.Float64(), tolerance, "real part of %s, want %s", got, want)
	assert.InDelta(t, want.Imaginary.Float64(), got.Imaginary.Float64(), tolerance, "imaginary part of %s, want %s", got, want)
}

// countingBackend records every primitive call and the arguments given to Atan2
type countingBackend struct {
	numeric.Backend
	mu        sync.Mutex
	calls     map[string]int
	atan2Args [][2]numeric.Number
}

func newCountingBackend(b numeric.Backend) *countingBackend {
	return &countingBackend{Backend: b, calls: map[string]int{}}
}

func (c *countingBackend) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[op]++
}

func (c *countingBackend) Sqrt(x numeric.Number) (numeric.Number, error) {
	c.record("sqrt")
	return c.Backend.Sqrt(x)
}

func (c *countingBackend) Hypot(x, y numeric.Number) (numeric.Number, error) {
	c.record("hypot")
	return c.Backend.Hypot(x, y)
}

func (c *countingBackend) Atan2(y, x numeric.Number) (numeric.Number, error) {
	c.record("atan2")
	c.mu.Lock()
	c.atan2Args = append(c.atan2Args, [2]numeric.Number{y, x})
	c.mu.Unlock()
	return c.Backend.Atan2(y, x)
}

func (c *countingBackend) Sin(x numeric.Number) (numeric.Number, error) {
	c.record("sin")
	return c.Backend.Sin(x)
}

func (c *countingBackend) Cos(x numeric.Number) (numeric.Number, error) {
	c.record("cos")
	return c.Backend.Cos(x)
}

func (c *countingBackend) trig() int {
	return c.calls["sqrt"] + c.calls["hypot"] + c.calls["atan2"] + c.calls["sin"] + c.calls["cos"]
}

func TestImaginaryUnitPowers(t *testing.T) {
	tests := []struct {
		name          string
		operand       symbolic.Complex
		exponent      int64
		wantReal      float64
		wantImaginary float64
	}{
		{"i^3", symbolic.I(), 3, 0, -1},
		{"i^4", symbolic.I(), 4, 1, 0},
		{"(2i)^2", symbolic.Scale(2), 2, -4, 0},
		{"(2i)^3", symbolic.Scale(2), 3, 0, -8},
		{"(2i)^4", symbolic.Scale(2), 4, 16, 0},
		{"i^1", symbolic.I(), 1, 0, 1},
		{"i^-1", symbolic.I(), -1, 0, -1},
		{"(-i)^2", symbolic.Scale(-1), 2, -1, 0},
	}

	e := newTestEvaluator()
	for _, mode := range numeric.Modes {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/%s", mode, tt.name), func(t *testing.T) {
				result, err := e.EvaluateMode(tt.operand, symbolic.NumberFromInt(tt.exponent), mode)
				require.NoError(t, err)
				assert.Equal(t, mode, result.Mode)
				assertRect(t, tt.wantReal, tt.wantImaginary, result.Value)
			})
		}
	}
}

func TestModesAgree(t *testing.T) {
	small := []int64{-3, -2, -1, 0, 1, 2, 3, 4, 5, 6}
	tests := []struct {
		operand   symbolic.Complex
		exponents []int64
	}{
		{operand("1", "1"), small},
		{operand("3", "4"), small},
		{operand("-2", "0.5"), small},
		{operand("-1.5", "-2.25"), small},
		{operand("0.1", "-0.3"), small},
		{operand("0", "-3"), small},
		{operand("0", "1e-25"), []int64{-2, -1, 1, 2}},
		{operand("3e-21", "4e-21"), []int64{-2, -1, 0, 1, 2}},
		{operand("1.234567890123456789e-15", "0"), []int64{-1, 1, 3}},
		{operand("1e150", "-2e150"), []int64{-2, -1, 1, 2}},
		{operand("-7e-120", "2.5e-119"), []int64{-2, 1, 2}},
	}
	e := newTestEvaluator()

	for _, tt := range tests {
		for _, n := range tt.exponents {
			t.Run(fmt.Sprintf("%s^%d", tt.operand, n), func(t *testing.T) {
				exponent := symbolic.NumberFromInt(n)
				native, err := e.EvaluateMode(tt.operand, exponent, numeric.ModeNative)
				require.NoError(t, err)
				arbitrary, err := e.EvaluateMode(tt.operand, exponent, numeric.ModeArbitrary)
				require.NoError(t, err)

				assertClose(t, native.Value, arbitrary.Value)
			})
		}
	}
}

// exactPower multiplies z by itself n times in exact decimal arithmetic
func exactPower(re, im string, n int) (decimal.Decimal, decimal.Decimal) {
	a, b := decimal.RequireFromString(re), decimal.RequireFromString(im)
	x, y := decimal.NewFromInt(1), decimal.Zero
	for i := 0; i < n; i++ {
		x, y = x.Mul(a).Sub(y.Mul(b)), x.Mul(b).Add(y.Mul(a))
	}
	return x, y
}

// relativeError is the larger part difference over the larger exact part
func relativeError(wantReal, wantImaginary decimal.Decimal, got Rect) decimal.Decimal {
	scale := decimal.Max(wantReal.Abs(), wantImaginary.Abs())
	diff := decimal.Max(
		got.Real.Decimal().Sub(wantReal).Abs(),
		got.Imaginary.Decimal().Sub(wantImaginary).Abs(),
	)
	return diff.DivRound(scale, 60)
}

func TestArbitraryIsAtLeastAsAccurateAsNative(t *testing.T) {
	tests := []struct {
		re, im string
		n      int
	}{
		{"1.234567890123456789e-15", "0", 1},
		{"3e-21", "4e-21", 1},
		{"3e-21", "4e-21", 3},
		{"0.1", "-0.3", 5},
		{"1e150", "-2e150", 2},
		{"1.000000001", "1e-12", 7},
		{"-1.5", "-2.25", 6},
	}
	e := newTestEvaluator()
	bound := decimal.New(1, -35)

	for _, tt := range tests {
		t.Run(fmt.Sprintf("(%s,%s)^%d", tt.re, tt.im, tt.n), func(t *testing.T) {
			wantReal, wantImaginary := exactPower(tt.re, tt.im, tt.n)
			exponent := symbolic.NumberFromInt(int64(tt.n))

			native, err := e.EvaluateMode(operand(tt.re, tt.im), exponent, numeric.ModeNative)
			require.NoError(t, err)
			arbitrary, err := e.EvaluateMode(operand(tt.re, tt.im), exponent, numeric.ModeArbitrary)
			require.NoError(t, err)

			nativeErr := relativeError(wantReal, wantImaginary, native.Value)
			arbitraryErr := relativeError(wantReal, wantImaginary, arbitrary.Value)
			assert.True(t, arbitraryErr.LessThan(bound), "arbitrary relative error %s", arbitraryErr)
			if !nativeErr.IsZero() {
				assert.True(t, arbitraryErr.LessThanOrEqual(nativeErr), "arbitrary error %s exceeds native error %s", arbitraryErr, nativeErr)
			}
		})
	}
}

func TestTinyImaginaryInverse(t *testing.T) {
	e := newTestEvaluator()
	for _, mode := range numeric.Modes {
		t.Run(mode.String(), func(t *testing.T) {
			result, err := e.EvaluateMode(operand("0", "1e-25"), symbolic.NumberFromInt(-1), mode)
			require.NoError(t, err)
			assert.InEpsilon(t, -1e25, result.Value.Imaginary.Float64(), 1e-12)
			assert.InDelta(t, 0, result.Value.Real.Float64(), 1e10)
		})
	}
}

func TestLargeExponentStaysBounded(t *testing.T) {
	e := newTestEvaluator()

	start := time.Now()
	result, err := e.EvaluateMode(operand("1", "1"), symbolic.NumberFromInt(200000), numeric.ModeArbitrary)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	// (1+i)^200000 = (2i)^100000 = 2^100000
	re := result.Value.Real.Decimal()
	assert.LessOrEqual(t, re.NumDigits(), int(numeric.DefaultDigits))
	assert.LessOrEqual(t, result.Value.Imaginary.Decimal().NumDigits(), int(numeric.DefaultDigits))
	assert.Equal(t, 30103, re.NumDigits()+int(re.Exponent()))
	assert.True(t, re.Shift(-30102).Sub(decimal.RequireFromString("9.99002")).Abs().LessThan(decimal.New(1, -5)), "got %s", re)

	_, err = e.EvaluateMode(operand("1", "1"), symbolic.NumberFromInt(200000), numeric.ModeNative)
	assert.True(t, errors.IsType(err, errors.TypeDomain), "native overflows: %v", err)
}

func TestNativeHandlesOperandsBeyondSquaringRange(t *testing.T) {
	e := newTestEvaluator()
	b := numeric.Native()
	tests := []struct {
		name          string
		operand       symbolic.Complex
		exponent      int64
		wantReal      string
		wantImaginary string
	}{
		{"inverse of 1e-200", operand("1e-200", "0"), -1, "1e200", "0"},
		{"squares underflow", operand("1e-170", "-1e-170"), 1, "1e-170", "-1e-170"},
		{"squares overflow", operand("1e200", "1e200"), 1, "1e200", "1e200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.EvaluateMode(tt.operand, symbolic.NumberFromInt(tt.exponent), numeric.ModeNative)
			require.NoError(t, err)
			re, err := b.Parse(tt.wantReal)
			require.NoError(t, err)
			im, err := b.Parse(tt.wantImaginary)
			require.NoError(t, err)
			assertClose(t, Rect{Real: re, Imaginary: im}, result.Value)
		})
	}
}

func TestPolarRoundTrip(t *testing.T) {
	inputs := [][2]string{
		{"1", "0"}, {"0", "1"}, {"-1", "0"}, {"3", "-4"}, {"-0.25", "7.5"}, {"1e-3", "2e3"},
		{"1e-25", "0"}, {"0", "1e-25"}, {"3e-21", "4e-21"}, {"-1e-200", "0"}, {"1e150", "1e150"},
	}
	for _, mode := range numeric.Modes {
		b, err := numeric.ForMode(mode, numeric.DefaultDigits)
		require.NoError(t, err)
		one := b.FromInt(1)

		for _, in := range inputs {
			t.Run(fmt.Sprintf("%s/%s,%s", mode, in[0], in[1]), func(t *testing.T) {
				z, err := Decompose(operand(in[0], in[1]), b)
				require.NoError(t, err)
				p, err := ToPolar(z, b)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, p.Radius.Float64(), 0.0)
				assert.LessOrEqual(t, p.Angle.Float64(), math.Pi+epsilon)
				assert.Greater(t, p.Angle.Float64(), -math.Pi)

				back, err := Reconstruct(p, one, b)
				require.NoError(t, err)
				assertClose(t, z, back)
			})
		}
	}
}

func TestPureImaginaryAngle(t *testing.T) {
	for _, mode := range numeric.Modes {
		b, err := numeric.ForMode(mode, 0)
		require.NoError(t, err)

		up, err := ToPolar(Rect{Real: b.Zero(), Imaginary: b.FromInt(2)}, b)
		require.NoError(t, err)
		assert.InDelta(t, math.Pi/2, up.Angle.Float64(), epsilon)
		assert.InDelta(t, 2, up.Radius.Float64(), epsilon)

		down, err := ToPolar(Rect{Real: b.Zero(), Imaginary: b.FromInt(-2)}, b)
		require.NoError(t, err)
		assert.InDelta(t, -math.Pi/2, down.Angle.Float64(), epsilon)
	}
}

func TestAtan2ReceivesImaginaryThenReal(t *testing.T) {
	for _, mode := range numeric.Modes {
		b, err := numeric.ForMode(mode, 0)
		require.NoError(t, err)
		counting := newCountingBackend(b)

		z := Rect{Real: b.FromInt(3), Imaginary: b.FromInt(-7)}
		_, err = ToPolar(z, counting)
		require.NoError(t, err)

		require.Len(t, counting.atan2Args, 1)
		assert.Equal(t, -7.0, counting.atan2Args[0][0].Float64(), "first atan2 argument is the imaginary part")
		assert.Equal(t, 3.0, counting.atan2Args[0][1].Float64(), "second atan2 argument is the real part")
	}
}

func TestOrigin(t *testing.T) {
	e := newTestEvaluator()
	origin := operand("0", "0")

	for _, mode := range numeric.Modes {
		b, err := e.Backend(mode)
		require.NoError(t, err)

		for n := int64(1); n <= 5; n++ {
			t.Run(fmt.Sprintf("%s/0^%d", mode, n), func(t *testing.T) {
				counting := newCountingBackend(b)
				result, err := e.Evaluate(origin, symbolic.NumberFromInt(n), counting)
				require.NoError(t, err)
				assert.Equal(t, ShapeZero, result.Shape())
				assert.Zero(t, counting.trig(), "no trigonometric primitive may run at the origin")
			})
		}

		t.Run(mode.String()+"/0^0", func(t *testing.T) {
			result, err := e.Evaluate(origin, symbolic.NumberFromInt(0), b)
			require.NoError(t, err)
			assert.Equal(t, ShapeReal, result.Shape())
			assert.Equal(t, 1.0, result.Value.Real.Float64())
		})

		t.Run(mode.String()+"/0^-1", func(t *testing.T) {
			_, err := e.Evaluate(origin, symbolic.NumberFromInt(-1), b)
			assert.True(t, errors.IsType(err, errors.TypeDomain), "got %v", err)
		})
	}
}

func TestSequentialModeSwitchingDoesNotLeak(t *testing.T) {
	e := newTestEvaluator()
	op, exponent := operand("1.5", "-0.5"), symbolic.NumberFromInt(7)

	first, err := e.EvaluateMode(op, exponent, numeric.ModeNative)
	require.NoError(t, err)
	arbitrary, err := e.EvaluateMode(op, exponent, numeric.ModeArbitrary)
	require.NoError(t, err)
	second, err := e.EvaluateMode(op, exponent, numeric.ModeNative)
	require.NoError(t, err)
	again, err := e.EvaluateMode(op, exponent, numeric.ModeArbitrary)
	require.NoError(t, err)

	assert.Equal(t, first.Value.Real.Float64(), second.Value.Real.Float64())
	assert.Equal(t, first.Value.Imaginary.Float64(), second.Value.Imaginary.Float64())
	assert.Equal(t, arbitrary.Value.String(), again.Value.String())
	assert.Equal(t, numeric.ModeArbitrary, arbitrary.Value.Real.Mode())
	assert.Equal(t, numeric.ModeNative, second.Value.Real.Mode())
}

func TestConcurrentEvaluationAcrossModes(t *testing.T) {
	e := newTestEvaluator()
	op, exponent := operand("2", "3"), symbolic.NumberFromInt(4)

	want := map[numeric.Mode]string{}
	for _, mode := range numeric.Modes {
		r, err := e.EvaluateMode(op, exponent, mode)
		require.NoError(t, err)
		want[mode] = r.Value.String()
	}

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mode := numeric.Modes[i%len(numeric.Modes)]
			r, err := e.EvaluateMode(op, exponent, mode)
			if err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = r.Value.String()
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want[numeric.Modes[i%len(numeric.Modes)]], got)
	}
}

func TestNonConstantOperands(t *testing.T) {
	e := newTestEvaluator()

	tests := []struct {
		name     string
		operand  symbolic.Complex
		exponent symbolic.Value
		errType  errors.Type
	}{
		{"symbolic real part", symbolic.NewComplex(symbolic.Symbol("x"), symbolic.NumberFromInt(1)), symbolic.NumberFromInt(2), errors.TypeNotConstant},
		{"symbolic imaginary part", symbolic.NewComplex(symbolic.NumberFromInt(1), symbolic.Symbol("y")), symbolic.NumberFromInt(2), errors.TypeNotConstant},
		{"symbolic exponent", symbolic.I(), symbolic.Symbol("n"), errors.TypeNotConstant},
		{"undefined imaginary part", symbolic.Complex{Real: symbolic.NumberFromInt(1)}, symbolic.NumberFromInt(2), errors.TypeDomain},
		{"undefined exponent", symbolic.I(), symbolic.Undefined(), errors.TypeDomain},
	}

	for _, mode := range numeric.Modes {
		for _, tt := range tests {
			t.Run(mode.String()+"/"+tt.name, func(t *testing.T) {
				_, err := e.EvaluateMode(tt.operand, tt.exponent, mode)
				require.Error(t, err)
				assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
			})
		}
	}
}

func TestStagesRejectForeignModes(t *testing.T) {
	native := numeric.Native()
	arbitrary := numeric.NewArbitrary(numeric.DefaultDigits)

	z, err := Decompose(symbolic.Scale(2), native)
	require.NoError(t, err)

	_, err = ToPolar(z, arbitrary)
	assert.True(t, errors.IsType(err, errors.TypeBackendMismatch), "got %v", err)

	p, err := ToPolar(z, native)
	require.NoError(t, err)
	_, err = Reconstruct(p, arbitrary.FromInt(2), arbitrary)
	assert.True(t, errors.IsType(err, errors.TypeBackendMismatch), "got %v", err)

	_, err = Reconstruct(p, arbitrary.FromInt(2), native)
	assert.True(t, errors.IsType(err, errors.TypeBackendMismatch), "got %v", err)
}

func TestStagesRejectUnassignedFields(t *testing.T) {
	b := numeric.NewArbitrary(numeric.DefaultDigits)

	_, err := ToPolar(Rect{Real: b.FromInt(1)}, b)
	assert.True(t, errors.IsType(err, errors.TypeDomain), "got %v", err)

	_, err = Reconstruct(Polar{Radius: b.FromInt(1)}, b.FromInt(2), b)
	assert.True(t, errors.IsType(err, errors.TypeDomain), "got %v", err)
}

func TestRectShape(t *testing.T) {
	b := numeric.NewArbitrary(numeric.DefaultDigits)
	tests := []struct {
		re, im int64
		want   Shape
	}{
		{0, 0, ShapeZero},
		{-4, 0, ShapeReal},
		{0, -8, ShapeImaginary},
		{1, 1, ShapeComplex},
	}
	for _, tt := range tests {
		z := Rect{Real: b.FromInt(tt.re), Imaginary: b.FromInt(tt.im)}
		assert.Equal(t, tt.want, z.Shape(), z.String())
	}
	assert.Equal(t, "imaginary", ShapeImaginary.String())
}
