package numeric

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"cpow/internal/errors"
)

// guardDigits are carried on intermediates and dropped on every result
const guardDigits int32 = 8

// sqrtMaxIterations bounds the Newton iteration in Sqrt
const sqrtMaxIterations = 500

// maxMagnitude bounds the decimal exponent of a power result
const maxMagnitude = 100_000_000

// piDigits is the number of decimals in pi. Angles whose reduction modulo π/2
// would need more fall back to decimal's float-accurate Sin and Cos.
const piDigits = 100

var (
	pi     = decimal.RequireFromString("3.1415926535897932384626433832795028841971693993751058209749445923078164062862089986280348253421170679")
	halfPi = pi.Mul(half)
	half   = decimal.New(5, -1)
	one    = decimal.NewFromInt(1)

	// atanSeriesBound is where the arctangent argument is small enough for
	// its Taylor series
	atanSeriesBound = decimal.New(1, -1)
)

// arbitraryBackend computes on shopspring decimals rounded to digits
// significant digits. Intermediates carry guardDigits more.
type arbitraryBackend struct {
	digits int32
}

// NewArbitrary returns the decimal backend keeping digits significant digits
func NewArbitrary(digits int32) Backend {
	if digits <= 0 {
		digits = DefaultDigits
	}
	return arbitraryBackend{digits: digits}
}

func (arbitraryBackend) Mode() Mode { return ModeArbitrary }

func (b arbitraryBackend) Parse(literal string) (Number, error) {
	d, err := parseLiteral(literal)
	if err != nil {
		return Number{}, err
	}
	return b.wrap(d), nil
}

func (arbitraryBackend) FromInt(v int64) Number {
	return Number{mode: ModeArbitrary, dec: decimal.NewFromInt(v)}
}

func (arbitraryBackend) Zero() Number {
	return Number{mode: ModeArbitrary, dec: decimal.Zero}
}

func (b arbitraryBackend) Add(x, y Number) (Number, error) {
	if err := expect(ModeArbitrary, "add", x, y); err != nil {
		return Number{}, err
	}
	return b.wrap(x.dec.Add(y.dec)), nil
}

func (b arbitraryBackend) Mul(x, y Number) (Number, error) {
	if err := expect(ModeArbitrary, "mul", x, y); err != nil {
		return Number{}, err
	}
	return b.wrap(x.dec.Mul(y.dec)), nil
}

func (b arbitraryBackend) Sqrt(x Number) (Number, error) {
	if err := expect(ModeArbitrary, "sqrt", x); err != nil {
		return Number{}, err
	}
	switch x.dec.Sign() {
	case -1:
		return Number{}, errors.Domain("sqrt", "negative radicand")
	case 0:
		return b.Zero(), nil
	}
	return b.wrap(b.sqrt(x.dec)), nil
}

// Hypot squares exactly, so only the final root rounds
func (b arbitraryBackend) Hypot(x, y Number) (Number, error) {
	if err := expect(ModeArbitrary, "hypot", x, y); err != nil {
		return Number{}, err
	}
	s := x.dec.Mul(x.dec).Add(y.dec.Mul(y.dec))
	if s.IsZero() {
		return b.Zero(), nil
	}
	return b.wrap(b.sqrt(s)), nil
}

// sqrt runs Newton's iteration on a positive s until successive roots agree
// to two digits beyond the backend's precision
func (b arbitraryBackend) sqrt(s decimal.Decimal) decimal.Decimal {
	z := sqrtSeed(s)
	tolerance := decimal.New(1, magnitude(z)-b.digits-2)
	for i := 0; i < sqrtMaxIterations; i++ {
		next := roundSignificant(z.Add(b.quo(s, z)).Mul(half), b.working())
		done := next.Sub(z).Abs().LessThanOrEqual(tolerance)
		z = next
		if done {
			break
		}
	}
	return z
}

// sqrtSeed starts Newton from the float64 root, or from a power of ten of the
// right magnitude when s is outside float64 range
func sqrtSeed(s decimal.Decimal) decimal.Decimal {
	f := math.Sqrt(s.InexactFloat64())
	if f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return decimal.NewFromFloat(f)
	}
	return decimal.New(1, magnitude(s)/2)
}

func (b arbitraryBackend) Atan2(y, x Number) (Number, error) {
	if err := expect(ModeArbitrary, "atan2", y, x); err != nil {
		return Number{}, err
	}
	switch x.dec.Sign() {
	case 1:
		return b.wrap(b.atan(b.quo(y.dec, x.dec))), nil
	case -1:
		angle := b.atan(b.quo(y.dec, x.dec))
		if y.dec.Sign() >= 0 {
			return b.wrap(angle.Add(pi)), nil
		}
		return b.wrap(angle.Sub(pi)), nil
	}
	switch y.dec.Sign() {
	case 1:
		return b.wrap(halfPi), nil
	case -1:
		return b.wrap(halfPi.Neg()), nil
	}
	return Number{}, errors.Domain("atan2", "angle of the origin is undefined")
}

// atan folds t into [-1, 1], halves the angle until |t| <= 0.1 using
// atan(t) = 2·atan(t / (1 + sqrt(1 + t²))), then sums the Taylor series
func (b arbitraryBackend) atan(t decimal.Decimal) decimal.Decimal {
	if t.IsZero() {
		return decimal.Zero
	}
	if t.Abs().GreaterThan(one) {
		r := halfPi.Sub(b.atan(b.quo(one, t.Abs())))
		if t.IsNegative() {
			return r.Neg()
		}
		return r
	}

	doublings := int64(1)
	for t.Abs().GreaterThan(atanSeriesBound) {
		t = b.quo(t, one.Add(b.sqrt(one.Add(t.Mul(t)))))
		doublings *= 2
	}

	places := b.working() - magnitude(t) + 2
	tt := t.Mul(t).Round(places)
	epsilon := decimal.New(1, -places)
	sum, power := t, t
	for k := int64(3); ; k += 2 {
		power = power.Mul(tt).Neg().Round(places)
		term := power.DivRound(decimal.NewFromInt(k), places)
		sum = sum.Add(term)
		if term.Abs().LessThan(epsilon) {
			break
		}
	}
	return sum.Mul(decimal.NewFromInt(doublings))
}

func (b arbitraryBackend) Sin(x Number) (Number, error) {
	if err := expect(ModeArbitrary, "sin", x); err != nil {
		return Number{}, err
	}
	sin, _, ok := b.sinCos(x.dec)
	if !ok {
		sin = x.dec.Sin()
	}
	return b.wrap(sin), nil
}

func (b arbitraryBackend) Cos(x Number) (Number, error) {
	if err := expect(ModeArbitrary, "cos", x); err != nil {
		return Number{}, err
	}
	_, cos, ok := b.sinCos(x.dec)
	if !ok {
		cos = x.dec.Cos()
	}
	return b.wrap(cos), nil
}

// sinCos reduces x modulo π/2 and sums both Taylor series on the remainder.
// ok is false when x is too large for the reduction to keep working precision.
func (b arbitraryBackend) sinCos(x decimal.Decimal) (sin, cos decimal.Decimal, ok bool) {
	if magnitude(x)+b.working() > piDigits {
		return decimal.Zero, decimal.Zero, false
	}
	k := x.DivRound(halfPi, 0)
	r := x.Sub(k.Mul(halfPi))

	places := b.working()
	if m := magnitude(r); m < 0 {
		places -= m
	}
	s, c := taylorSinCos(r.Round(places), places+2)

	switch new(big.Int).Mod(k.BigInt(), big.NewInt(4)).Int64() {
	case 0:
		return s, c, true
	case 1:
		return c, s.Neg(), true
	case 2:
		return s.Neg(), c.Neg(), true
	}
	return c.Neg(), s, true
}

// taylorSinCos sums sin(r) and cos(r) for |r| <= π/4 to places decimals
func taylorSinCos(r decimal.Decimal, places int32) (sin, cos decimal.Decimal) {
	rr := r.Mul(r).Neg().Round(places)
	epsilon := decimal.New(1, -places)
	sin, cos = r, one
	sinTerm, cosTerm := r, one
	for k := int64(1); ; k++ {
		cosTerm = cosTerm.Mul(rr).DivRound(decimal.NewFromInt((2*k-1)*(2*k)), places)
		sinTerm = sinTerm.Mul(rr).DivRound(decimal.NewFromInt((2*k)*(2*k+1)), places)
		cos = cos.Add(cosTerm)
		sin = sin.Add(sinTerm)
		if cosTerm.Abs().LessThan(epsilon) && sinTerm.Abs().LessThan(epsilon) {
			return sin, cos
		}
	}
}

func (b arbitraryBackend) Pow(base, exp Number) (Number, error) {
	if err := expect(ModeArbitrary, "pow", base, exp); err != nil {
		return Number{}, err
	}
	if base.dec.IsZero() {
		switch exp.dec.Sign() {
		case 1:
			return b.Zero(), nil
		case 0:
			return b.FromInt(1), nil
		}
		return Number{}, errors.Domain("pow", "zero raised to a negative power")
	}
	if exp.dec.IsZero() {
		return b.FromInt(1), nil
	}

	estimate := log10Abs(base.dec) * exp.dec.InexactFloat64()
	if math.IsNaN(estimate) || math.Abs(estimate) > maxMagnitude {
		return Number{}, errors.Domain("pow", "result magnitude is out of range")
	}

	if exp.dec.IsInteger() {
		return b.wrap(b.powInt(base.dec, exp.dec.BigInt())), nil
	}

	if base.dec.Sign() < 0 {
		return Number{}, errors.Domain("pow", "negative base with a fractional exponent")
	}
	whole := exp.dec.Truncate(0)
	frac := exp.dec.Sub(whole)

	ln, err := base.dec.Ln(b.working() + 2)
	if err != nil {
		return Number{}, errors.Wrap(errors.TypeDomain, "pow", err)
	}
	f, err := b.exp(ln.Mul(frac))
	if err != nil {
		return Number{}, errors.Wrap(errors.TypeDomain, "pow", err)
	}
	return b.wrap(b.powInt(base.dec, whole.BigInt()).Mul(f)), nil
}

// exp halves y until |y| <= 1, sums decimal's Taylor series there and squares
// the result back up
func (b arbitraryBackend) exp(y decimal.Decimal) (decimal.Decimal, error) {
	squarings := 0
	for y.Abs().GreaterThan(one) {
		y = y.Mul(half)
		squarings++
	}
	sig := b.working() + guardDigits
	r, err := y.ExpTaylor(sig)
	if err != nil {
		return decimal.Zero, err
	}
	for ; squarings > 0; squarings-- {
		r = roundSignificant(r.Mul(r), sig)
	}
	return r, nil
}

// powInt raises base to n by square-and-multiply, rounding every step to
// working precision so intermediates never outgrow it
func (b arbitraryBackend) powInt(base decimal.Decimal, n *big.Int) decimal.Decimal {
	e := new(big.Int).Abs(n)
	result := one
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = roundSignificant(result.Mul(result), b.working())
		if e.Bit(i) == 1 {
			result = roundSignificant(result.Mul(base), b.working())
		}
	}
	if n.Sign() < 0 {
		return b.quo(one, result)
	}
	return result
}

func (arbitraryBackend) Sign(x Number) (int, error) {
	if err := expect(ModeArbitrary, "sign", x); err != nil {
		return 0, err
	}
	return x.dec.Sign(), nil
}

// working is the significant digits carried on intermediates
func (b arbitraryBackend) working() int32 {
	return b.digits + guardDigits
}

// quo divides to working precision relative to the quotient's magnitude
func (b arbitraryBackend) quo(x, y decimal.Decimal) decimal.Decimal {
	if x.IsZero() {
		return decimal.Zero
	}
	return x.DivRound(y, b.working()-magnitude(x)+magnitude(y)+1)
}

func (b arbitraryBackend) wrap(d decimal.Decimal) Number {
	return Number{mode: ModeArbitrary, dec: roundSignificant(d, b.digits)}
}

// magnitude is the position of the leading digit: d lies in
// [10^(m-1), 10^m) for m = magnitude(d). Zero has magnitude 0.
func magnitude(d decimal.Decimal) int32 {
	if d.IsZero() {
		return 0
	}
	return int32(d.NumDigits()) + d.Exponent()
}

// roundSignificant rounds d to sig significant digits
func roundSignificant(d decimal.Decimal, sig int32) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return d.Round(sig - magnitude(d))
}

// log10Abs approximates log10|d| for nonzero d from its magnitude and
// leading digits, so it works far outside float64 range
func log10Abs(d decimal.Decimal) float64 {
	m := magnitude(d)
	lead := d.Abs().Shift(-m).InexactFloat64()
	return float64(m) + math.Log10(lead)
}
