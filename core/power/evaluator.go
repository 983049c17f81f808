package power

import (
	"go.uber.org/zap"

	"cpow/core/numeric"
	"cpow/core/symbolic"
	"cpow/internal/logging"
)

// Config configures an Evaluator
type Config struct {
	// Digits is the number of significant digits kept in arbitrary mode
	Digits int32
}

// DefaultConfig returns the default evaluator configuration
func DefaultConfig() Config {
	return Config{Digits: numeric.DefaultDigits}
}

// Evaluator computes operand^exponent.
// It holds no per-call state and is safe for concurrent use.
type Evaluator struct {
	config Config
	logger *zap.Logger
}

// NewEvaluator creates an evaluator logging through the global logger
func NewEvaluator(config Config) *Evaluator {
	if config.Digits <= 0 {
		config.Digits = numeric.DefaultDigits
	}
	return &Evaluator{
		config: config,
		logger: logging.Named("power"),
	}
}

// WithLogger returns a copy of e that logs to logger
func (e *Evaluator) WithLogger(logger *zap.Logger) *Evaluator {
	c := *e
	c.logger = logger
	return &c
}

// Backend returns the backend for mode at the configured precision
func (e *Evaluator) Backend(mode numeric.Mode) (numeric.Backend, error) {
	return numeric.ForMode(mode, e.config.Digits)
}

// EvaluateMode selects the backend for mode and evaluates with it
func (e *Evaluator) EvaluateMode(op symbolic.Complex, exponent symbolic.Value, mode numeric.Mode) (Result, error) {
	b, err := e.Backend(mode)
	if err != nil {
		return Result{}, err
	}
	return e.Evaluate(op, exponent, b)
}

// Evaluate computes op^exponent with b.
// Errors from any stage are returned unchanged and never retried.
func (e *Evaluator) Evaluate(op symbolic.Complex, exponent symbolic.Value, b numeric.Backend) (Result, error) {
	log := e.logger.With(
		zap.Stringer("mode", b.Mode()),
		zap.Stringer("operand", op),
		zap.Stringer("exponent", exponent),
	)

	z, err := Decompose(op, b)
	if err != nil {
		log.Debug("operand is not numeric", zap.Error(err))
		return Result{}, err
	}
	n, err := Exponent(exponent, b)
	if err != nil {
		log.Debug("exponent is not numeric", zap.Error(err))
		return Result{}, err
	}

	p, err := ToPolar(z, b)
	if err != nil {
		log.Debug("polar conversion failed", zap.Error(err))
		return Result{}, err
	}
	log.Debug("polar form", zap.Stringer("radius", p.Radius), zap.Stringer("angle", p.Angle))

	value, err := Reconstruct(p, n, b)
	if err != nil {
		log.Debug("reconstruction failed", zap.Error(err))
		return Result{}, err
	}
	log.Debug("reconstructed", zap.Stringer("real", value.Real), zap.Stringer("imaginary", value.Imaginary))

	return Result{
		Mode:     b.Mode(),
		Operand:  op,
		Exponent: exponent,
		Polar:    p,
		Value:    value,
	}, nil
}
