package adjust

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimal places of factors accepted by
// most financial transaction systems.
const DefaultPrecision = 13

// Upper bounds of Config.
const (
	MaxPrecision   = 64
	MaxGuardDigits = 64
	MaxWorking     = MaxPrecision + MaxGuardDigits
)

// Config holds the arithmetic parameters of a Solver.
//
// Nothing here is global: two solvers with different precisions can be used
// concurrently.
type Config struct {
	// Precision is the number N of decimal places of a factor. The quantum
	// is 10^-N.
	Precision int32 `json:"precision"`
	// GuardDigits sets the safety epsilon 10^-(N+GuardDigits) added to the
	// lower bound before rounding up, so that the factor lands strictly past
	// the exact threshold. 0 disables the epsilon and yields the exact
	// minimum.
	GuardDigits int32 `json:"guard_digits"`
	// WorkingDigits is the number of decimal places used to report the lower
	// bound. It must be at least N+2. 0 means N+max(GuardDigits, 2).
	WorkingDigits int32 `json:"working_digits"`
	// MaxBumps is the maximum number of single quantum bumps applied when
	// the candidate still undershoots the target.
	MaxBumps int `json:"max_bumps"`
}

// DefaultConfig returns the configuration used by Solve.
func DefaultConfig() Config {
	return Config{
		Precision:   DefaultPrecision,
		GuardDigits: 2,
		MaxBumps:    1,
	}
}

// Validate checks the configuration. The error belongs to ConfigError.
func (c Config) Validate() error {
	switch {
	case c.Precision <= 0 || c.Precision > MaxPrecision:
		return ConfigError.New("precision must be in [1, %d], got %d", MaxPrecision, c.Precision)
	case c.GuardDigits < 0 || c.GuardDigits > MaxGuardDigits:
		return ConfigError.New("guard digits must be in [0, %d], got %d", MaxGuardDigits, c.GuardDigits)
	case c.WorkingDigits != 0 && (c.WorkingDigits < c.Precision+2 || c.WorkingDigits > MaxWorking):
		return ConfigError.New("working digits must be in [%d, %d], got %d", c.Precision+2, MaxWorking, c.WorkingDigits)
	case c.MaxBumps < 0:
		return ConfigError.New("max bumps must not be negative, got %d", c.MaxBumps)
	}
	return nil
}

// Working returns the effective number of working digits.
func (c Config) Working() int32 {
	if c.WorkingDigits != 0 {
		return c.WorkingDigits
	}
	return c.Precision + max(c.GuardDigits, 2)
}

// Solver finds truncation-safe adjustment factors.
//
// A Solver is immutable and safe for concurrent use.
type Solver struct {
	cfg     Config
	quantum decimal.Decimal
	eps     decimal.Decimal
}

// NewSolver returns a solver for the configuration.
func NewSolver(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		cfg:     cfg,
		quantum: decimal.New(1, -cfg.Precision),
	}
	if cfg.GuardDigits > 0 {
		s.eps = decimal.New(1, -(cfg.Precision + cfg.GuardDigits))
	}
	return s, nil
}

var defaultSolver = func() *Solver {
	s, err := NewSolver(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}()

// DefaultSolver returns the solver of DefaultConfig, shared by Solve.
func DefaultSolver() *Solver { return defaultSolver }

// Solve resolves base into target with the default configuration.
func Solve(base, target Quantity) Adjustment { return defaultSolver.Solve(base, target) }

// Config returns the solver configuration.
func (s *Solver) Config() Config { return s.cfg }

// Quantum returns the smallest increment of a factor, 10^-N.
func (s *Solver) Quantum() decimal.Decimal { return s.quantum }

// Epsilon returns the safety epsilon, 0 when the guard is disabled.
func (s *Solver) Epsilon() decimal.Decimal { return s.eps }

// SolveValues converts base and target with QuantityOf and solves them.
//
// Conversion failures are reported as an Invalid adjustment whose Err
// belongs to ConversionError.
func (s *Solver) SolveValues(base, target any) Adjustment {
	b, err := quantityOf(base)
	if err != nil {
		return Adjustment{Err: ConversionError.Wrap(fmt.Errorf("base: %w", err))}
	}
	t, err := quantityOf(target)
	if err != nil {
		return Adjustment{Base: b, Err: ConversionError.Wrap(fmt.Errorf("target: %w", err))}
	}
	return s.Solve(b, t)
}

// Solve finds the smallest factor p, on the quantum grid, such that
// TRUNC( base * (1 + p) ) == target.
//
// The candidate is the lower bound target/base - 1 plus the safety epsilon,
// rounded up to the quantum. All operations are exact. If the truncated
// product still undershoots the target, the candidate is bumped by one
// quantum at most MaxBumps times. A candidate whose proof differs from the
// target is still returned, with a Mismatch outcome.
//
// Truncation is toward zero. For a target <= 0 the products truncating to
// the target lie in (target-1, target], so target-1 is used as the
// threshold instead of target.
//
// Solve never panics: a failure of the decimal arithmetic, which quantities
// within MaxQuantityDigits cannot cause, is an Invalid outcome whose Err
// belongs to ArithmeticError.
func (s *Solver) Solve(base, target Quantity) (a Adjustment) {
	defer func() {
		if r := recover(); r != nil {
			a = Adjustment{Base: base, Target: target, Err: ArithmeticError.New("%v", r)}
		}
	}()
	a = Adjustment{Base: base, Target: target}
	switch {
	case base.IsZero():
		a.Err = ZeroBaseError.New("no factor maps 0 to %s", target)
		return a
	case base.IsNegative():
		a.Err = NegativeBaseError.New("base %s is negative", base)
		return a
	}

	b := base.value
	threshold := target.value
	if !threshold.IsPositive() {
		threshold = threshold.Sub(one)
	}
	n := s.cfg.Precision

	// reported only; the candidate below does not depend on it.
	a.LowerBound = threshold.DivRound(b, s.cfg.Working()).Sub(one)

	// lower + eps = (threshold - b + b*eps) / b, divided with remainder so
	// that rounding up to the quantum is exact.
	num := threshold.Sub(b).Add(b.Mul(s.eps))
	p, r := num.QuoRem(b, n)
	if r.IsPositive() {
		p = p.Add(s.quantum)
	}

	f := Factor{value: p, places: n}
	trial := f.Apply(base)
	for trial.LessThan(target) && a.Bumps < s.cfg.MaxBumps {
		f = f.Add(s.quantum)
		a.Bumps++
		trial = f.Apply(base)
	}

	a.Factor, a.Proof = f, trial
	if trial.Equal(target) {
		a.Outcome = Reconciled
		return a
	}
	a.Outcome = Mismatch
	a.Err = MismatchError.New("%s * (1 + %s) truncates to %s, want %s", base, f, trial, target)
	return a
}
