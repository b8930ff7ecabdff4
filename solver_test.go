package adjust

import (
	"context"
	"math"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func mustSolver(t *testing.T, cfg Config) *Solver {
	t.Helper()
	s, err := NewSolver(cfg)
	if err != nil {
		t.Fatalf("NewSolver(%+v) error = %v", cfg, err)
	}
	return s
}

func exactConfig(n int32) Config {
	return Config{Precision: n, GuardDigits: 0, MaxBumps: 1}
}

func TestSolve(t *testing.T) {
	testCases := []struct {
		name       string
		base       int64
		target     int64
		wantFactor string
		wantProof  int64
		wantBumps  int
	}{
		{name: "identity", base: 1000, target: 1000, wantFactor: "0.0000000000001", wantProof: 1000},
		{name: "one more", base: 1000, target: 1001, wantFactor: "0.0010000000001", wantProof: 1001},
		{name: "repeating lower bound", base: 3, target: 10, wantFactor: "2.3333333333334", wantProof: 10},
		{name: "one less", base: 1000, target: 999, wantFactor: "-0.0009999999999", wantProof: 999},
		{name: "down to zero", base: 10, target: 0, wantFactor: "-1.0999999999999", wantProof: 0},
		{name: "negative target", base: 10, target: -5, wantFactor: "-1.5999999999999", wantProof: -5},
		{name: "large base", base: 123456789, target: 123470000, wantFactor: "0.0001070091010", wantProof: 123470000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := Solve(Q(tc.base), Q(tc.target))
			if a.Outcome != Reconciled {
				t.Fatalf("Solve(%d, %d).Outcome = %v, want %v (err = %v)", tc.base, tc.target, a.Outcome, Reconciled, a.Err)
			}
			if !a.Valid() {
				t.Errorf("Valid() = false, want true")
			}
			if a.Err != nil {
				t.Errorf("Err = %v, want nil", a.Err)
			}
			if got := a.Factor.String(); got != tc.wantFactor {
				t.Errorf("Factor = %s, want %s", got, tc.wantFactor)
			}
			if !a.Proof.Equal(Q(tc.wantProof)) {
				t.Errorf("Proof = %s, want %d", a.Proof, tc.wantProof)
			}
			if a.Bumps != tc.wantBumps {
				t.Errorf("Bumps = %d, want %d", a.Bumps, tc.wantBumps)
			}
		})
	}
}

func TestSolve_LowerBound(t *testing.T) {
	a := Solve(Q(3), Q(10))
	if got, want := a.LowerBound.String(), "2.333333333333333"; got != want {
		t.Errorf("LowerBound = %s, want %s", got, want)
	}
}

func TestSolve_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		base   any
		target any
		class  interface{ Has(error) bool }
	}{
		{name: "zero base", base: 0, target: 100, class: &ZeroBaseError},
		{name: "zero base zero target", base: "0", target: "0", class: &ZeroBaseError},
		{name: "negative base", base: -100, target: 100, class: &NegativeBaseError},
		{name: "missing base", base: nil, target: 50, class: &ConversionError},
		{name: "missing target", base: 50, target: nil, class: &ConversionError},
		{name: "unparseable base", base: "abc", target: 50, class: &ConversionError},
		{name: "fractional target", base: 50, target: "50.5", class: &ConversionError},
		{name: "blank base", base: "  ", target: 50, class: &ConversionError},
		{name: "target beyond exponent range", base: "1", target: "1e2147483640", class: &ConversionError},
		{name: "base too large", base: "1e2000000", target: 50, class: &ConversionError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := defaultSolver.SolveValues(tc.base, tc.target)
			if a.Outcome != Invalid {
				t.Errorf("Outcome = %v, want %v", a.Outcome, Invalid)
			}
			if a.Valid() || a.Computed() {
				t.Errorf("Valid() = %v, Computed() = %v, want false, false", a.Valid(), a.Computed())
			}
			if !tc.class.Has(a.Err) {
				t.Errorf("Err = %v, not in the expected class", a.Err)
			}
			f, p, ok := a.Result()
			if f != nil || p != nil || ok {
				t.Errorf("Result() = (%v, %v, %v), want (nil, nil, false)", f, p, ok)
			}
		})
	}
}

func TestSolve_ArithmeticFailure(t *testing.T) {
	// built directly: conversions reject such a quantity.
	target := Quantity{value: decimal.New(1, math.MaxInt32-7)}

	a := Solve(Q(1), target)
	if a.Outcome != Invalid {
		t.Errorf("Outcome = %v, want %v", a.Outcome, Invalid)
	}
	if !ArithmeticError.Has(a.Err) {
		t.Errorf("Err = %v, want an ArithmeticError", a.Err)
	}
	if !a.Target.Equal(target) || !a.Base.Equal(Q(1)) {
		t.Errorf("Base, Target = %s, %s, want the inputs", a.Base, a.Target)
	}
}

func TestSolve_Mismatch(t *testing.T) {
	// the band of valid factors is narrower than the quantum.
	base := Q(int64(100_000_000_000_000))
	target := Q(int64(100_000_000_000_001))
	a := Solve(base, target)

	if a.Outcome != Mismatch {
		t.Fatalf("Outcome = %v, want %v", a.Outcome, Mismatch)
	}
	if !MismatchError.Has(a.Err) {
		t.Errorf("Err = %v, want a MismatchError", a.Err)
	}
	if got, want := a.Factor.String(), "0.0000000000001"; got != want {
		t.Errorf("Factor = %s, want %s", got, want)
	}
	if got, want := a.Proof.String(), "100000000000010"; got != want {
		t.Errorf("Proof = %s, want %s", got, want)
	}
	f, p, ok := a.Result()
	if f == nil || p == nil || ok {
		t.Errorf("Result() = (%v, %v, %v), want a factor, a proof and false", f, p, ok)
	}
}

func TestSolve_ExactMinimum(t *testing.T) {
	s := mustSolver(t, exactConfig(DefaultPrecision))

	testCases := []struct {
		base, target int64
		wantFactor   string
	}{
		{1000, 1000, "0.0000000000000"},
		{1000, 1001, "0.0010000000000"},
		{3, 10, "2.3333333333334"},
		{8, 10, "0.2500000000000"},
	}
	for _, tc := range testCases {
		a := s.Solve(Q(tc.base), Q(tc.target))
		if !a.Valid() {
			t.Errorf("Solve(%d, %d) is not valid: %v", tc.base, tc.target, a.Err)
			continue
		}
		if got := a.Factor.String(); got != tc.wantFactor {
			t.Errorf("Solve(%d, %d).Factor = %s, want %s", tc.base, tc.target, got, tc.wantFactor)
		}
	}
}

func TestSolve_Bump(t *testing.T) {
	// Without epsilon, the first candidate for a zero target is exactly on
	// the excluded edge -1 and must be bumped once.
	cfg := exactConfig(DefaultPrecision)
	a := mustSolver(t, cfg).Solve(Q(10), Q(0))
	if !a.Valid() {
		t.Fatalf("Solve(10, 0) is not valid: %v", a.Err)
	}
	if a.Bumps != 1 {
		t.Errorf("Bumps = %d, want 1", a.Bumps)
	}
	if got, want := a.Factor.String(), "-1.0999999999999"; got != want {
		t.Errorf("Factor = %s, want %s", got, want)
	}

	cfg.MaxBumps = 0
	a = mustSolver(t, cfg).Solve(Q(10), Q(0))
	if a.Outcome != Mismatch {
		t.Fatalf("Outcome = %v, want %v", a.Outcome, Mismatch)
	}
	if got, want := a.Proof.String(), "-1"; got != want {
		t.Errorf("Proof = %s, want %s", got, want)
	}
}

// bruteForce returns the smallest k such that TRUNC(b * (1 + k/10^n)) == t,
// searching upward from a point known to be below the solution. t must be
// positive.
func bruteForce(b, t int64, n int32) (decimal.Decimal, bool) {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	k := new(big.Int).Mul(big.NewInt(t-b), scale)
	k.Quo(k, big.NewInt(b))
	k.Sub(k, big.NewInt(3))
	bd := decimal.NewFromInt(b)
	for i := 0; i < 10; i++ {
		p := decimal.NewFromBigInt(k, -n)
		trial := bd.Mul(one.Add(p)).Truncate(0)
		switch trial.Cmp(decimal.NewFromInt(t)) {
		case 0:
			return p, true
		case 1:
			return decimal.Decimal{}, false
		}
		k.Add(k, big.NewInt(1))
	}
	return decimal.Decimal{}, false
}

func TestSolve_Properties(t *testing.T) {
	for _, n := range []int32{2, 3, 13} {
		guarded := mustSolver(t, Config{Precision: n, GuardDigits: 2, MaxBumps: 1})
		exact := mustSolver(t, exactConfig(n))
		q := guarded.Quantum()
		eps := guarded.Epsilon()

		for b := int64(1); b <= 40; b++ {
			for tgt := int64(1); tgt <= 120; tgt++ {
				base, target := Q(b), Q(tgt)
				bd, td := base.Decimal(), target.Decimal()

				g := guarded.Solve(base, target)
				if g.Valid() && !g.Factor.Apply(base).Equal(target) {
					t.Errorf("n=%d Solve(%d, %d): round trip gives %s", n, b, tgt, g.Factor.Apply(base))
				}
				// never below the theoretical minimum.
				if bd.Mul(g.Factor.Multiplier()).LessThan(td) {
					t.Errorf("n=%d Solve(%d, %d): factor %s is below the lower bound", n, b, tgt, g.Factor)
				}
				// one quantum less does not clear the guarded threshold.
				prev := bd.Mul(g.Factor.Multiplier().Sub(q))
				if g.Bumps == 0 && prev.GreaterThanOrEqual(td.Add(bd.Mul(eps))) {
					t.Errorf("n=%d Solve(%d, %d): factor %s is not minimal", n, b, tgt, g.Factor)
				}
				// small bases always have a solution.
				if n > 2 && !g.Valid() {
					t.Errorf("n=%d Solve(%d, %d) = %v: %v", n, b, tgt, g.Outcome, g.Err)
				}

				e := exact.Solve(base, target)
				want, ok := bruteForce(b, tgt, n)
				if ok != e.Valid() {
					t.Errorf("n=%d exact Solve(%d, %d).Valid() = %v, brute force found %v", n, b, tgt, e.Valid(), ok)
					continue
				}
				if ok && !e.Factor.Decimal().Equal(want) {
					t.Errorf("n=%d exact Solve(%d, %d) = %s, want %s", n, b, tgt, e.Factor, want)
				}
			}
		}
	}
}

func TestSolve_Idempotent(t *testing.T) {
	s := mustSolver(t, DefaultConfig())
	first := s.Solve(Q(7), Q(23))
	for i := 0; i < 5; i++ {
		got := s.Solve(Q(7), Q(23))
		if got.Factor.String() != first.Factor.String() || !got.Proof.Equal(first.Proof) || got.Valid() != first.Valid() {
			t.Fatalf("call %d = (%s, %s, %v), want (%s, %s, %v)", i, got.Factor, got.Proof, got.Valid(), first.Factor, first.Proof, first.Valid())
		}
	}
}

func TestSolve_IndependentPrecisions(t *testing.T) {
	coarse := mustSolver(t, Config{Precision: 4, GuardDigits: 2, MaxBumps: 1})
	fine := mustSolver(t, DefaultConfig())

	if got, want := coarse.Solve(Q(3), Q(10)).Factor.String(), "2.3334"; got != want {
		t.Errorf("coarse factor = %s, want %s", got, want)
	}
	if got, want := fine.Solve(Q(3), Q(10)).Factor.String(), "2.3333333333334"; got != want {
		t.Errorf("fine factor = %s, want %s", got, want)
	}
	// the shared package setting must not matter.
	saved := decimal.DivisionPrecision
	decimal.DivisionPrecision = 2
	defer func() { decimal.DivisionPrecision = saved }()
	if got, want := fine.Solve(Q(3), Q(10)).Factor.String(), "2.3333333333334"; got != want {
		t.Errorf("factor with DivisionPrecision=2 = %s, want %s", got, want)
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "exact", cfg: exactConfig(5)},
		{name: "zero precision", cfg: Config{Precision: 0}, wantErr: true},
		{name: "negative guard", cfg: Config{Precision: 5, GuardDigits: -1}, wantErr: true},
		{name: "short working digits", cfg: Config{Precision: 13, WorkingDigits: 14}, wantErr: true},
		{name: "working digits", cfg: Config{Precision: 13, WorkingDigits: 50}},
		{name: "negative bumps", cfg: Config{Precision: 13, MaxBumps: -1}, wantErr: true},
		{name: "max precision", cfg: Config{Precision: MaxPrecision, GuardDigits: MaxGuardDigits, WorkingDigits: MaxWorking}},
		{name: "precision too large", cfg: Config{Precision: MaxPrecision + 1}, wantErr: true},
		{name: "precision overflow", cfg: Config{Precision: math.MaxInt32, GuardDigits: 2}, wantErr: true},
		{name: "guard too large", cfg: Config{Precision: 13, GuardDigits: MaxGuardDigits + 1}, wantErr: true},
		{name: "guard overflow", cfg: Config{Precision: 13, GuardDigits: math.MaxInt32}, wantErr: true},
		{name: "working digits too large", cfg: Config{Precision: 13, WorkingDigits: MaxWorking + 1}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !ConfigError.Has(err) {
				t.Errorf("Validate() error = %v, want a ConfigError", err)
			}
		})
	}
	if got, want := DefaultConfig().Working(), int32(15); got != want {
		t.Errorf("Working() = %d, want %d", got, want)
	}
}

func TestSolveAll(t *testing.T) {
	var pairs []Pair
	for b := int64(1); b <= 50; b++ {
		pairs = append(pairs, Pair{Base: Q(b), Target: Q(b*3 + 1)})
	}
	pairs = append(pairs, Pair{Base: Q(0), Target: Q(1)})

	got, err := defaultSolver.SolveAll(context.Background(), pairs, 4)
	if err != nil {
		t.Fatalf("SolveAll() error = %v", err)
	}
	if len(got) != len(pairs) {
		t.Fatalf("len(SolveAll()) = %d, want %d", len(got), len(pairs))
	}
	for i, p := range pairs {
		want := Solve(p.Base, p.Target)
		if diff := cmp.Diff(want.Factor.String(), got[i].Factor.String()); diff != "" {
			t.Errorf("pair %d factor mismatch (-want +got):\n%s", i, diff)
		}
		if got[i].Outcome != want.Outcome {
			t.Errorf("pair %d Outcome = %v, want %v", i, got[i].Outcome, want.Outcome)
		}
	}
}

func TestSolveAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := defaultSolver.SolveAll(ctx, []Pair{{Base: Q(1), Target: Q(2)}}, 1)
	if err == nil {
		t.Errorf("SolveAll() with a canceled context error = nil, want an error")
	}
}
