package adjust

import (
	"github.com/shopspring/decimal"
)

// Outcome classifies an Adjustment.
type Outcome int

const (
	// Invalid means no factor was computed: an input is missing, not an
	// integer, or the base is not positive.
	Invalid Outcome = iota
	// Reconciled means the proof quantity equals the target.
	Reconciled
	// Mismatch means a factor was computed but its proof quantity differs
	// from the target.
	Mismatch
)

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Reconciled:
		return "reconciled"
	case Mismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Adjustment is the result of resolving a base quantity into a target.
type Adjustment struct {
	Base   Quantity
	Target Quantity
	// Factor is the adjustment factor p, set unless Outcome is Invalid.
	Factor Factor
	// Proof is TRUNC( Base * (1 + Factor) ), set unless Outcome is Invalid.
	Proof Quantity
	// LowerBound is the theoretical lower bound of the factor, rounded to
	// the working digits. For audit only.
	LowerBound decimal.Decimal
	// Bumps counts the quantum bumps applied to the first candidate.
	Bumps   int
	Outcome Outcome
	// Err classifies Invalid and Mismatch outcomes, nil otherwise.
	Err error
}

// Valid reports whether the proof quantity equals the target.
func (a Adjustment) Valid() bool { return a.Outcome == Reconciled }

// Computed reports whether Factor and Proof are set.
func (a Adjustment) Computed() bool { return a.Outcome != Invalid }

// Result returns the adjustment as an optional factor, an optional proof and
// the validity flag.
func (a Adjustment) Result() (*Factor, *Quantity, bool) {
	if !a.Computed() {
		return nil, nil, false
	}
	f, p := a.Factor, a.Proof
	return &f, &p, a.Valid()
}
