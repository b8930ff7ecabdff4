package adjust

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var one = decimal.New(1, 0)

// Factor is an adjustment factor p quantized to a number of decimal places.
//
// A factor of 0.0001234500000 stands for an adjustment of +0.012345%: the
// adjusted quantity is Base * (1 + p).
type Factor struct {
	value  decimal.Decimal
	places int32
}

// NewFactor returns the factor value rounded up to places decimal places.
func NewFactor(value decimal.Decimal, places int32) Factor {
	return Factor{value: value.RoundCeil(places), places: places}
}

// ParseFactor reads a factor and keeps all its decimal places.
func ParseFactor(s string) (Factor, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Factor{}, ConversionError.New("%q is not a number", s)
	}
	places := max(-d.Exponent(), 0)
	return Factor{value: d, places: places}, nil
}

// Decimal returns the exact factor value.
func (f Factor) Decimal() decimal.Decimal { return f.value }

// Places returns the number of decimal places of the factor.
func (f Factor) Places() int32 { return f.places }

// Multiplier returns 1 + p.
func (f Factor) Multiplier() decimal.Decimal { return one.Add(f.value) }

// Apply returns TRUNC( q * (1 + p) ), truncated toward zero.
func (f Factor) Apply(q Quantity) Quantity {
	return Quantity{value: q.value.Mul(f.Multiplier()).Truncate(0)}
}

// Percent returns the factor expressed in percent.
func (f Factor) Percent() decimal.Decimal { return f.value.Shift(2) }

func (f Factor) Equal(g Factor) bool    { return f.value.Equal(g.value) }
func (f Factor) LessThan(g Factor) bool { return f.value.LessThan(g.value) }
func (f Factor) IsZero() bool           { return f.value.IsZero() }
func (f Factor) IsNegative() bool       { return f.value.IsNegative() }
func (f Factor) Add(d decimal.Decimal) Factor {
	return NewFactor(f.value.Add(d), f.places)
}

// String returns the factor with exactly Places decimals, e.g. "0.0010000000001".
func (f Factor) String() string { return f.value.StringFixed(f.places) }

// PercentString returns the factor as a signed percentage without trailing
// zeros, e.g. "+0.012345%".
func (f Factor) PercentString() string {
	s := f.Percent().String()
	if !f.value.IsNegative() {
		s = "+" + s
	}
	return s + "%"
}

// MarshalJSON encodes the factor as a JSON string to keep every digit.
func (f Factor) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(f.String())), nil
}

// UnmarshalJSON decodes a factor from a JSON string or number.
func (f *Factor) UnmarshalJSON(data []byte) error {
	s := string(data)
	if u, err := strconv.Unquote(s); err == nil {
		s = u
	}
	v, err := ParseFactor(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
