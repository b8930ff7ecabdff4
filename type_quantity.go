package adjust

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// integer is the set of Go integer kinds accepted by Q.
type integer interface {
	int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64
}

// MaxQuantityDigits is the largest number of digits of a quantity, and the
// largest number of decimal places accepted in its notation. Conversions
// reject anything beyond with a ConversionError.
const MaxQuantityDigits = 64

// Quantity is an exact integer quantity of an instrument.
//
// The zero value is the quantity 0.
type Quantity struct {
	value decimal.Decimal
}

// Q is a convenient factory for quantities from Go integers.
func Q[T integer](value T) Quantity {
	switch v := any(value).(type) {
	case uint:
		return Quantity{value: decimal.NewFromUint64(uint64(v))}
	case uint64:
		return Quantity{value: decimal.NewFromUint64(v)}
	default:
		return Quantity{value: decimal.NewFromInt(int64(value))}
	}
}

// ParseQuantity reads s as an exact integer.
//
// Decimal and scientific notations are accepted as long as the value is
// integral: "12", "12.000" and "1.2e1" are all 12, while "12.5" is rejected.
// The returned error belongs to ConversionError.
func ParseQuantity(s string) (Quantity, error) {
	q, err := parseQuantity(s)
	return q, ConversionError.Wrap(err)
}

func parseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, errMissing
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("%q is not a number", s)
	}
	return fromDecimal(d, s)
}

// QuantityOf converts a loosely typed value, as found in spreadsheet cells or
// decoded JSON, into a Quantity without going through binary floating point
// arithmetic.
//
// Floats are read through their shortest decimal representation, so that
// 1000.0 converts to 1000 and 0.1 is rejected as non integral. nil is a missing
// value. The returned error belongs to ConversionError.
func QuantityOf(v any) (Quantity, error) {
	q, err := quantityOf(v)
	return q, ConversionError.Wrap(err)
}

func quantityOf(v any) (Quantity, error) {
	switch v := v.(type) {
	case nil:
		return Quantity{}, errMissing
	case Quantity:
		return v, nil
	case *Quantity:
		if v == nil {
			return Quantity{}, errMissing
		}
		return *v, nil
	case string:
		return parseQuantity(v)
	case json.Number:
		return parseQuantity(string(v))
	case decimal.Decimal:
		return fromDecimal(v, v.String())
	case *big.Int:
		if v == nil {
			return Quantity{}, errMissing
		}
		return fromDecimal(decimal.NewFromBigInt(v, 0), v.String())
	case int:
		return Q(v), nil
	case int8:
		return Q(v), nil
	case int16:
		return Q(v), nil
	case int32:
		return Q(v), nil
	case int64:
		return Q(v), nil
	case uint:
		return Q(v), nil
	case uint8:
		return Q(v), nil
	case uint16:
		return Q(v), nil
	case uint32:
		return Q(v), nil
	case uint64:
		return Q(v), nil
	case float32:
		if !finite(float64(v)) {
			return Quantity{}, fmt.Errorf("%v is not a finite number", v)
		}
		d := decimal.NewFromFloat32(v)
		return fromDecimal(d, d.String())
	case float64:
		if !finite(v) {
			return Quantity{}, fmt.Errorf("%v is not a finite number", v)
		}
		d := decimal.NewFromFloat(v)
		return fromDecimal(d, d.String())
	default:
		return Quantity{}, fmt.Errorf("unsupported type %T", v)
	}
}

var errMissing = errors.New("missing value")

// cut shortens s for error messages.
func cut(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// fromDecimal checks that d is integral and within MaxQuantityDigits. raw is
// used in error messages.
func fromDecimal(d decimal.Decimal, raw string) (Quantity, error) {
	if d.IsZero() {
		return Quantity{}, nil
	}
	// checked on the exponent before any rescaling, which would be
	// proportional to it.
	exp := int64(d.Exponent())
	if exp < -MaxQuantityDigits || int64(d.NumDigits())+exp > MaxQuantityDigits {
		return Quantity{}, fmt.Errorf("%q exceeds %d digits", cut(raw, 32), MaxQuantityDigits)
	}
	i := d.Truncate(0)
	if !i.Equal(d) {
		return Quantity{}, fmt.Errorf("%q is not an integer", raw)
	}
	return Quantity{value: i}, nil
}

// Decimal returns the quantity as a decimal.
func (q Quantity) Decimal() decimal.Decimal { return q.value }

// BigInt returns the quantity as a big integer.
func (q Quantity) BigInt() *big.Int { return q.value.BigInt() }

func (q Quantity) Equal(p Quantity) bool           { return q.value.Equal(p.value) }
func (q Quantity) LessThan(quantity Quantity) bool { return q.value.LessThan(quantity.value) }
func (q Quantity) GreaterThan(p Quantity) bool     { return q.value.GreaterThan(p.value) }
func (q Quantity) Cmp(p Quantity) int              { return q.value.Cmp(p.value) }
func (q Quantity) Add(p Quantity) Quantity         { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) Sub(p Quantity) Quantity         { return Quantity{value: q.value.Sub(p.value)} }
func (q Quantity) Neg() Quantity                   { return Quantity{value: q.value.Neg()} }
func (q Quantity) IsNegative() bool                { return q.value.IsNegative() }
func (q Quantity) IsPositive() bool                { return q.value.IsPositive() }
func (q Quantity) IsZero() bool                    { return q.value.IsZero() }
func (q Quantity) Sign() int                       { return q.value.Sign() }
func (q Quantity) String() string                  { return q.value.String() }

// Int64 returns the quantity as an int64 and whether it fits.
func (q Quantity) Int64() (int64, bool) {
	b := q.value.BigInt()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

// MarshalJSON encodes the quantity as a JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.value.String()), nil
}

// UnmarshalJSON accepts a JSON number or string holding an integer.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return ConversionError.Wrap(errMissing)
	}
	v, err := ParseQuantity(s)
	if err != nil {
		return err
	}
	*q = v
	return nil
}
