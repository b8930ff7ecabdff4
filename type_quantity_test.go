package adjust

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "1000", want: "1000"},
		{input: "  42 ", want: "42"},
		{input: "-17", want: "-17"},
		{input: "12.000", want: "12"},
		{input: "1.2e1", want: "12"},
		{input: "1E+3", want: "1000"},
		{input: "123456789012345678901234567890", want: "123456789012345678901234567890"},
		{input: "12.5", wantErr: true},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "1,000", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "1e63", want: "1" + strings.Repeat("0", 63)},
		{input: strings.Repeat("9", 64), want: strings.Repeat("9", 64)},
		{input: "1e64", wantErr: true},
		{input: strings.Repeat("9", 65), wantErr: true},
		{input: "1e2147483640", wantErr: true},
		{input: "-1e2000000", wantErr: true},
		{input: "1e-2147483640", wantErr: true},
		{input: "0e2147483640", want: "0"},
		{input: "12." + strings.Repeat("0", 64), want: "12"},
		{input: "12." + strings.Repeat("0", 65), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseQuantity(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseQuantity(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if err != nil {
				if !ConversionError.Has(err) {
					t.Errorf("ParseQuantity(%q) error = %v, want a ConversionError", tc.input, err)
				}
				return
			}
			if got.String() != tc.want {
				t.Errorf("ParseQuantity(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestQuantityOf(t *testing.T) {
	huge, _ := new(big.Int).SetString("98765432109876543210", 10)
	tooLarge := new(big.Int).Exp(big.NewInt(10), big.NewInt(70), nil)
	testCases := []struct {
		name    string
		input   any
		want    string
		wantErr bool
	}{
		{name: "int", input: 1000, want: "1000"},
		{name: "int8", input: int8(-5), want: "-5"},
		{name: "uint64 max", input: uint64(math.MaxUint64), want: "18446744073709551615"},
		{name: "float integral", input: 1000.0, want: "1000"},
		{name: "float large", input: 1e15, want: "1000000000000000"},
		{name: "float32", input: float32(250), want: "250"},
		{name: "float fractional", input: 0.1, wantErr: true},
		{name: "float artifact", input: 1000.0000000001, wantErr: true},
		{name: "NaN", input: math.NaN(), wantErr: true},
		{name: "Inf", input: math.Inf(1), wantErr: true},
		{name: "nil", input: nil, wantErr: true},
		{name: "string", input: "77", want: "77"},
		{name: "json number", input: json.Number("12e2"), want: "1200"},
		{name: "decimal", input: decimal.RequireFromString("3.000"), want: "3"},
		{name: "decimal fractional", input: decimal.RequireFromString("3.25"), wantErr: true},
		{name: "big int", input: huge, want: "98765432109876543210"},
		{name: "nil big int", input: (*big.Int)(nil), wantErr: true},
		{name: "big int too large", input: tooLarge, wantErr: true},
		{name: "float too large", input: 1e300, wantErr: true},
		{name: "decimal too large", input: decimal.New(1, math.MaxInt32-7), wantErr: true},
		{name: "quantity", input: Q(9), want: "9"},
		{name: "bool", input: true, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := QuantityOf(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("QuantityOf(%v) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if err != nil {
				if !ConversionError.Has(err) {
					t.Errorf("QuantityOf(%v) error = %v, want a ConversionError", tc.input, err)
				}
				return
			}
			if got.String() != tc.want {
				t.Errorf("QuantityOf(%v) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestQuantity_JSON(t *testing.T) {
	var v struct {
		A Quantity `json:"a"`
		B Quantity `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12, "b": "-3"}`), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !v.A.Equal(Q(12)) || !v.B.Equal(Q(-3)) {
		t.Errorf("Unmarshal() = %s, %s, want 12, -3", v.A, v.B)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(data), `{"a":12,"b":-3}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
	if err := json.Unmarshal([]byte(`{"a": 1.5}`), &v); err == nil {
		t.Errorf("Unmarshal(1.5) error = nil, want an error")
	}
}

func TestQuantity_Int64(t *testing.T) {
	if v, ok := Q(-42).Int64(); !ok || v != -42 {
		t.Errorf("Int64() = %d, %v, want -42, true", v, ok)
	}
	huge, _ := ParseQuantity("123456789012345678901234567890")
	if _, ok := huge.Int64(); ok {
		t.Errorf("Int64() of a huge quantity fits, want false")
	}
}
