package table

import (
	"fmt"
	"slices"
	"strings"
)

// Fallback tells Layout what to do when a column cannot be found by name.
type Fallback int

const (
	// FallbackNone reports ErrColumnsNotFound.
	FallbackNone Fallback = iota
	// FallbackPositional uses the first column for codes and the second for
	// quantities.
	FallbackPositional
	// FallbackFirstLast uses the first column for codes and the last one for
	// quantities, each only when not found by name.
	FallbackFirstLast
)

// Aliases lists the accepted names of the code and quantity columns, in order
// of preference. Names are compared after Normalize.
type Aliases struct {
	Code     []string
	Quantity []string
}

// DefaultAliases returns the column names used when none are configured.
func DefaultAliases() Aliases {
	return Aliases{
		Code:     []string{"ticker", "symbol", "code"},
		Quantity: []string{"quantity", "qty", "theoretical", "quantite", "position", "shares"},
	}
}

// Layout locates the header and the columns of a table.
type Layout struct {
	Header   int
	Code     int
	Quantity int
}

// Layout finds the header row, the first row among the scan leading rows
// holding a code column name (row 0 when none does), then the code and
// quantity columns in it.
//
// Code columns match an alias exactly. Quantity columns match an alias
// exactly, or else contain one, so that "Position Qty" is found with "qty".
func (t *Table) Layout(a Aliases, scan int, fb Fallback) (Layout, error) {
	if scan <= 0 {
		scan = DefaultHeaderScanRows
	}
	codes := normalizeAll(a.Code)
	quantities := normalizeAll(a.Quantity)

	l := Layout{Code: -1, Quantity: -1}
	for i := 0; i < min(scan, len(t.Rows)); i++ {
		if findExact(t.header(i), codes) >= 0 {
			l.Header = i
			break
		}
	}

	header := t.header(l.Header)
	l.Code = findExact(header, codes)
	l.Quantity = findExact(header, quantities)
	if l.Quantity < 0 {
		l.Quantity = findContains(header, quantities, l.Code)
	}
	if l.Code >= 0 && l.Quantity >= 0 {
		return l, nil
	}

	width := len(header)
	switch fb {
	case FallbackPositional:
		if width >= 2 {
			return Layout{Header: l.Header, Code: 0, Quantity: 1}, nil
		}
	case FallbackFirstLast:
		if width >= 2 {
			if l.Code < 0 {
				l.Code = 0
			}
			if l.Quantity < 0 {
				l.Quantity = width - 1
			}
			if l.Code != l.Quantity {
				return l, nil
			}
		}
	}
	return l, fmt.Errorf("table %q: %w (header %q)", t.Name, ErrColumnsNotFound, header)
}

// header returns the normalized cells of row i.
func (t *Table) header(i int) []string {
	if i >= len(t.Rows) {
		return nil
	}
	return normalizeAll(t.Rows[i])
}

func normalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Normalize(n)
	}
	return out
}

// findExact returns the index of the header cell equal to the first matching
// alias, -1 if none.
func findExact(header, aliases []string) int {
	for _, a := range aliases {
		if i := slices.Index(header, a); i >= 0 && a != "" {
			return i
		}
	}
	return -1
}

// findContains returns the index of the first header cell containing an
// alias, skipping column skip.
func findContains(header, aliases []string, skip int) int {
	for i, h := range header {
		if i == skip || h == "" {
			continue
		}
		for _, a := range aliases {
			if a != "" && strings.Contains(h, a) {
				return i
			}
		}
	}
	return -1
}
