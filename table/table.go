// Package table reads holdings tables from CSV, XLSX and JSON files.
//
// Files produced by brokers and spreadsheets rarely agree on a layout: the
// header may be preceded by a few title lines and columns are named
// "Ticker", "Symbol", "Qty" or "Quantité Théorique". A Table is the raw grid
// of cells; Layout locates the header row and the code and quantity columns,
// and Holdings extracts the quantities keyed by instrument code.
package table

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultHeaderScanRows is the number of leading rows searched for a header.
const DefaultHeaderScanRows = 20

// ErrColumnsNotFound is returned by Layout when the code or the quantity column
// cannot be located and no fallback applies.
var ErrColumnsNotFound = errors.New("code or quantity column not found")

// Table is a named grid of raw cell values. Rows may have different lengths.
type Table struct {
	Name string
	Rows [][]string
}

// Cell returns the trimmed cell at row i, column j, or "" when out of range.
func (t *Table) Cell(i, j int) string {
	if i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][j])
}

// Normalize folds a column name for comparison: accents are removed, spaces
// collapsed and letters lower cased. "  Quantité  Théorique" is
// "quantite theorique".
func Normalize(s string) string {
	// a Chain is stateful, do not share it.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
