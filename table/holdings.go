package table

import (
	"github.com/etnz/adjust"
)

// Entry is the quantity held for an instrument code.
type Entry struct {
	Code string
	// Raw is the cell value as read.
	Raw string
	// Quantity is set when Err is nil.
	Quantity adjust.Quantity
	// Err belongs to adjust.ConversionError when Raw is not an exact integer.
	Err error
	// Row is the 0-based row index in the table.
	Row int
}

// Holdings maps instrument codes to quantities, keeping the order in which
// codes first appear.
type Holdings struct {
	Name string
	// Duplicates counts rows whose code was already seen. The last row wins.
	Duplicates int

	index map[string]int
	items []Entry
}

// NewHoldings returns an empty set of holdings.
func NewHoldings(name string) *Holdings {
	return &Holdings{Name: name, index: make(map[string]int)}
}

// Add records an entry, replacing any entry with the same code.
func (h *Holdings) Add(e Entry) {
	if i, ok := h.index[e.Code]; ok {
		h.items[i] = e
		h.Duplicates++
		return
	}
	h.index[e.Code] = len(h.items)
	h.items = append(h.items, e)
}

// Lookup returns the entry for code.
func (h *Holdings) Lookup(code string) (Entry, bool) {
	if h == nil {
		return Entry{}, false
	}
	i, ok := h.index[code]
	if !ok {
		return Entry{}, false
	}
	return h.items[i], true
}

// Len returns the number of distinct codes.
func (h *Holdings) Len() int {
	if h == nil {
		return 0
	}
	return len(h.items)
}

// Entries returns the entries in order of first appearance.
func (h *Holdings) Entries() []Entry {
	if h == nil {
		return nil
	}
	return append([]Entry(nil), h.items...)
}

// Holdings extracts the entries below the header of layout l. Rows with a
// blank code are skipped; quantities that are not exact integers are kept
// with their conversion error.
func (t *Table) Holdings(l Layout) *Holdings {
	h := NewHoldings(t.Name)
	for i := l.Header + 1; i < len(t.Rows); i++ {
		code := t.Cell(i, l.Code)
		if code == "" {
			continue
		}
		raw := t.Cell(i, l.Quantity)
		q, err := adjust.ParseQuantity(raw)
		h.Add(Entry{Code: code, Raw: raw, Quantity: q, Err: err, Row: i})
	}
	return h
}
