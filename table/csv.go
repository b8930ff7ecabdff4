package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV reads a delimited text table. When comma is 0 the delimiter is the
// most frequent of ',', ';' and tab on the first line.
func ReadCSV(r io.Reader, name string, comma rune) (*Table, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte("\xef\xbb\xbf")) {
		br.Discard(3)
	}
	if comma == 0 {
		// a short file returns what is available along with io.EOF.
		head, _ := br.Peek(br.Size())
		comma = detectComma(head)
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %q: %w", name, err)
	}
	return &Table{Name: name, Rows: records}, nil
}

// detectComma picks the delimiter of the first line in data.
func detectComma(data []byte) rune {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	best, count := ',', bytes.Count(data, []byte{','})
	for _, c := range []rune{';', '\t'} {
		if n := bytes.Count(data, []byte(string(c))); n > count {
			best, count = c, n
		}
	}
	return best
}
