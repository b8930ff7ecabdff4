package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options tunes how Open reads a file.
type Options struct {
	// Comma is the CSV delimiter, detected when 0.
	Comma rune
	// Sheet restricts a workbook to a single sheet.
	Sheet string
	// JSONPath selects the rows of a JSON document, DefaultJSONPath when empty.
	JSONPath string
}

// Open reads the tables of a file according to its extension: .csv, .tsv and
// .txt files hold one table, .xlsx and .xlsm one per sheet, .json one.
// Single table files are named after the file without its extension.
func Open(path string, opts Options) ([]*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch ext {
	case ".csv", ".txt":
		t, err := ReadCSV(f, name, opts.Comma)
		if err != nil {
			return nil, err
		}
		return []*Table{t}, nil
	case ".tsv":
		comma := opts.Comma
		if comma == 0 {
			comma = '\t'
		}
		t, err := ReadCSV(f, name, comma)
		if err != nil {
			return nil, err
		}
		return []*Table{t}, nil
	case ".xlsx", ".xlsm":
		tables, err := ReadXLSX(f, opts.Sheet)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return tables, nil
	case ".json":
		t, err := ReadJSON(f, name, opts.JSONPath)
		if err != nil {
			return nil, err
		}
		return []*Table{t}, nil
	default:
		return nil, fmt.Errorf("unsupported table format %q for %s", ext, path)
	}
}
