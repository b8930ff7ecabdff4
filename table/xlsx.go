package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads every sheet of a workbook as a table named after the sheet.
// When sheet is not empty only that sheet is read.
//
// Cells are read as raw values: a quantity is "1500" even when the sheet
// displays "1,500.00".
func ReadXLSX(r io.Reader, sheet string) ([]*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var tables []*Table
	for _, name := range f.GetSheetList() {
		if sheet != "" && name != sheet {
			continue
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		tables = append(tables, &Table{Name: name, Rows: rows})
	}
	if sheet != "" && len(tables) == 0 {
		return nil, fmt.Errorf("sheet %q not found in workbook", sheet)
	}
	return tables, nil
}
