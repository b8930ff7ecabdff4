package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/adjust/docs"
	"github.com/etnz/adjust/reconcile"
	"github.com/xuri/excelize/v2"
)

const (
	// SummarySheet is the name of the sheet holding the per group counts.
	SummarySheet = "SUMMARY"
	// CoverSheet is the name of the optional instructions sheet.
	CoverSheet = "Instructions"

	maxSheetName = 31
)

// WorkbookOptions controls WriteWorkbook.
type WorkbookOptions struct {
	// Cover adds an instructions sheet explaining the method, in first
	// position.
	Cover bool
}

var workbookHeader = []any{"Ticker", "Base_Qty", "Target_Qty", "Adjustment_Factor", "Proof_Check", "Status", "Source", "Detail"}

// WriteWorkbook writes the report as an xlsx workbook: one sheet per group and
// a SUMMARY sheet.
//
// Factors are written as text so that no digit is lost to floating point.
func WriteWorkbook(w io.Writer, r *reconcile.Report, opts WorkbookOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	names := newSheetNames()
	var sheets []string
	if opts.Cover {
		sheets = append(sheets, names.add(CoverSheet))
	}
	groups := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		groups[i] = names.add(g.Name)
		sheets = append(sheets, groups[i])
	}
	summary := names.add(SummarySheet)
	sheets = append(sheets, summary)

	// a new file comes with a default sheet, reuse it as the first one.
	if err := f.SetSheetName(f.GetSheetName(0), sheets[0]); err != nil {
		return err
	}
	for _, s := range sheets[1:] {
		if _, err := f.NewSheet(s); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if opts.Cover {
		if err := writeCover(f, sheets[0], r); err != nil {
			return err
		}
	}
	for i, g := range r.Groups {
		if err := writeGroup(f, groups[i], g, bold); err != nil {
			return fmt.Errorf("sheet %q: %w", groups[i], err)
		}
	}
	if err := writeSummary(f, summary, r, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

func writeGroup(f *excelize.File, sheet string, g reconcile.GroupReport, header int) error {
	if err := f.SetSheetRow(sheet, "A1", &workbookHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", header); err != nil {
		return err
	}
	for i, row := range g.Rows {
		factor, proof := "", ""
		if row.Factor != nil {
			factor = row.Factor.String()
		}
		if row.Proof != nil {
			proof = row.Proof.String()
		}
		cells := []any{row.Code, row.Base, row.Target, factor, proof, string(row.Status), string(row.Source), row.Detail}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "H", 18)
}

func writeSummary(f *excelize.File, sheet string, r *reconcile.Report, header int) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Portfolio", "Success", "Total"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", header); err != nil {
		return err
	}
	for i, l := range r.Summary() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{l.Group, l.OK, l.Total}); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

func writeCover(f *excelize.File, sheet string, r *reconcile.Report) error {
	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"003366"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", "Adjustment factors"); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", "E2"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E2", title); err != nil {
		return err
	}

	method, err := docs.GetTopic("method")
	if err != nil {
		return err
	}
	lines := []string{fmt.Sprintf("Factors have %d decimal places.", r.Config.Precision), ""}
	lines = append(lines, plainLines(method)...)
	for i, l := range lines {
		cell, err := excelize.CoordinatesToCellName(2, i+4)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, l); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 4)
}

// plainLines strips the markdown markers of headings and list items, and the
// code fences.
func plainLines(doc string) []string {
	var lines []string
	for _, l := range strings.Split(doc, "\n") {
		l = strings.TrimRight(l, " \t")
		if strings.HasPrefix(l, "```") {
			continue
		}
		l = strings.TrimLeft(l, "#")
		l = strings.TrimPrefix(l, "* ")
		lines = append(lines, strings.TrimSpace(l))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// sheetNames hands out valid and unique sheet names.
type sheetNames map[string]bool

func newSheetNames() sheetNames { return make(sheetNames) }

func (n sheetNames) add(name string) string {
	base := SheetName(name)
	name = base
	for i := 2; n[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = cut(base, maxSheetName-len(suffix)) + suffix
	}
	n[strings.ToLower(name)] = true
	return name
}

// SheetName turns s into a valid sheet name: forbidden characters are
// replaced by '_' and the name is cut to 31 characters.
func SheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.Trim(s, "'"))
	if s == "" {
		s = "Sheet"
	}
	return cut(s, maxSheetName)
}

func cut(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
