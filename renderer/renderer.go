// Package renderer renders reconciliation reports as markdown documents and
// spreadsheets.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/etnz/adjust"
	"github.com/etnz/adjust/reconcile"
	md "github.com/nao1215/markdown"
)

// quantities groups thousands: 1234567 is "1,234,567".
var quantities = money.NewFormatter(0, ".", ",", "", "1")

// Quantity formats a quantity with thousands separators.
func Quantity(q adjust.Quantity) string {
	if v, ok := q.Int64(); ok {
		return quantities.Format(v)
	}
	return q.String()
}

// raw formats a raw cell as a quantity when it is one.
func raw(s string) string {
	if q, err := adjust.ParseQuantity(s); err == nil {
		return Quantity(q)
	}
	if s == "" {
		return "-"
	}
	return s
}

// ReportMarkdown renders the report: a summary table followed by a table per
// group.
func ReportMarkdown(r *reconcile.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Adjustment Report")
	doc.PlainText(fmt.Sprintf("Factors are quantized to %d decimal places and checked against TRUNC( Base * (1 + p) ).", r.Config.Precision))

	doc.H2("Summary")
	summary := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Portfolio", "OK", "Total"},
	}
	for _, l := range r.Summary() {
		summary.Rows = append(summary.Rows, []string{l.Group, fmt.Sprint(l.OK), fmt.Sprint(l.Total)})
	}
	doc.Table(summary)

	if len(r.Skipped) > 0 {
		doc.PlainText("Skipped tables without ticker or quantity columns:")
		doc.BulletList(r.Skipped...)
	}

	for _, g := range r.Groups {
		doc.H2(g.Name)
		doc.Table(groupTable(g))
	}
	return doc.String()
}

// GroupMarkdown renders a single group.
func GroupMarkdown(g reconcile.GroupReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(g.Name)
	doc.PlainText(fmt.Sprintf("%d of %d reconciled.", g.OK, g.Total))
	doc.Table(groupTable(g))
	return doc.String()
}

func groupTable(g reconcile.GroupReport) md.TableSet {
	t := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Ticker", "Source", "Base", "Target", "Factor", "Adjustment", "Proof", "Status"},
	}
	for _, row := range g.Rows {
		factor, pct, proof := "-", "-", "-"
		if row.Factor != nil {
			factor, pct = row.Factor.String(), row.Factor.PercentString()
		}
		if row.Proof != nil {
			proof = Quantity(*row.Proof)
		}
		source := string(row.Source)
		if source == "" {
			source = "-"
		}
		t.Rows = append(t.Rows, []string{
			row.Code, source, raw(row.Base), raw(row.Target), factor, pct, proof, string(row.Status),
		})
	}
	return t
}

// AdjustmentMarkdown renders a single resolution with its proof.
func AdjustmentMarkdown(a adjust.Adjustment) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Adjustment %s → %s", Quantity(a.Base), Quantity(a.Target)))

	rows := [][]string{
		{"Outcome", md.Bold(a.Outcome.String())},
		{"Lower bound", a.LowerBound.String()},
	}
	if a.Computed() {
		rows = append(rows,
			[]string{"Factor", a.Factor.String()},
			[]string{"Adjustment", a.Factor.PercentString()},
			[]string{"Multiplier", a.Factor.Multiplier().String()},
			[]string{"Proof", Quantity(a.Proof)},
			[]string{"Bumps", fmt.Sprint(a.Bumps)},
		)
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Field", "Value"},
		Rows:      rows,
	})
	if a.Err != nil {
		doc.PlainText(md.Code(a.Err.Error()))
	}
	return doc.String()
}
