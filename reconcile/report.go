package reconcile

import (
	"context"

	"github.com/etnz/adjust"
	"go.uber.org/zap"
)

// Report is the reconciliation of all groups.
type Report struct {
	Config adjust.Config `json:"config"`
	Groups []GroupReport `json:"groups"`
	// Skipped lists the target tables that could not be read as groups.
	Skipped []string `json:"skipped,omitempty"`
}

// SummaryLine is the success count of a group.
type SummaryLine struct {
	Group string
	OK    int
	Total int
}

// Summary returns one line per group followed by a "TOTAL" line.
func (r *Report) Summary() []SummaryLine {
	var lines []SummaryLine
	total := SummaryLine{Group: "TOTAL"}
	for _, g := range r.Groups {
		lines = append(lines, SummaryLine{Group: g.Name, OK: g.OK, Total: g.Total})
		total.OK += g.OK
		total.Total += g.Total
	}
	return append(lines, total)
}

// Run reconciles the groups one after the other.
func (r *Reconciler) Run(ctx context.Context, book Book, groups []Group) (*Report, error) {
	report := &Report{Config: r.solver().Config()}
	for _, g := range groups {
		gr, err := r.Reconcile(ctx, book, g)
		if err != nil {
			return report, err
		}
		report.Groups = append(report.Groups, gr)
	}
	r.logger().Info("reconciliation complete",
		zap.String("op", "reconcile.Run"),
		zap.Int("groups", len(report.Groups)),
	)
	return report, nil
}
