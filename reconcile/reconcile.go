// Package reconcile runs the adjustment solver over target portfolios.
//
// Base quantities are looked up in a primary holdings table, then in a
// secondary one (e.g. depositary receipts). Every instrument of a target
// group is resolved once and classified with a Status; groups are summarized
// by their count of OK rows.
package reconcile

import (
	"context"
	"runtime"

	"github.com/etnz/adjust"
	"github.com/etnz/adjust/table"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status classifies a reconciled row.
type Status string

const (
	// OK means the factor reproduces the target.
	OK Status = "OK"
	// Fail means the solver found no factor reproducing the target.
	Fail Status = "FAIL"
	// MissingBase means the code is in neither holdings table.
	MissingBase Status = "MISSING_BASE"
	// Invalid means the base or the target is not an exact integer.
	Invalid Status = "INVALID"
)

// Source tells which table the base quantity comes from.
type Source string

const (
	Primary   Source = "PRIMARY"
	Secondary Source = "SECONDARY"
)

// Book holds the base quantities.
type Book struct {
	Primary   *table.Holdings
	Secondary *table.Holdings
}

// Base returns the base entry of code. A primary entry that is not an exact
// integer gives way to a valid secondary one; otherwise it is returned with
// its error.
func (b Book) Base(code string) (table.Entry, Source, bool) {
	p, inPrimary := b.Primary.Lookup(code)
	if inPrimary && p.Err == nil {
		return p, Primary, true
	}
	s, inSecondary := b.Secondary.Lookup(code)
	switch {
	case inSecondary && s.Err == nil:
		return s, Secondary, true
	case inPrimary:
		return p, Primary, true
	case inSecondary:
		return s, Secondary, true
	}
	return table.Entry{}, "", false
}

// Group is a named target portfolio.
type Group struct {
	Name    string
	Targets *table.Holdings
}

// Row is the reconciliation of one instrument.
type Row struct {
	Code   string           `json:"code"`
	Source Source           `json:"source,omitempty"`
	Base   string           `json:"base"`
	Target string           `json:"target"`
	Factor *adjust.Factor   `json:"factor,omitempty"`
	Proof  *adjust.Quantity `json:"proof,omitempty"`
	Status Status           `json:"status"`
	Detail string           `json:"detail,omitempty"`
}

// GroupReport is the reconciliation of a group.
type GroupReport struct {
	Name  string `json:"name"`
	Rows  []Row  `json:"rows"`
	OK    int    `json:"ok"`
	Total int    `json:"total"`
}

// Count returns the number of rows with status s.
func (g GroupReport) Count(s Status) int {
	n := 0
	for _, r := range g.Rows {
		if r.Status == s {
			n++
		}
	}
	return n
}

// Reconciler resolves groups against a book.
type Reconciler struct {
	// Solver defaults to a solver with adjust.DefaultConfig.
	Solver *adjust.Solver
	// Workers bounds the number of rows resolved concurrently, GOMAXPROCS
	// when <= 0.
	Workers int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

func (r *Reconciler) solver() *adjust.Solver {
	if r.Solver != nil {
		return r.Solver
	}
	return adjust.DefaultSolver()
}

func (r *Reconciler) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

// Reconcile resolves every target of g. Rows keep the order of the targets.
func (r *Reconciler) Reconcile(ctx context.Context, book Book, g Group) (GroupReport, error) {
	logger := r.logger().With(zap.String("op", "reconcile.Reconcile"), zap.String("group", g.Name))
	solver := r.solver()
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	targets := g.Targets.Entries()
	report := GroupReport{Name: g.Name, Rows: make([]Row, len(targets))}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, t := range targets {
		row := &report.Rows[i]
		*row = Row{Code: t.Code, Target: t.Raw, Base: "N/A"}

		if t.Err != nil {
			row.Status, row.Detail = Invalid, "target: "+t.Err.Error()
			continue
		}
		base, src, ok := book.Base(t.Code)
		if !ok {
			row.Status = MissingBase
			logger.Debug("no base quantity", zap.String("code", t.Code))
			continue
		}
		row.Base, row.Source = base.Raw, src
		if base.Err != nil {
			row.Status, row.Detail = Invalid, "base: "+base.Err.Error()
			continue
		}

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fill(row, solver.Solve(base.Quantity, t.Quantity))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return report, err
	}

	for _, row := range report.Rows {
		report.Total++
		switch row.Status {
		case OK:
			report.OK++
		case Fail:
			logger.Warn("reconciliation failed",
				zap.String("code", row.Code),
				zap.String("base", row.Base),
				zap.String("target", row.Target),
				zap.String("detail", row.Detail),
			)
		case Invalid:
			logger.Warn("invalid quantity", zap.String("code", row.Code), zap.String("detail", row.Detail))
		}
	}
	logger.Info("group reconciled",
		zap.Int("ok", report.OK),
		zap.Int("total", report.Total),
		zap.Int("missing", report.Count(MissingBase)),
	)
	return report, nil
}

// fill records an adjustment in row.
func fill(row *Row, a adjust.Adjustment) {
	row.Status = Fail
	if a.Computed() {
		f, p := a.Factor, a.Proof
		row.Factor, row.Proof = &f, &p
	}
	if a.Valid() {
		row.Status = OK
	}
	if a.Err != nil {
		row.Detail = a.Err.Error()
	}
}
