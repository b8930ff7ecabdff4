package adjust

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pair is a (base, target) couple to resolve.
type Pair struct {
	Base   Quantity
	Target Quantity
}

// SolveAll resolves every pair using at most workers goroutines (GOMAXPROCS
// when workers <= 0). Results are in the order of pairs.
//
// Solving never fails; the only error is the context one, in which case the
// results are incomplete.
func (s *Solver) SolveAll(ctx context.Context, pairs []Pair, workers int) ([]Adjustment, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Adjustment, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.Solve(p.Base, p.Target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, ctx.Err()
}
