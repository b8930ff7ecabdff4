package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/adjust"
	"github.com/etnz/adjust/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type solveCmd struct {
	solverFlags
	json bool

	out io.Writer
}

func (*solveCmd) Name() string     { return "solve" }
func (*solveCmd) Synopsis() string { return "find the adjustment factor of a base and a target quantity" }
func (*solveCmd) Usage() string {
	return `adj solve [-n <places>] [-guard <digits>] [-bumps <n>] [-json] <base> <target>

  Finds the smallest factor p with the given number of decimal places such
  that TRUNC( base × (1 + p) ) equals target, and shows the proof.
  Use -- before a negative target: adj solve -- 10 -5
`
}

func (c *solveCmd) SetFlags(f *flag.FlagSet) {
	c.solverFlags.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "Print the result as JSON.")
}

// solveOutput is the JSON form of an adjustment.
type solveOutput struct {
	Base       adjust.Quantity  `json:"base"`
	Target     adjust.Quantity  `json:"target"`
	Factor     *adjust.Factor   `json:"factor,omitempty"`
	Percent    string           `json:"percent,omitempty"`
	Proof      *adjust.Quantity `json:"proof,omitempty"`
	LowerBound string           `json:"lower_bound"`
	Bumps      int              `json:"bumps"`
	Outcome    string           `json:"outcome"`
	Error      string           `json:"error,omitempty"`
}

func newSolveOutput(a adjust.Adjustment) solveOutput {
	o := solveOutput{
		Base:       a.Base,
		Target:     a.Target,
		LowerBound: a.LowerBound.String(),
		Bumps:      a.Bumps,
		Outcome:    a.Outcome.String(),
	}
	o.Factor, o.Proof, _ = a.Result()
	if o.Factor != nil {
		o.Percent = o.Factor.PercentString()
	}
	if a.Err != nil {
		o.Error = a.Err.Error()
	}
	return o
}

func (c *solveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "solve requires a base and a target quantity")
		return subcommands.ExitUsageError
	}
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() { _ = logger.Sync() }()

	solver, err := c.solver(f, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a := solver.SolveValues(f.Arg(0), f.Arg(1))
	logger.Debug("solved",
		zap.String("op", "cmd.solve"),
		zap.Stringer("outcome", a.Outcome),
		zap.Int("bumps", a.Bumps),
	)

	if c.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newSolveOutput(a)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	} else if c.out != nil {
		fmt.Fprint(out, renderer.AdjustmentMarkdown(a))
	} else {
		printMarkdown(renderer.AdjustmentMarkdown(a))
	}

	if !a.Valid() {
		if !c.json {
			fmt.Fprintf(os.Stderr, "Error: %v\n", a.Err)
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
