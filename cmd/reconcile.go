package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/adjust/reconcile"
	"github.com/etnz/adjust/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type reconcileCmd struct {
	solverFlags
	base      string
	secondary string
	target    string
	output    string
	sheet     string
	jsonPath  string
	workers   int
	cover     bool
	markdown  bool
	strict    bool

	out io.Writer
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "compute the adjustment factors of every target portfolio"
}
func (*reconcileCmd) Usage() string {
	return `adj reconcile [-base <file>] [-secondary <file>] [-target <file>] [-o <file>] [-md] [-strict]

  Reads the base quantities, an optional secondary file, and the target
  portfolios, one per sheet, then computes and checks a factor for every
  ticker. Files default to the files.* configuration keys.

  The report is written to -o: .xlsx for a workbook, .md for markdown and
  .json for JSON. Without -o, or with -md, it is printed as markdown.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	c.solverFlags.SetFlags(f)
	f.StringVar(&c.base, "base", "", "Base holdings file (csv, tsv, xlsx or json).")
	f.StringVar(&c.secondary, "secondary", "", "Secondary holdings file, used for tickers missing in the base file.")
	f.StringVar(&c.target, "target", "", "Target portfolios file, one portfolio per sheet.")
	f.StringVar(&c.output, "o", "", "Report file (.xlsx, .md or .json).")
	f.StringVar(&c.sheet, "sheet", "", "Sheet of the holdings workbooks, the first one by default.")
	f.StringVar(&c.jsonPath, "json-path", "", "JSONPath of the rows in JSON files.")
	f.IntVar(&c.workers, "workers", 0, "Number of rows resolved in parallel.")
	f.BoolVar(&c.cover, "cover", true, "Add an instructions sheet to the workbook.")
	f.BoolVar(&c.markdown, "md", false, "Print the report as markdown even when writing a file.")
	f.BoolVar(&c.strict, "strict", false, "Exit with a failure status unless every row is OK.")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() { _ = logger.Sync() }()
	c.override(f, cfg)

	sources := cfg.Sources()
	sources.Options.Sheet = c.sheet
	sources.Options.JSONPath = c.jsonPath
	if sources.Base == "" || sources.Target == "" {
		fmt.Fprintln(os.Stderr, "reconcile requires a base and a target file")
		return subcommands.ExitUsageError
	}

	solver, err := c.solver(f, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	book, groups, skipped, err := reconcile.Load(sources, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	r := reconcile.Reconciler{Solver: solver, Workers: cfg.Workers, Logger: logger}
	report, err := r.Run(ctx, book, groups)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report.Skipped = skipped

	if cfg.Files.Output != "" {
		if err := writeReport(cfg.Files.Output, report, cfg.Cover); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report %q: %v\n", cfg.Files.Output, err)
			return subcommands.ExitFailure
		}
		logger.Info("report written",
			zap.String("op", "cmd.reconcile"),
			zap.String("file", cfg.Files.Output),
		)
	}
	if cfg.Files.Output == "" || c.markdown {
		doc := renderer.ReportMarkdown(report)
		if c.out != nil {
			fmt.Fprint(c.out, doc)
		} else {
			printMarkdown(doc)
		}
	}

	if c.strict {
		for _, l := range report.Summary() {
			if l.OK != l.Total {
				return subcommands.ExitFailure
			}
		}
	}
	return subcommands.ExitSuccess
}

// override replaces configuration values by the flags set on the command line.
func (c *reconcileCmd) override(f *flag.FlagSet, cfg *Config) {
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "base":
			cfg.Files.Base = c.base
		case "secondary":
			cfg.Files.Secondary = c.secondary
		case "target":
			cfg.Files.Target = c.target
		case "o":
			cfg.Files.Output = c.output
		case "workers":
			cfg.Workers = c.workers
		case "cover":
			cfg.Cover = c.cover
		}
	})
}

// writeReport writes the report in the format of the file extension.
func writeReport(path string, report *reconcile.Report, cover bool) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".md", ".json":
	default:
		return fmt.Errorf("unsupported report format %q", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	switch ext {
	case ".xlsx":
		return renderer.WriteWorkbook(file, report, renderer.WorkbookOptions{Cover: cover})
	case ".md":
		_, err = io.WriteString(file, renderer.ReportMarkdown(report))
		return err
	default:
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
}
