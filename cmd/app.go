// Package cmd implements the adj command line application.
package cmd

import (
	"flag"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/adjust"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands are the adj commands, by group.
var Commands = map[string][]subcommands.Command{
	"adjust": {&solveCmd{}, &reconcileCmd{}},
	"help":   {&topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	for _, group := range slices.Sorted(maps.Keys(Commands)) {
		for _, command := range Commands[group] {
			c.Register(command, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", DefaultConfigFile, "Path to the configuration file (yaml, json or toml)")
var logLevel = flag.String("log-level", "", "Log level override (debug, info, warn, error)")

// setup loads the configuration and builds the logger. The configuration file
// is optional unless -config was given explicitly.
func setup() (*Config, *zap.Logger, error) {
	cfg, err := LoadConfig(*configFile, isSet(flag.CommandLine, "config"))
	if err != nil {
		return nil, nil, err
	}
	logger, err := NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// solverFlags are the arithmetic flags shared by commands.
type solverFlags struct {
	precision int
	guard     int
	bumps     int
}

func (s *solverFlags) SetFlags(f *flag.FlagSet) {
	f.IntVar(&s.precision, "n", adjust.DefaultPrecision, "Number of decimal places of the factor.")
	f.IntVar(&s.guard, "guard", 2, "Extra digits of the safety epsilon. 0 returns the exact minimum.")
	f.IntVar(&s.bumps, "bumps", 1, "Maximum number of quantum bumps after rounding.")
}

// apply overrides cfg with the flags set on the command line.
func (s *solverFlags) apply(f *flag.FlagSet, cfg *adjust.Config) error {
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "n":
			cfg.Precision, err = int32Of("-n", s.precision)
		case "guard":
			cfg.GuardDigits, err = int32Of("-guard", s.guard)
		case "bumps":
			cfg.MaxBumps = s.bumps
		}
	})
	return err
}

// solver builds the solver of cfg overridden by the flags.
func (s *solverFlags) solver(f *flag.FlagSet, cfg *Config) (*adjust.Solver, error) {
	sc, err := cfg.Solver()
	if err != nil {
		return nil, err
	}
	if err := s.apply(f, &sc); err != nil {
		return nil, err
	}
	return adjust.NewSolver(sc)
}

// int32Of converts a flag or configuration value, rejecting values out of
// the int32 range instead of wrapping them.
func int32Of(name string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, adjust.ConfigError.New("%s %d is out of range", name, v)
	}
	return int32(v), nil
}

// isSet reports whether the flag name was set on the command line.
func isSet(f *flag.FlagSet, name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// printMarkdown renders markdown for the terminal, or prints it as is when it
// cannot be rendered.
func printMarkdown(doc string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(doc)
		return
	}
	out, err := r.Render(doc)
	if err != nil {
		fmt.Print(doc)
		return
	}
	fmt.Fprint(os.Stdout, out)
}
