package cmd

import (
	"flag"

	"github.com/etnz/adjust/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// fileFlags are the flags naming a file.
var fileFlags = map[string]bool{"base": true, "secondary": true, "target": true, "o": true, "config": true}

// Completion returns the shell completion of the adj command.
func Completion() *complete.Command {
	c := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, commands := range Commands {
		for _, command := range commands {
			f := flag.NewFlagSet(command.Name(), flag.ContinueOnError)
			command.SetFlags(f)
			c.Sub[command.Name()] = &complete.Command{Flags: flagPredictors(f)}
		}
	}
	if topics, err := docs.Topics(); err == nil {
		c.Sub["topic"].Args = predict.Set(topics)
	}
	for _, name := range []string{"help", "flags", "commands"} {
		c.Sub[name] = &complete.Command{}
	}
	return c
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if fileFlags[fl.Name] {
			flags[fl.Name] = predict.Files("*")
			return
		}
		flags[fl.Name] = predict.Nothing
	})
	return flags
}
