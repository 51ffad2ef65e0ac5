// Command stocklots tracks stock portfolios from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/stocklots/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Exits when invoked by the shell to complete a command line.
	completion(commander).Complete(name)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the subcommands and their flags for shell completion.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predict.Something
	})
	root.Flags["config"] = predict.Files("*.toml")

	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predict.Something
		})
		if _, ok := sub.Flags["png"]; ok {
			sub.Flags["png"] = predict.Files("*.png")
		}
		root.Sub[c.Name()] = sub
	})
	return root
}
