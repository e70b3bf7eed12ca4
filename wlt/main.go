// Command wlt values a wallet of assets and measures its performance.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/etnz/wallet/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "wlt")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion().Complete("wlt")

	flag.Parse()
	if !*cmd.Verbose {
		log.SetOutput(io.Discard)
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	for _, c := range cmd.Commands() {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		root.Sub[c.Name()] = &complete.Command{Flags: flags(f)}
	}
	return root
}

func flags(f *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[fl.Name] = predict.Nothing
			return
		}
		switch fl.Name {
		case "config":
			m[fl.Name] = predict.Files("*.y*ml")
		case "f":
			m[fl.Name] = predict.Files("*.csv")
		case "m":
			m[fl.Name] = predict.Set{"share", "units", "seeded", "twrr"}
		case "provider":
			m[fl.Name] = predict.Set{"yahoo", "eodhd"}
		case "period":
			m[fl.Name] = predict.Set{"daily", "weekly", "monthly", "quarterly", "yearly"}
		default:
			m[fl.Name] = predict.Something
		}
	})
	return m
}
