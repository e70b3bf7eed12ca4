package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wallet/renderer"
	"github.com/google/subcommands"
)

type datesCmd struct {
	from, to string
}

func (*datesCmd) Name() string     { return "dates" }
func (*datesCmd) Synopsis() string { return "list the trading days of the evaluation window" }
func (*datesCmd) Usage() string {
	return `wlt dates [-from <date>] [-to <date>]

  Lists the evaluation dates: every day with at least one close, from the
  first order to today, restricted to the window.
`
}

func (c *datesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First evaluation date (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Last evaluation date (YYYY-MM-DD)")
}

func (c *datesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	window, err := parseWindow(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	e, err := load(ctx, window)
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.DatesMarkdown(e.calendar.Days()))
	return subcommands.ExitSuccess
}
