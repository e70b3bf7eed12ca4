package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"github.com/etnz/wallet/renderer"
	"github.com/google/subcommands"
)

type valuationCmd struct {
	from, to string
	period   string
	csv      bool
}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "display the daily value, investment and cash flows of the wallet" }
func (*valuationCmd) Usage() string {
	return `wlt valuation [-from <date>] [-to <date>] [-period <period>] [-csv]

  Values every asset held on each trading day, and reports the wallet value,
  the cumulative net investment and the cash flow of the day.

  -period samples the series on the last trading day of each day, week,
  month, quarter or year. -csv writes a CSV document instead of a table.
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First evaluation date (YYYY-MM-DD), defaults to the configured window")
	f.StringVar(&c.to, "to", "", "Last evaluation date (YYYY-MM-DD), defaults to the configured window")
	f.StringVar(&c.period, "period", "daily", "Sampling period: daily, weekly, monthly, quarterly or yearly")
	f.BoolVar(&c.csv, "csv", false, "Write CSV to stdout")
}

func (c *valuationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	window, err := parseWindow(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	e, v, err := evaluate(ctx, window)
	if err != nil {
		return failure(err)
	}
	v = v.Sample(period)

	if c.csv {
		if err := wallet.ExportValuationCSV(os.Stdout, v); err != nil {
			return failure(err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ValuationMarkdown(v, e.cfg.Currency))
	return subcommands.ExitSuccess
}
