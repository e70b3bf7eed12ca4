package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/renderer"
	"github.com/google/subcommands"
)

type performanceCmd struct {
	method   string
	init     float64
	from, to string
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "display a performance index of the wallet" }
func (*performanceCmd) Usage() string {
	return `wlt performance [-m share|units|seeded|twrr] [-init <value>] [-from <date>] [-to <date>]

  Computes a performance index that is not distorted by deposits and withdrawals:

  - share: the wallet is a single share, rebased on each cash flow.
  - units: units are issued and redeemed at the previous unit value.
  - seeded: like units, but the first units are bought at -init.
  - twrr:  time-weighted rate of return, chained daily.

  -init is the initial share value, the initial unit count, the initial unit
  value (seeded) or the base of the twrr cumulated index. Both default to the configuration.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.method, "m", "", "Performance method: share, units, seeded or twrr")
	f.Float64Var(&c.init, "init", 0, "Initial value of the index")
	f.StringVar(&c.from, "from", "", "First evaluation date (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Last evaluation date (YYYY-MM-DD)")
}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	window, err := parseWindow(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	e, v, err := evaluate(ctx, window)
	if err != nil {
		return failure(err)
	}

	method, err := e.cfg.ParsedMethod()
	if c.method != "" {
		method, err = wallet.ParseMethod(c.method)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	init := e.cfg.Init
	if c.init != 0 {
		init = c.init
	}

	idx, err := wallet.ComputeIndex(v, method, init)
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.IndexMarkdown(idx))
	return subcommands.ExitSuccess
}
