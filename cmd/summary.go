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

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	from, to string
	html     bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a wallet performance summary" }
func (*summaryCmd) Usage() string {
	return `wlt summary [-from <date>] [-to <date>] [-html]

  Displays the value of the wallet at both ends of the window, the net
  investment, the gain, the time-weighted return and the final positions.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First evaluation date (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Last evaluation date (YYYY-MM-DD)")
	f.BoolVar(&c.html, "html", false, "Write an HTML fragment to stdout")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	window, err := parseWindow(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	e, v, err := evaluate(ctx, window)
	if err != nil {
		return failure(err)
	}
	s, err := wallet.NewSummary(e.wallet, v)
	if err != nil {
		return failure(err)
	}

	md := renderer.RenderSummary(s)
	if !c.html {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	html, err := renderer.HTML(md)
	if err != nil {
		return failure(err)
	}
	fmt.Print(html)
	return subcommands.ExitSuccess
}
