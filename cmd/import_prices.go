package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/etnz/wallet"
	"github.com/google/subcommands"
)

type importPricesCmd struct {
	ticker string
	file   string
}

func (*importPricesCmd) Name() string     { return "import-prices" }
func (*importPricesCmd) Synopsis() string { return "import daily closes from a CSV file" }
func (*importPricesCmd) Usage() string {
	return `wlt import-prices -t <ticker> -f <file.csv>

  Imports the daily closes of an asset from a CSV price history with a header
  line holding at least the Date and Close columns:

    Date,Open,High,Low,Close,Adj Close,Volume

  Missing closes ("null" or empty) take the value of the previous row.
  Existing closes on the same days are replaced.
`
}

func (c *importPricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the asset")
	f.StringVar(&c.file, "f", "", "CSV file to import, '-' for stdin")
}

func (c *importPricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -t and -f flags are required.")
		return subcommands.ExitUsageError
	}

	in := os.Stdin
	if c.file != "-" {
		var err error
		if in, err = os.Open(c.file); err != nil {
			return failure(err)
		}
		defer in.Close()
	}
	h, err := wallet.ImportPricesCSV(in)
	if err != nil {
		return failure(fmt.Errorf("cannot import %q: %w", c.file, err))
	}

	cfg, err := loadConfig()
	if err != nil {
		return failure(err)
	}
	s, err := openStore(cfg)
	if err != nil {
		return failure(err)
	}
	defer s.Close()
	if err := overlayAssets(ctx, s, cfg); err != nil {
		return failure(err)
	}

	def, err := resolve(ctx, s, c.ticker)
	if err != nil {
		return failure(err)
	}
	n, err := s.AddPrices(ctx, def.ID, h)
	if err != nil {
		return failure(err)
	}
	if err := save(s); err != nil {
		return failure(err)
	}
	log.Printf("import-prices ticker=%q file=%q rows=%d", def.Ticker, c.file, n)
	fmt.Printf("Imported %d closes of %s\n", n, def.Ticker)
	return subcommands.ExitSuccess
}
