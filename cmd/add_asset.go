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

type addAssetCmd struct {
	ticker   string
	id       string
	currency string
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "declare an asset in the market data" }
func (*addAssetCmd) Usage() string {
	return `wlt add-asset -t <ticker> -id <asset-id> -c <currency>

  Declares an asset, mapping a ticker to a unique asset ID and its currency.
  The ID is an MSSI (ISIN.MIC, e.g. US0378331005.XNAS), a currency pair
  (EURUSD) or a private ID of at least 7 characters.
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the asset (e.g., 'AAPL')")
	f.StringVar(&c.id, "id", "", "Unique asset ID (e.g., 'US0378331005.XNAS')")
	f.StringVar(&c.currency, "c", "", "Currency of the asset prices (e.g., 'USD')")
}

// GenerateAddCommand returns the command line that declares that asset.
func (c *addAssetCmd) GenerateAddCommand(ticker, id, currency string) string {
	return fmt.Sprintf("wlt add-asset -t='%s' -id='%s' -c='%s'", ticker, id, currency)
}

func (c *addAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.id == "" || c.currency == "" {
		fmt.Fprintln(os.Stderr, "Error: -t, -id, and -c flags are all required.")
		return subcommands.ExitUsageError
	}
	def := wallet.Definition{Ticker: c.ticker, ID: wallet.ID(c.id), Currency: c.currency}
	if err := def.ID.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
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

	if err := s.AddAsset(ctx, def); err != nil {
		return failure(err)
	}
	if err := save(s); err != nil {
		return failure(err)
	}
	log.Printf("add-asset ticker=%q id=%q currency=%q", def.Ticker, def.ID, def.Currency)
	fmt.Println(c.GenerateAddCommand(def.Ticker, string(def.ID), def.Currency))
	return subcommands.ExitSuccess
}
