package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"github.com/google/subcommands"
)

type addOrderCmd struct {
	ticker   string
	date     string
	quantity float64
	price    float64
}

func (*addOrderCmd) Name() string     { return "add-order" }
func (*addOrderCmd) Synopsis() string { return "record a buy or a sell order" }
func (*addOrderCmd) Usage() string {
	return `wlt add-order -t <ticker> [-d <date>] -q <quantity> -p <price>

  Records an order on a declared asset. A positive quantity is a buy, a
  negative one is a sell. The price is per share, in the asset currency.
  An order placed on a non trading day settles on the next trading day.
`
}

func (c *addOrderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the asset")
	f.StringVar(&c.date, "d", date.Today().String(), "Order date (YYYY-MM-DD)")
	f.Float64Var(&c.quantity, "q", 0, "Quantity, negative to sell")
	f.Float64Var(&c.price, "p", 0, "Price per share")
}

func (c *addOrderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity == 0 || c.price <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -t, a non zero -q and a positive -p are required.")
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	o := wallet.Order{Date: on, Quantity: c.quantity, Price: c.price}

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

	// The share count must stay positive once the order is in.
	orders, err := s.Orders(ctx, def.ID)
	if err != nil {
		return failure(err)
	}
	if err := wallet.NewAsset(def.ID, def.Ticker, def.Currency, append(orders, o)...).Validate(); err != nil {
		return failure(err)
	}

	if err := s.AddOrder(ctx, def.ID, o); err != nil {
		return failure(err)
	}
	if err := save(s); err != nil {
		return failure(err)
	}
	log.Printf("add-order ticker=%q order=%q", def.Ticker, o)
	fmt.Printf("Successfully recorded %s %s\n", def.Ticker, o)
	return subcommands.ExitSuccess
}
