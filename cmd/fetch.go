package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"github.com/etnz/wallet/eodhd"
	"github.com/etnz/wallet/yahoo"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	ticker   string
	from     string
	provider string
	apiKey   string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch daily closes from a price provider (yahoo or eodhd)" }
func (*fetchCmd) Usage() string {
	return `wlt fetch [-t <ticker>] [-from <date>] [-provider yahoo|eodhd]

  Fetches daily closes from an external provider and stores them.

  Without -t, every asset with orders is fetched, from its first order until
  the day after it was sold out, or today. Currency pairs are fetched from
  the first order of the wallet.

Supported providers:
  - yahoo: Yahoo Finance. The symbol is the ticker, unless the configuration
           declares another one.
  - eodhd: EOD Historical Data. Requires an API key set via the
           -eodhd-api-key flag or the EODHD_API_KEY environment variable.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the asset, all held assets by default")
	f.StringVar(&c.from, "from", "", "First day to fetch (YYYY-MM-DD), defaults to the first order")
	f.StringVar(&c.provider, "provider", "yahoo", "Market data provider: yahoo or eodhd")
	f.StringVar(&c.apiKey, "eodhd-api-key", os.Getenv("EODHD_API_KEY"), "EODHD API key")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var from date.Date
	if c.from != "" {
		var err error
		if from, err = date.Parse(c.from); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -from: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	on, err := today()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -today: %v\n", err)
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
	if err := overlay(ctx, s, cfg); err != nil {
		return failure(err)
	}

	all, err := s.Definitions(ctx)
	if err != nil {
		return failure(err)
	}
	defs := all
	if c.ticker != "" {
		def, err := resolve(ctx, s, c.ticker)
		if err != nil {
			return failure(err)
		}
		defs = []wallet.Definition{def}
	}

	cache := cfg.Storage.Cache
	if cache == "" {
		cache = filepath.Join(os.TempDir(), "wallet-cache")
	}
	var provider wallet.PriceProvider
	symbols := cfg.Symbols()
	switch c.provider {
	case "yahoo":
		for _, def := range defs {
			if _, ok := symbols[def.ID]; !ok {
				symbols[def.ID] = yahooSymbol(def)
			}
		}
		provider = &yahoo.Provider{Client: yahoo.New(cache), Symbols: symbols}
	case "eodhd":
		if c.apiKey == "" {
			fmt.Fprintln(os.Stderr, "Error: eodhd requires an API key, use -eodhd-api-key or EODHD_API_KEY.")
			return subcommands.ExitUsageError
		}
		provider = &eodhd.Provider{Client: eodhd.New(c.apiKey, cache)}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown provider %q\n", c.provider)
		return subcommands.ExitUsageError
	}

	// Currency pairs have no orders, they are needed from the first order of the wallet.
	var assets []*wallet.Asset
	byID := make(map[wallet.ID]*wallet.Asset)
	for _, def := range all {
		orders, err := s.Orders(ctx, def.ID)
		if err != nil {
			return failure(err)
		}
		a := wallet.NewAsset(def.ID, def.Ticker, def.Currency, orders...)
		assets = append(assets, a)
		byID[def.ID] = a
	}
	first, held := (&wallet.Wallet{Assets: assets}).FirstOrder()

	for _, def := range defs {
		a := byID[def.ID]
		start, ok := a.FirstOrder()
		if def.ID.Kind() == wallet.KindCurrencyPair {
			start, ok = first, held
		}
		if !from.IsZero() {
			start, ok = from, true
		}
		if !ok {
			log.Printf("skip-fetch ticker=%q reason=%q", def.Ticker, "no orders")
			continue
		}

		h, err := provider.PriceRange(ctx, def.ID, start, a.LastDetention(on))
		if err != nil {
			return failure(fmt.Errorf("cannot fetch %q: %w", def.Ticker, err))
		}
		n, err := s.AddPrices(ctx, def.ID, h)
		if err != nil {
			return failure(err)
		}
		log.Printf("fetch provider=%q ticker=%q from=%s rows=%d", c.provider, def.Ticker, start, n)
	}
	if err := save(s); err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}

// yahooSymbol is the default Yahoo symbol of an asset: its ticker, or BASEQUOTE=X for
// currency pairs.
func yahooSymbol(def wallet.Definition) string {
	if def.ID.Kind() == wallet.KindCurrencyPair {
		return string(def.ID) + "=X"
	}
	return def.Ticker
}
