// Package cmd implements the CLI application to value a wallet and measure its performance.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/wallet"
	"github.com/etnz/wallet/config"
	"github.com/etnz/wallet/date"
	"github.com/etnz/wallet/sqlite"
	"github.com/google/subcommands"
)

var groups = []struct {
	name     string
	commands []subcommands.Command
}{
	{"reports", []subcommands.Command{&valuationCmd{}, &performanceCmd{}, &summaryCmd{}, &datesCmd{}}},
	{"data", []subcommands.Command{&addAssetCmd{}, &addOrderCmd{}, &importPricesCmd{}, &fetchCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}}},
}

// Commands returns every subcommand, in display order.
func Commands() []subcommands.Command {
	var all []subcommands.Command
	for _, g := range groups {
		all = append(all, g.commands...)
	}
	return all
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "wallet.yaml", "Path to the wallet configuration file (YAML or JSON)")
	todayFlag  = flag.String("today", "", "Evaluation date, defaults to the current date (YYYY-MM-DD)")
	Verbose    = flag.Bool("v", false, "Log progress to stderr")
)

// today returns the -today flag or the current date.
func today() (date.Date, error) {
	if *todayFlag == "" {
		return date.Today(), nil
	}
	return date.Parse(*todayFlag)
}

// loadConfig reads the configuration file, a missing file is the default configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromFile(*configFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("missing-config-file name=%q, using defaults", *configFile)
		return config.Default(), nil
	}
	return cfg, err
}

// store is what the commands need from a storage backend.
type store interface {
	wallet.PriceProvider
	wallet.OrderLedger
	wallet.CalendarSource
	Definitions(ctx context.Context) ([]wallet.Definition, error)
	AddAsset(ctx context.Context, def wallet.Definition) error
	AddOrder(ctx context.Context, id wallet.ID, o wallet.Order) error
	AddPrices(ctx context.Context, id wallet.ID, h *date.History[float64]) (int, error)
	Close() error
}

// openStore opens the storage of cfg.
func openStore(cfg *config.Config) (store, error) {
	switch cfg.Storage.Type {
	case config.StorageSQLite:
		return sqlite.Open(cfg.Storage.DB)
	default:
		return openJSONL(cfg.Storage.Market, cfg.Storage.Ledger)
	}
}

// overlay adds the inline assets and orders of cfg to s.
//
// JSONL storage keeps inline orders in memory only, sqlite records them (recording
// twice is a no-op).
func overlay(ctx context.Context, s store, cfg *config.Config) error {
	if err := overlayAssets(ctx, s, cfg); err != nil {
		return err
	}
	addOrder := s.AddOrder
	if js, ok := s.(*jsonlStore); ok {
		addOrder = js.overlayOrder
	}
	l := wallet.NewLedger()
	cfg.Orders(l)
	return copyOrders(ctx, l, addOrder)
}

// orderSource is a ledger that lists its assets.
type orderSource interface {
	wallet.OrderLedger
	IDs() []wallet.ID
}

// copyOrders calls add on every order of l.
func copyOrders(ctx context.Context, l orderSource, add func(context.Context, wallet.ID, wallet.Order) error) error {
	for _, id := range l.IDs() {
		orders, err := l.Orders(ctx, id)
		if err != nil {
			return fmt.Errorf("cannot read orders of %s: %w", id, err)
		}
		for _, o := range orders {
			if err := add(ctx, id, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// overlayAssets declares the inline assets of cfg in s.
func overlayAssets(ctx context.Context, s store, cfg *config.Config) error {
	for _, def := range cfg.Definitions() {
		if err := s.AddAsset(ctx, def); err != nil {
			return err
		}
	}
	return nil
}

// save persists the changes of a JSONL store, sqlite changes are already stored.
func save(s store) error {
	if js, ok := s.(*jsonlStore); ok {
		return js.save()
	}
	return nil
}

// resolve returns the definition of ticker.
func resolve(ctx context.Context, s store, ticker string) (wallet.Definition, error) {
	defs, err := s.Definitions(ctx)
	if err != nil {
		return wallet.Definition{}, err
	}
	for _, def := range defs {
		if def.Ticker == ticker {
			return def, nil
		}
	}
	return wallet.Definition{}, fmt.Errorf("unknown ticker %q, declare it with add-asset: %w", ticker, wallet.ErrNotFound)
}

// evaluation is a loaded wallet, with its trading calendar.
type evaluation struct {
	cfg      *config.Config
	wallet   *wallet.Wallet
	calendar *wallet.Calendar
}

// load reads the configured wallet and its calendar.
// window overrides the configured window on each non zero bound.
func load(ctx context.Context, window date.Range) (*evaluation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	on, err := today()
	if err != nil {
		return nil, fmt.Errorf("invalid -today: %w", err)
	}
	configured, err := cfg.Range()
	if err != nil {
		return nil, err
	}
	if window.From.IsZero() {
		window.From = configured.From
	}
	if window.To.IsZero() {
		window.To = configured.To
	}

	s, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	if err := overlay(ctx, s, cfg); err != nil {
		return nil, err
	}

	defs, err := s.Definitions(ctx)
	if err != nil {
		return nil, err
	}
	w, err := wallet.LoadWallet(ctx, cfg.Currency, defs, window, on, s, s)
	if err != nil {
		return nil, err
	}
	cal, err := wallet.NewCalendarFrom(ctx, s, w.Assets, window, on)
	if err != nil {
		return nil, err
	}
	log.Printf("load-wallet assets=%d window=%s days=%d", len(w.Assets), cal.Window(), cal.Len())
	return &evaluation{cfg: cfg, wallet: w, calendar: cal}, nil
}

// evaluate loads the wallet and computes its valuation.
func evaluate(ctx context.Context, window date.Range) (*evaluation, *wallet.Valuation, error) {
	e, err := load(ctx, window)
	if err != nil {
		return nil, nil, err
	}
	v, err := wallet.ComputeValuation(e.wallet, e.calendar)
	if err != nil {
		return nil, nil, err
	}
	return e, v, nil
}

// parseWindow reads optional -from and -to flags.
func parseWindow(from, to string) (date.Range, error) {
	var r date.Range
	var err error
	if from != "" {
		if r.From, err = date.Parse(from); err != nil {
			return r, fmt.Errorf("invalid -from: %w", err)
		}
	}
	if to != "" {
		if r.To, err = date.Parse(to); err != nil {
			return r, fmt.Errorf("invalid -to: %w", err)
		}
	}
	return r, nil
}

// failure reports err and maps it to an exit status.
func failure(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, wallet.ErrConfiguration) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// printMarkdown renders md for the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	log.Printf("render-markdown err=%q", err)
	fmt.Print(md)
}
