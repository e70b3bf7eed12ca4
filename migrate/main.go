// Command migrate moves wallet data between the JSONL files and a SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"github.com/etnz/wallet/sqlite"
	"github.com/google/subcommands"
)

func main() {
	// The migrate tool needs its own set of flags, independent of the main wlt tool.
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	commander := subcommands.NewCommander(flag.CommandLine, "migrate")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&toSQLiteCmd{}, "")
	commander.Register(&toJSONLCmd{}, "")
	commander.Register(&checkCmd{}, "")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// paths are the flags shared by every command.
type paths struct {
	market, ledger, db string
}

func (p *paths) set(f *flag.FlagSet) {
	f.StringVar(&p.market, "market", "market/definitions.jsonl", "The market definition file, yearly files are next to it.")
	f.StringVar(&p.ledger, "ledger", "ledger.jsonl", "The ledger file.")
	f.StringVar(&p.db, "db", "wallet.db", "The SQLite database.")
}

// --- toSQLiteCmd ---

type toSQLiteCmd struct{ paths }

func (*toSQLiteCmd) Name() string     { return "sqlite" }
func (*toSQLiteCmd) Synopsis() string { return "copies the JSONL market data and ledger into a SQLite database" }
func (*toSQLiteCmd) Usage() string {
	return `migrate sqlite [-market <definitions.jsonl>] [-ledger <ledger.jsonl>] [-db <wallet.db>]

Copies assets, closes and orders into the database. Existing rows are kept,
closes on the same days are replaced.
`
}
func (c *toSQLiteCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *toSQLiteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := wallet.DecodeMarketData(c.market)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding market data: %v\n", err)
		return subcommands.ExitFailure
	}
	l, err := wallet.LoadLedger(c.ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := sqlite.Open(c.db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := copyData(ctx, m, l, db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully migrated %d assets to %s\n", len(m.Definitions()), c.db)
	return subcommands.ExitSuccess
}

// --- toJSONLCmd ---

type toJSONLCmd struct{ paths }

func (*toJSONLCmd) Name() string     { return "jsonl" }
func (*toJSONLCmd) Synopsis() string { return "exports a SQLite database into JSONL market data and ledger" }
func (*toJSONLCmd) Usage() string {
	return `migrate jsonl [-db <wallet.db>] [-market <definitions.jsonl>] [-ledger <ledger.jsonl>]

Writes the market data folder and the ledger file. Existing files are replaced.
`
}
func (c *toJSONLCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *toJSONLCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := sqlite.Open(c.db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	m, l, err := export(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := wallet.EncodeMarketData(c.market, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding market data: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := wallet.SaveLedger(c.ledger, l); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully exported %d assets to %s\n", len(m.Definitions()), c.market)
	return subcommands.ExitSuccess
}

// --- checkCmd ---

type checkCmd struct{ paths }

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "checks that the JSONL ledger is consistent with the market data" }
func (*checkCmd) Usage() string {
	return `migrate check [-market <definitions.jsonl>] [-ledger <ledger.jsonl>]

Reports orders on undeclared assets, share counts going negative and assets
without any close before their first order.
`
}
func (c *checkCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := wallet.DecodeMarketData(c.market)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding market data: %v\n", err)
		return subcommands.ExitFailure
	}
	l, err := wallet.LoadLedger(c.ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	problems := check(ctx, m, l)
	for _, p := range problems {
		fmt.Println(p)
	}
	if len(problems) > 0 {
		return subcommands.ExitFailure
	}
	fmt.Println("ok")
	return subcommands.ExitSuccess
}

// copyData writes every definition, close and order into db.
func copyData(ctx context.Context, m *wallet.MarketData, l *wallet.Ledger, db *sqlite.Store) error {
	for _, def := range m.Definitions() {
		if err := db.AddAsset(ctx, def); err != nil {
			return err
		}
		h, err := m.PriceRange(ctx, def.ID, date.Date{}, date.Date{})
		if err != nil {
			return err
		}
		if _, err := db.AddPrices(ctx, def.ID, h); err != nil {
			return fmt.Errorf("cannot copy closes of %q: %w", def.Ticker, err)
		}
	}
	for _, id := range l.IDs() {
		orders, err := l.Orders(ctx, id)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if err := db.AddOrder(ctx, id, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// export reads every definition, close and order of db.
func export(ctx context.Context, db *sqlite.Store) (*wallet.MarketData, *wallet.Ledger, error) {
	defs, err := db.Definitions(ctx)
	if err != nil {
		return nil, nil, err
	}
	m, l := wallet.NewMarketData(), wallet.NewLedger()
	for _, def := range defs {
		m.Add(def)
		h, err := db.PriceRange(ctx, def.ID, date.Date{}, date.Date{})
		if err != nil {
			return nil, nil, err
		}
		if _, err := m.Merge(def.ID, h); err != nil {
			return nil, nil, err
		}
		orders, err := db.Orders(ctx, def.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, o := range orders {
			l.Add(def.ID, o)
		}
	}
	return m, l, nil
}

// check returns a line for every problem found.
func check(ctx context.Context, m *wallet.MarketData, l *wallet.Ledger) []string {
	var problems []string
	for _, id := range l.IDs() {
		def, ok := m.Definition(id)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: orders on an undeclared asset", id))
			continue
		}
		orders, err := l.Orders(ctx, id)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", def.Ticker, err))
			continue
		}
		a := wallet.NewAsset(id, def.Ticker, def.Currency, orders...)
		if err := a.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", def.Ticker, err))
		}
		first, _ := a.FirstOrder()
		h, _ := m.PriceRange(ctx, id, date.Date{}, first)
		if h == nil || h.Len() == 0 {
			problems = append(problems, fmt.Sprintf("%s: no close on or before the first order %s", def.Ticker, first))
		}
	}
	return problems
}
