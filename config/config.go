// Package config loads the description of a wallet: currency, window, method and storage.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"gopkg.in/yaml.v3"
)

// Storage types.
const (
	StorageJSONL  = "jsonl"
	StorageSQLite = "sqlite"
)

// Config is the complete wallet configuration.
type Config struct {
	Currency string        `json:"currency" yaml:"currency"`
	Window   WindowConfig  `json:"window" yaml:"window"`
	Method   string        `json:"method" yaml:"method"`
	Init     float64       `json:"init" yaml:"init"`
	Storage  StorageConfig `json:"storage" yaml:"storage"`
	Assets   []AssetConfig `json:"assets,omitempty" yaml:"assets,omitempty"`
}

// WindowConfig bounds the evaluation, empty bounds are open.
type WindowConfig struct {
	From string `json:"from,omitempty" yaml:"from,omitempty"`
	To   string `json:"to,omitempty" yaml:"to,omitempty"`
}

// StorageConfig tells where market data and orders live.
type StorageConfig struct {
	Type   string `json:"type" yaml:"type"` // "jsonl" or "sqlite"
	Market string `json:"market,omitempty" yaml:"market,omitempty"`
	Ledger string `json:"ledger,omitempty" yaml:"ledger,omitempty"`
	DB     string `json:"db,omitempty" yaml:"db,omitempty"`
	Cache  string `json:"cache,omitempty" yaml:"cache,omitempty"`
}

// AssetConfig declares an asset inline, with its orders.
type AssetConfig struct {
	Ticker   string        `json:"ticker" yaml:"ticker"`
	ID       string        `json:"id" yaml:"id"`
	Currency string        `json:"currency" yaml:"currency"`
	Symbol   string        `json:"symbol,omitempty" yaml:"symbol,omitempty"` // yahoo symbol, defaults to the ticker
	Orders   []OrderConfig `json:"orders,omitempty" yaml:"orders,omitempty"`
}

// OrderConfig is an order of an inline asset.
type OrderConfig struct {
	Date     string  `json:"date" yaml:"date"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Price    float64 `json:"price" yaml:"price"`
}

// Default returns a configuration storing JSONL files in the current folder.
func Default() *Config {
	return &Config{
		Currency: "EUR",
		Method:   wallet.MethodShareValue.String(),
		Init:     100,
		Storage: StorageConfig{
			Type:   StorageJSONL,
			Market: "market/definitions.jsonl",
			Ledger: "ledger.jsonl",
		},
	}
}

// LoadFromFile loads a configuration file, YAML or JSON. Relative storage paths
// are resolved against the folder of the file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	cfg.Storage.resolve(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (s *StorageConfig) resolve(dir string) {
	for _, p := range []*string{&s.Market, &s.Ledger, &s.DB, &s.Cache} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// SaveToFile writes the configuration, in YAML if the extension says so, JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.Currency) != 3 || strings.ToUpper(c.Currency) != c.Currency {
		return fmt.Errorf("currency must be a 3 letters uppercase code, got %q", c.Currency)
	}
	if _, err := c.Range(); err != nil {
		return err
	}
	if _, err := c.ParsedMethod(); err != nil {
		return err
	}
	if c.Init <= 0 {
		return errors.New("init must be positive")
	}
	switch c.Storage.Type {
	case StorageJSONL:
		if c.Storage.Market == "" || c.Storage.Ledger == "" {
			return errors.New("storage.market and storage.ledger are required for jsonl storage")
		}
	case StorageSQLite:
		if c.Storage.DB == "" {
			return errors.New("storage.db is required for sqlite storage")
		}
	default:
		return fmt.Errorf("storage.type must be %q or %q, got %q", StorageJSONL, StorageSQLite, c.Storage.Type)
	}

	tickers := make(map[string]bool)
	for _, a := range c.Assets {
		if a.Ticker == "" {
			return errors.New("assets: ticker is required")
		}
		if tickers[a.Ticker] {
			return fmt.Errorf("assets: duplicate ticker %q", a.Ticker)
		}
		tickers[a.Ticker] = true
		if err := wallet.ID(a.ID).Validate(); err != nil {
			return fmt.Errorf("assets: %s: %w", a.Ticker, err)
		}
		for _, o := range a.Orders {
			if _, err := date.Parse(o.Date); err != nil {
				return fmt.Errorf("assets: %s: order date: %w", a.Ticker, err)
			}
		}
	}
	return nil
}

// Range returns the evaluation window.
func (c *Config) Range() (date.Range, error) {
	var r date.Range
	var err error
	if c.Window.From != "" {
		if r.From, err = date.Parse(c.Window.From); err != nil {
			return r, fmt.Errorf("window.from: %w", err)
		}
	}
	if c.Window.To != "" {
		if r.To, err = date.Parse(c.Window.To); err != nil {
			return r, fmt.Errorf("window.to: %w", err)
		}
	}
	if r.IsEmpty() {
		return r, fmt.Errorf("window.from %s is after window.to %s", r.From, r.To)
	}
	return r, nil
}

// ParsedMethod returns the performance method.
func (c *Config) ParsedMethod() (wallet.Method, error) {
	if c.Method == "" {
		return wallet.MethodShareValue, nil
	}
	m, err := wallet.ParseMethod(c.Method)
	if err != nil {
		return m, fmt.Errorf("method: %w", err)
	}
	return m, nil
}

// Definitions returns the inline asset definitions.
func (c *Config) Definitions() []wallet.Definition {
	defs := make([]wallet.Definition, 0, len(c.Assets))
	for _, a := range c.Assets {
		defs = append(defs, wallet.Definition{Ticker: a.Ticker, ID: wallet.ID(a.ID), Currency: a.Currency})
	}
	return defs
}

// Orders adds the inline orders to l. The configuration must be valid.
func (c *Config) Orders(l *wallet.Ledger) {
	for _, a := range c.Assets {
		for _, o := range a.Orders {
			l.Add(wallet.ID(a.ID), wallet.Order{Date: date.MustParse(o.Date), Quantity: o.Quantity, Price: o.Price})
		}
	}
}

// Symbols maps asset ids to their yahoo symbol.
func (c *Config) Symbols() map[wallet.ID]string {
	symbols := make(map[wallet.ID]string)
	for _, a := range c.Assets {
		s := a.Symbol
		if s == "" {
			s = a.Ticker
		}
		symbols[wallet.ID(a.ID)] = s
	}
	return symbols
}
