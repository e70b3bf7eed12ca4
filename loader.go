package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/etnz/wallet/date"
)

// LoadWallet builds a wallet from definitions, reading orders from ledger and closes
// from prices.
//
// Closes are loaded from the first order date to the last detention date: the day
// after the position is closed, or today.
//
// Currency pairs in defs are not held, they convert the assets quoted in another
// currency than the wallet one.
func LoadWallet(ctx context.Context, currency string, defs []Definition, window date.Range, today date.Date, prices PriceProvider, ledger OrderLedger) (*Wallet, error) {
	w := &Wallet{Currency: currency, Window: window}
	pairs := make(map[ID]Definition)
	for _, def := range defs {
		if def.ID.Kind() == KindCurrencyPair {
			pairs[def.ID] = def
		}
	}
	for _, def := range defs {
		if def.ID.Kind() == KindCurrencyPair {
			continue
		}
		orders, err := ledger.Orders(ctx, def.ID)
		if err != nil {
			return nil, fmt.Errorf("cannot load orders of %q: %w", def.Ticker, err)
		}
		a := NewAsset(def.ID, def.Ticker, def.Currency, orders...)
		first, ok := a.FirstOrder()
		if !ok {
			log.Printf("skip-asset ticker=%q reason=%q", def.Ticker, "no orders")
			continue
		}
		h, err := prices.PriceRange(ctx, def.ID, first, a.LastDetention(today))
		if errors.Is(err, ErrNotFound) {
			log.Printf("missing-prices ticker=%q from=%s", def.Ticker, first)
			h = new(date.History[float64])
		} else if err != nil {
			return nil, fmt.Errorf("cannot load prices of %q: %w", def.Ticker, err)
		}
		a.Prices = *h
		if a.Currency != "" && a.Currency != currency {
			if a, err = convert(ctx, a, currency, pairs, prices, today); err != nil {
				return nil, err
			}
		}
		w.Assets = append(w.Assets, a)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// rateLookback is how many days before the first order the rates are loaded, so that
// an order on a day without rate finds the previous one.
const rateLookback = 10

// convert expresses a in currency using whichever pair of pairs links both currencies.
func convert(ctx context.Context, a *Asset, currency string, pairs map[ID]Definition, prices PriceProvider, today date.Date) (*Asset, error) {
	var pair Definition
	found := false
	for _, id := range []ID{ID(currency + a.Currency), ID(a.Currency + currency)} {
		if pair, found = pairs[id]; found {
			break
		}
	}
	if !found {
		return nil, errorf(ErrConfiguration, date.Date{}, a.Name(), "no currency pair to convert %s into %s", a.Currency, currency)
	}
	first, _ := a.FirstOrder()
	h, err := prices.PriceRange(ctx, pair.ID, first.Add(-rateLookback), a.LastDetention(today))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("cannot load rates of %q: %w", pair.Ticker, err)
	}
	if h == nil {
		h = new(date.History[float64])
	}
	log.Printf("convert-asset ticker=%q from=%s to=%s pair=%q", a.Name(), a.Currency, currency, pair.Ticker)
	return ConvertAsset(a, &Asset{ID: pair.ID, Ticker: pair.Ticker, Prices: *h}, currency)
}
