package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aapl = wallet.ID("US0378331005.XNAS")
	goog = wallet.ID("US38259P5089.XNAS")
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wallet.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('Assets','Orders','Dates','Prices')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.Len(t, found, 4)
}

func TestDefinitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.AddAsset(ctx, wallet.Definition{Ticker: "GOOG", ID: goog, Currency: "USD"}))
	require.NoError(t, s.AddAsset(ctx, wallet.Definition{Ticker: "AAPL", ID: aapl, Currency: "USD"}))
	// Redefining updates in place.
	require.NoError(t, s.AddAsset(ctx, wallet.Definition{Ticker: "APPLE", ID: aapl, Currency: "USD"}))

	defs, err := s.Definitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "APPLE", defs[0].Ticker)
	assert.Equal(t, aapl, defs[0].ID)
	assert.Equal(t, "GOOG", defs[1].Ticker)
}

func TestOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.AddAsset(ctx, wallet.Definition{Ticker: "AAPL", ID: aapl, Currency: "USD"}))

	sell := wallet.Order{Date: date.New(2024, 1, 5), Quantity: -1, Price: 110}
	buy := wallet.Order{Date: date.New(2024, 1, 2), Quantity: 2, Price: 100}
	require.NoError(t, s.AddOrder(ctx, aapl, sell))
	require.NoError(t, s.AddOrder(ctx, aapl, buy))
	require.NoError(t, s.AddOrder(ctx, aapl, buy))

	orders, err := s.Orders(ctx, aapl)
	require.NoError(t, err)
	assert.Equal(t, []wallet.Order{buy, sell}, orders)

	err = s.AddOrder(ctx, goog, buy)
	assert.True(t, errors.Is(err, wallet.ErrNotFound))
}

func TestPrices(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.AddAsset(ctx, wallet.Definition{Ticker: "AAPL", ID: aapl, Currency: "USD"}))
	require.NoError(t, s.AddAsset(ctx, wallet.Definition{Ticker: "GOOG", ID: goog, Currency: "USD"}))

	h := new(date.History[float64])
	h.Append(date.New(2024, 1, 2), 100).Append(date.New(2024, 1, 3), 101).Append(date.New(2024, 1, 4), 102)
	n, err := s.AddPrices(ctx, aapl, h)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	g := new(date.History[float64])
	g.Append(date.New(2024, 1, 3), 50).Append(date.New(2024, 1, 5), 51)
	_, err = s.AddPrices(ctx, goog, g)
	require.NoError(t, err)

	// Overwrite.
	_, err = s.AddPrices(ctx, aapl, new(date.History[float64]).Append(date.New(2024, 1, 3), 99))
	require.NoError(t, err)

	p, err := s.Price(ctx, aapl, date.New(2024, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, 99.0, p)

	_, err = s.Price(ctx, aapl, date.New(2024, 1, 5))
	assert.True(t, errors.Is(err, wallet.ErrNotFound))

	r, err := s.PriceRange(ctx, aapl, date.New(2024, 1, 3), date.Date{})
	require.NoError(t, err)
	assert.Equal(t, []date.Date{date.New(2024, 1, 3), date.New(2024, 1, 4)}, r.Days())

	_, err = s.PriceRange(ctx, "FR0000000001", date.Date{}, date.Date{})
	assert.True(t, errors.Is(err, wallet.ErrNotFound))

	days, err := s.TradingDates(ctx, date.Date{}, date.New(2024, 1, 4))
	require.NoError(t, err)
	assert.Equal(t, []date.Date{date.New(2024, 1, 2), date.New(2024, 1, 3), date.New(2024, 1, 4)}, days)
}
