// Package sqlite stores assets, orders and daily closes in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements wallet.PriceProvider, wallet.OrderLedger and wallet.CalendarSource.
type Store struct {
	db *sql.DB
}

var (
	_ wallet.PriceProvider  = (*Store)(nil)
	_ wallet.OrderLedger    = (*Store)(nil)
	_ wallet.CalendarSource = (*Store)(nil)
)

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create schema in %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// bound returns the text bounds of [from, to], zero dates are open.
func bound(from, to date.Date) (string, string) {
	lo, hi := "0000-00-00", "9999-99-99"
	if !from.IsZero() {
		lo = from.String()
	}
	if !to.IsZero() {
		hi = to.String()
	}
	return lo, hi
}

// AddAsset declares an asset, or updates its ticker and currency.
func (s *Store) AddAsset(ctx context.Context, def wallet.Definition) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO Assets (asset_id, ticker, currency) VALUES (?, ?, ?)
		ON CONFLICT(asset_id) DO UPDATE SET ticker = excluded.ticker, currency = excluded.currency`,
		string(def.ID), def.Ticker, def.Currency,
	)
	if err != nil {
		return fmt.Errorf("cannot add asset %q: %w", def.Ticker, err)
	}
	return nil
}

// Definitions returns every asset, sorted by ticker.
func (s *Store) Definitions(ctx context.Context) ([]wallet.Definition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT asset_id, ticker, currency FROM Assets ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []wallet.Definition
	for rows.Next() {
		var def wallet.Definition
		var id string
		if err := rows.Scan(&id, &def.Ticker, &def.Currency); err != nil {
			return nil, err
		}
		def.ID = wallet.ID(id)
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// key returns the row id of an asset.
func (s *Store) key(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, id wallet.ID) (int64, error) {
	var k int64
	err := q.QueryRowContext(ctx, `SELECT id FROM Assets WHERE asset_id = ?`, string(id)).Scan(&k)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("asset %s: %w", id, wallet.ErrNotFound)
	}
	return k, err
}

// AddOrder records an order. Recording the same order twice is a no-op.
func (s *Store) AddOrder(ctx context.Context, id wallet.ID, o wallet.Order) error {
	k, err := s.key(ctx, s.db, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO Orders (asset_id, date, quantity, price) VALUES (?, ?, ?, ?)`,
		k, o.Date.String(), o.Quantity, o.Price,
	)
	if err != nil {
		return fmt.Errorf("cannot add order %s on %s: %w", o, id, err)
	}
	return nil
}

// Orders implements wallet.OrderLedger.
func (s *Store) Orders(ctx context.Context, id wallet.ID) ([]wallet.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.date, o.quantity, o.price FROM Orders o
		JOIN Assets a ON a.id = o.asset_id
		WHERE a.asset_id = ?
		ORDER BY o.date, o.id`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []wallet.Order
	for rows.Next() {
		var on string
		var o wallet.Order
		if err := rows.Scan(&on, &o.Quantity, &o.Price); err != nil {
			return nil, err
		}
		if o.Date, err = date.Parse(on); err != nil {
			return nil, fmt.Errorf("order of %s: %w", id, err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// AddPrices stores the closes of id in a single transaction, replacing existing ones.
func (s *Store) AddPrices(ctx context.Context, id wallet.ID, h *date.History[float64]) (n int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	k, err := s.key(ctx, tx, id)
	if err != nil {
		return 0, err
	}
	for on, close := range h.Values() {
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO Dates (date) VALUES (?)`, on.String()); err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO Prices (asset_id, date_id, close)
			SELECT ?, id, ? FROM Dates WHERE date = ?
			ON CONFLICT(asset_id, date_id) DO UPDATE SET close = excluded.close`,
			k, close, on.String())
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, tx.Commit()
}

// PriceRange implements wallet.PriceProvider.
func (s *Store) PriceRange(ctx context.Context, id wallet.ID, from, to date.Date) (*date.History[float64], error) {
	if _, err := s.key(ctx, s.db, id); err != nil {
		return nil, err
	}
	lo, hi := bound(from, to)
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.date, p.close FROM Prices p
		JOIN Dates d ON d.id = p.date_id
		JOIN Assets a ON a.id = p.asset_id
		WHERE a.asset_id = ? AND d.date BETWEEN ? AND ?
		ORDER BY d.date`, string(id), lo, hi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	h := new(date.History[float64])
	for rows.Next() {
		var on string
		var close float64
		if err := rows.Scan(&on, &close); err != nil {
			return nil, err
		}
		d, err := date.Parse(on)
		if err != nil {
			return nil, fmt.Errorf("price of %s: %w", id, err)
		}
		h.Append(d, close)
	}
	return h, rows.Err()
}

// Price implements wallet.PriceProvider.
func (s *Store) Price(ctx context.Context, id wallet.ID, on date.Date) (float64, error) {
	var close float64
	err := s.db.QueryRowContext(ctx, `
		SELECT p.close FROM Prices p
		JOIN Dates d ON d.id = p.date_id
		JOIN Assets a ON a.id = p.asset_id
		WHERE a.asset_id = ? AND d.date = ?`, string(id), on.String()).Scan(&close)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("price of %s on %s: %w", id, on, wallet.ErrNotFound)
	}
	return close, err
}

// TradingDates implements wallet.CalendarSource: the days with at least one close.
func (s *Store) TradingDates(ctx context.Context, from, to date.Date) ([]date.Date, error) {
	lo, hi := bound(from, to)
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT d.date FROM Dates d
		JOIN Prices p ON p.date_id = d.id
		WHERE d.date BETWEEN ? AND ?
		ORDER BY d.date`, lo, hi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []date.Date
	for rows.Next() {
		var on string
		if err := rows.Scan(&on); err != nil {
			return nil, err
		}
		d, err := date.Parse(on)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
