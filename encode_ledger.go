package wallet

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/etnz/wallet/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// orderLine is an order as persisted in the ledger, one per line.
//
// Quantities and prices are decimals so that what was typed is what is stored.
type orderLine struct {
	Date     date.Date       `json:"date"`
	ID       ID              `json:"id"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// DecodeLedger decodes orders from a JSONL stream.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	l := NewLedger()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ol orderLine
		if err := json.Unmarshal(line, &ol); err != nil {
			return nil, fmt.Errorf("ledger line %d: cannot decode %q: %w", n, string(line), err)
		}
		if ol.Date.IsZero() {
			return nil, fmt.Errorf("ledger line %d: missing date", n)
		}
		if err := ol.ID.Validate(); err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", n, err)
		}
		l.Add(ol.ID, Order{
			Date:     ol.Date,
			Quantity: ol.Quantity.InexactFloat64(),
			Price:    ol.Price.InexactFloat64(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read ledger: %w", err)
	}
	return l, nil
}

// EncodeLedger writes every order, grouped by id and sorted by date.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, id := range l.IDs() {
		for _, o := range l.orders[id] {
			var jw jsonObjectWriter
			jw.Append("date", o.Date)
			jw.Append("id", id)
			jw.Append("quantity", decimal.NewFromFloat(o.Quantity))
			jw.Append("price", decimal.NewFromFloat(o.Price))
			b, err := jw.MarshalJSON()
			if err != nil {
				return fmt.Errorf("cannot encode order %s of %s: %w", o, id, err)
			}
			if _, err := w.Write(append(b, '\n')); err != nil {
				return fmt.Errorf("cannot write ledger: %w", err)
			}
		}
	}
	return nil
}

// LoadLedger reads a ledger file. A missing file is an empty ledger.
func LoadLedger(filename string) (*Ledger, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLedger(), nil
		}
		return nil, fmt.Errorf("cannot open ledger %q: %w", filename, err)
	}
	defer f.Close()
	return DecodeLedger(f)
}

// SaveLedger writes a ledger file.
func SaveLedger(filename string, l *Ledger) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create ledger %q: %w", filename, err)
	}
	if err := EncodeLedger(f, l); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
