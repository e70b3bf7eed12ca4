package wallet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/wallet/date"
)

// this file contains the import and export of flat CSV files.

// ImportPricesCSV reads a daily price history in the usual download format:
//
//	Date,Open,High,Low,Close,Adj Close,Volume
//
// Only Date and Close are used. A "null" or empty close takes the previous close,
// leading ones are skipped.
func ImportPricesCSV(r io.Reader) (*date.History[float64], error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}
	dateCol, closeCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("csv header %q must contain a Date and a Close column", strings.Join(header, ","))
	}

	h := new(date.History[float64])
	var last float64
	hasLast := false
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if len(rec) <= dateCol || len(rec) <= closeCol {
			return nil, fmt.Errorf("csv line %d: expected at least %d columns, got %d", line, max(dateCol, closeCol)+1, len(rec))
		}
		on, err := date.Parse(strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		txt := strings.TrimSpace(rec[closeCol])
		if txt == "" || strings.EqualFold(txt, "null") {
			if hasLast {
				h.Append(on, last)
			}
			continue
		}
		p, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: invalid close %q: %w", line, txt, err)
		}
		last, hasLast = p, true
		h.Append(on, p)
	}
	return h, nil
}

// ExportValuationCSV writes the valuation as Date,Value,Investment,CashFlow rows.
func ExportValuationCSV(w io.Writer, v *Valuation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Value", "Investment", "CashFlow"}); err != nil {
		return err
	}
	for i, on := range v.Dates {
		err := cw.Write([]string{
			on.String(),
			strconv.FormatFloat(v.Values[i], 'f', -1, 64),
			strconv.FormatFloat(v.Investments[i], 'f', -1, 64),
			strconv.FormatFloat(v.CashFlow(i), 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
