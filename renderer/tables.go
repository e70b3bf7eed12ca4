package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	md "github.com/nao1215/markdown"
)

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// ValuationMarkdown renders the daily valuation, investment and cash flows.
func ValuationMarkdown(v *wallet.Valuation, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if v.Len() == 0 {
		doc.H1("Valuation")
		doc.PlainText("No evaluation date.")
		return doc.String()
	}
	doc.H1(fmt.Sprintf("Valuation from %s to %s", v.Dates[0], v.Dates[v.Len()-1]))
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Value " + currency, "Invested", "Cash Flow"},
		Rows:   [][]string{},
	}
	for i, on := range v.Dates {
		cf := ""
		if c := v.CashFlow(i); c != 0 {
			cf = strconv.FormatFloat(c, 'f', 2, 64)
			if c > 0 {
				cf = "+" + cf
			}
		}
		table.Rows = append(table.Rows, []string{
			on.String(),
			num(v.Values[i]),
			num(v.Investments[i]),
			cf,
		})
	}
	doc.Table(table)
	return doc.String()
}

// IndexMarkdown renders a performance index, one row per day.
func IndexMarkdown(idx *wallet.Index) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Performance (%s)", idx.Method))
	header := []string{"Date", "Value"}
	switch idx.Method {
	case wallet.MethodShareUnits, wallet.MethodSeededUnits:
		header = []string{"Date", "Unit Value", "Units"}
	case wallet.MethodTWRR:
		header = []string{"Date", "Cumulated", "Return"}
	}
	table := md.TableSet{Header: header, Rows: [][]string{}}
	for i, on := range idx.Dates {
		row := []string{on.String(), strconv.FormatFloat(idx.Values[i], 'f', 4, 64)}
		switch idx.Method {
		case wallet.MethodShareUnits, wallet.MethodSeededUnits:
			row = append(row, strconv.FormatFloat(idx.Units[i], 'f', 4, 64))
		case wallet.MethodTWRR:
			row = append(row, wallet.Pct(idx.Returns[i]).SignedString())
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("Change: %s", wallet.Pct(idx.Change()).SignedString()))
	return doc.String()
}

// DatesMarkdown renders the trading days of a calendar, grouped by month.
func DatesMarkdown(days []date.Date) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("%d Trading Days", len(days)))
	table := md.TableSet{Header: []string{"Month", "Days", "First", "Last"}, Rows: [][]string{}}
	for _, i := range lastOfMonths(days) {
		first := i
		for first > 0 && days[first-1].Month() == days[i].Month() && days[first-1].Year() == days[i].Year() {
			first--
		}
		table.Rows = append(table.Rows, []string{
			days[i].Format("2006-01"),
			strconv.Itoa(i - first + 1),
			days[first].String(),
			days[i].String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

func lastOfMonths(days []date.Date) []int { return date.LastOfPeriods(days, date.Monthly) }
