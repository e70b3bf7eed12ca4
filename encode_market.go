package wallet

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/wallet/date"
)

const attrOn = "on"
const marketDataFilesGlob = "[0-9][0-9][0-9][0-9].jsonl"

// Market data lives in a folder, human readable and git friendly:
//
//   - a definition file, one asset per line: {"ticker":"AAA","id":"...","currency":"EUR"}
//   - one file per year, named after it (2024.jsonl), one line per day holding the
//     closes of every quoted ticker: {"on":"2024-01-02","AAA":12.3,"BBB":45}
//
// Encode rewrites every yearly file and deletes the ones that are no longer needed.

// decodeDefinitions parses the definition file. filename is for error message only.
func (m *MarketData) decodeDefinitions(filename string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var def Definition
		if err := json.Unmarshal(line, &def); err != nil {
			return fmt.Errorf("format error in %q on line %q: %w", filename, string(line), err)
		}
		if m.Has(def.Ticker) {
			log.Printf("format error in %q: ticker %q is already defined", filename, def.Ticker)
			continue
		}
		if err := def.ID.Validate(); err != nil {
			return fmt.Errorf("format error in %q: ticker %q: %w", filename, def.Ticker, err)
		}
		m.Add(def)
	}
	return scanner.Err()
}

// fileLine structures a line from a collection of files as the persistence layer represent them.
type fileLine struct {
	filename string
	i        int
	txt      string
}

// loadLines read all lines from a set of files and return them in list of structured lines.
func loadLines(filenames ...string) (list []fileLine, err error) {
	for _, filename := range filenames {
		r, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
		}
		scanner := bufio.NewScanner(r)
		i := 0
		for scanner.Scan() {
			i++
			list = append(list, fileLine{filename, i, scanner.Text()})
		}
		r.Close()
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", filename, err)
		}
	}
	return list, nil
}

// decodeDailyPrices decodes a single line of a yearly file.
func decodeDailyPrices(m *MarketData, l fileLine) error {
	if strings.TrimSpace(l.txt) == "" {
		return nil
	}

	jobj := make(map[string]any)
	if err := json.Unmarshal([]byte(l.txt), &jobj); err != nil {
		return fmt.Errorf("parse error %s:%v: not a correct json: %w", l.filename, l.i, err)
	}

	jstring, ok := jobj[attrOn].(string)
	if !ok {
		return fmt.Errorf("parse error %s:%v: missing the property %q with a date", l.filename, l.i, attrOn)
	}
	on, err := date.Parse(jstring)
	if err != nil {
		return fmt.Errorf("parse error %s:%v: property %q must be a valid date: %w", l.filename, l.i, attrOn, err)
	}

	// Every other attribute is a (ticker, price) pair.
	for ticker, price := range jobj {
		if ticker == attrOn {
			continue
		}
		p, ok := price.(float64)
		if !ok {
			return fmt.Errorf("parse error %s:%v: property %q must be of type 'number'", l.filename, l.i, ticker)
		}
		id, exists := m.tickers[ticker]
		if !exists {
			return fmt.Errorf("parse error %s:%v: property %q must be an existing ticker", l.filename, l.i, ticker)
		}
		if err := m.Append(id, on, p); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMarketData reads the definition file and the yearly files next to it.
// A missing definition file is an empty market.
func DecodeMarketData(definitionFile string) (*MarketData, error) {
	folder := filepath.Dir(definitionFile)
	m := NewMarketData()

	f, err := os.Open(definitionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("load error: cannot open market definition file %q: %w", definitionFile, err)
	}
	defer f.Close()

	if err := m.decodeDefinitions(definitionFile, f); err != nil {
		return nil, fmt.Errorf("load error: cannot read market definition file: %w", err)
	}

	filenames, err := filepath.Glob(filepath.Join(folder, marketDataFilesGlob))
	if err != nil {
		return nil, fmt.Errorf("load error: cannot scan folder %q for market data files: %w", folder, err)
	}
	lines, err := loadLines(filenames...)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := decodeDailyPrices(m, line); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// encodeDefinitions writes one definition per line, sorted by ticker.
func encodeDefinitions(w io.Writer, m *MarketData) error {
	for _, def := range m.Definitions() {
		data, err := json.Marshal(def)
		if err != nil {
			return fmt.Errorf("persist error: cannot marshal definition %q: %w", def.Ticker, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("persist error: cannot write to file: %w", err)
		}
	}
	return nil
}

// encodeDailyPrices writes a single line of a yearly file.
// Returns bare io errors.
func encodeDailyPrices(w io.Writer, day date.Date, tickers []string, values []float64) error {
	var jw jsonObjectWriter
	jw.Append(attrOn, day.String())
	for i, ticker := range tickers {
		// json does not support NaN.
		if math.IsNaN(values[i]) {
			continue
		}
		jw.Append(ticker, values[i])
	}
	b, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// EncodeMarketData writes the definition file and one JSONL file per year next to it.
func EncodeMarketData(definitionFile string, m *MarketData) error {
	defs := m.Definitions()
	histories := make([]*date.History[float64], 0, len(defs))
	for _, def := range defs {
		histories = append(histories, m.prices[def.ID])
	}

	folder := filepath.Dir(definitionFile)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("persist error: cannot create folder %q: %w", folder, err)
	}
	f, err := os.Create(definitionFile)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", definitionFile, err)
	}
	defer f.Close()
	log.Printf("create-market-definition-file name=%q", definitionFile)
	if err := encodeDefinitions(f, m); err != nil {
		return err
	}

	var current *os.File
	var currentFilename string
	created := make(map[string]struct{})
	closeCurrent := func() error {
		if current == nil {
			return nil
		}
		return current.Close()
	}
	for day := range date.Iterate(histories...) {
		filename := filepath.Join(folder, fmt.Sprintf("%d.jsonl", day.Year()))
		if filename != currentFilename {
			if err := closeCurrent(); err != nil {
				return fmt.Errorf("persist error: cannot close file %q: %w", currentFilename, err)
			}
			currentFilename = filename
			current, err = os.Create(filename)
			if err != nil {
				return fmt.Errorf("persist error: cannot create file %q: %w", filename, err)
			}
			created[filename] = struct{}{}
			log.Printf("create-market-data-file name=%q", filename)
		}

		var tickers []string
		var values []float64
		for _, def := range defs {
			if val, ok := m.read(def.ID, day); ok {
				tickers = append(tickers, def.Ticker)
				values = append(values, val)
			}
		}
		if err := encodeDailyPrices(current, day, tickers, values); err != nil {
			closeCurrent()
			return fmt.Errorf("persist error: write error on file %q: %w", currentFilename, err)
		}
	}
	if err := closeCurrent(); err != nil {
		return fmt.Errorf("persist error: cannot close file %q: %w", currentFilename, err)
	}

	// Delete extraneous files.
	filenames, err := filepath.Glob(filepath.Join(folder, marketDataFilesGlob))
	if err != nil {
		return fmt.Errorf("persist error: cannot scan folder %q for market data files to be deleted: %w", folder, err)
	}
	for _, filename := range filenames {
		if _, ok := created[filename]; ok {
			continue
		}
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("persist error: cannot delete file %q: %w", filename, err)
		}
		log.Printf("delete-market-data-file name=%q", filename)
	}
	return nil
}
