package wallet

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecodeMarketData(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "market.jsonl")

	m := NewMarketData()
	m.Add(Definition{Ticker: "GOOG", ID: GOOG, Currency: "USD"})
	m.Add(Definition{Ticker: "AAPL", ID: AAPL, Currency: "USD"})
	m.Append(AAPL, d("2023-12-29"), 190.5)
	m.Append(AAPL, d("2024-01-02"), 185.25)
	m.Append(GOOG, d("2024-01-02"), 139)

	// a stale yearly file must be removed.
	stale := filepath.Join(dir, "2019.jsonl")
	if err := os.WriteFile(stale, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := EncodeMarketData(def, m); err != nil {
		t.Fatalf("EncodeMarketData() unexpected error: %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	sort.Strings(files)
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if diff := cmp.Diff([]string{"2023.jsonl", "2024.jsonl", "market.jsonl"}, names); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	content, err := os.ReadFile(filepath.Join(dir, "2024.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"on":"2024-01-02","AAPL":185.25,"GOOG":139}` + "\n"; string(content) != want {
		t.Errorf("2024.jsonl = %q, want %q", content, want)
	}
	content, _ = os.ReadFile(def)
	if !strings.HasPrefix(string(content), `{"ticker":"AAPL","id":"US0378331005.XNAS","currency":"USD"}`) {
		t.Errorf("definition file does not start with AAPL:\n%s", content)
	}

	got, err := DecodeMarketData(def)
	if err != nil {
		t.Fatalf("DecodeMarketData() unexpected error: %v", err)
	}
	if diff := cmp.Diff(m.Definitions(), got.Definitions()); diff != "" {
		t.Errorf("definitions mismatch (-want +got):\n%s", diff)
	}
	for _, id := range []ID{AAPL, GOOG} {
		if diff := cmp.Diff(m.prices[id].Days(), got.prices[id].Days()); diff != "" {
			t.Errorf("%s days mismatch (-want +got):\n%s", id, diff)
		}
	}
	if p, ok := got.read(AAPL, d("2023-12-29")); !ok || p != 190.5 {
		t.Errorf("read(AAPL, 2023-12-29) = %v, %v", p, ok)
	}
}

func TestDecodeMarketData_Missing(t *testing.T) {
	m, err := DecodeMarketData(filepath.Join(t.TempDir(), "market.jsonl"))
	if err != nil {
		t.Fatalf("DecodeMarketData() unexpected error: %v", err)
	}
	if len(m.Definitions()) != 0 {
		t.Errorf("DecodeMarketData() of a missing file is not empty")
	}
}

func TestDecodeMarketData_UnknownTicker(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "market.jsonl")
	os.WriteFile(def, []byte(`{"ticker":"AAPL","id":"US0378331005.XNAS","currency":"USD"}`+"\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "2024.jsonl"), []byte(`{"on":"2024-01-02","MSFT":1}`+"\n"), 0o644)
	if _, err := DecodeMarketData(def); err == nil {
		t.Errorf("DecodeMarketData() with an unknown ticker should fail")
	}
}
