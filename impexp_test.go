package wallet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImportPricesCSV(t *testing.T) {
	csv := `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-01,null,null,null,null,null,null
2024-01-02,10,11,9,10.5,10.5,1000
2024-01-03,null,null,null,null,null,null
2024-01-04,11,12,10,,11,900
2024-01-05,11,12,10,11.25,11,900
`
	h, err := ImportPricesCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportPricesCSV() unexpected error: %v", err)
	}
	if diff := cmp.Diff(days("2024-01-02", 4), h.Days()); diff != "" {
		t.Errorf("days mismatch (-want +got):\n%s", diff)
	}
	var got []float64
	for _, p := range h.Values() {
		got = append(got, p)
	}
	if diff := cmp.Diff([]float64{10.5, 10.5, 10.5, 11.25}, got); diff != "" {
		t.Errorf("closes mismatch (-want +got):\n%s", diff)
	}
}

func TestImportPricesCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"no close column": "Date,Open\n2024-01-01,1\n",
		"bad date":        "Date,Close\n01/02/2024,1\n",
		"bad close":       "Date,Close\n2024-01-02,abc\n",
		"empty":           "",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ImportPricesCSV(strings.NewReader(in)); err == nil {
				t.Errorf("ImportPricesCSV(%q) should fail", in)
			}
		})
	}
}

func TestExportValuationCSV(t *testing.T) {
	v := series("2024-01-01", []float64{1000, 1020.5}, []float64{1000, 1500})
	var buf bytes.Buffer
	if err := ExportValuationCSV(&buf, v); err != nil {
		t.Fatalf("ExportValuationCSV() unexpected error: %v", err)
	}
	want := "Date,Value,Investment,CashFlow\n2024-01-01,1000,1000,1000\n2024-01-02,1020.5,1500,500\n"
	if got := buf.String(); got != want {
		t.Errorf("ExportValuationCSV() =\n%s\nwant\n%s", got, want)
	}
}
