package wallet

import (
	"testing"

	"github.com/etnz/wallet/date"
)

func TestNewSummary(t *testing.T) {
	a := quoted(AAPL, "A", "2024-01-01", []float64{100, 110, 110, 121}, buy("2024-01-01", 10, 100), buy("2024-01-03", 10, 110))
	w := &Wallet{Currency: "EUR", Assets: []*Asset{a}}
	v := valuate(t, a)

	s, err := NewSummary(w, v)
	if err != nil {
		t.Fatalf("NewSummary() unexpected error: %v", err)
	}
	if !s.EndValue.Equal(EUR(2420)) {
		t.Errorf("EndValue = %v, want %v", s.EndValue, EUR(2420))
	}
	if !s.Invested.Equal(EUR(2100)) {
		t.Errorf("Invested = %v, want %v", s.Invested, EUR(2100))
	}
	if !s.Gain.Equal(EUR(320)) {
		t.Errorf("Gain = %v, want %v", s.Gain, EUR(320))
	}
	if !s.ShareChange.Equal(21) {
		t.Errorf("ShareChange = %v, want 21%%", s.ShareChange)
	}
	if !s.HasTWR || !s.TWR.Equal(21) {
		t.Errorf("TWR = %v (%v), want 21%%", s.TWR, s.HasTWR)
	}
	if len(s.Assets) != 1 || s.Assets[0].Quantity != 20 {
		t.Errorf("Assets = %v, want 20 A", s.Assets)
	}
}

func TestNewSummary_AnnualTWR(t *testing.T) {
	v := &Valuation{
		Dates:       []date.Date{d("2025-01-01"), d("2027-01-01")},
		Values:      []float64{1000, 1210},
		Investments: []float64{1000, 1000},
	}
	s, err := NewSummary(&Wallet{Currency: "EUR"}, v)
	if err != nil {
		t.Fatalf("NewSummary() unexpected error: %v", err)
	}
	if !s.TWR.Equal(21) {
		t.Errorf("TWR = %v, want 21%%", s.TWR)
	}
	if !s.AnnualTWR.Equal(10) {
		t.Errorf("AnnualTWR = %v, want 10%%", s.AnnualTWR)
	}
}

func TestNewSummary_NoTWR(t *testing.T) {
	a := quoted(AAPL, "A", "2024-01-01", []float64{100, 110, 120}, buy("2024-01-01", 10, 100), sell("2024-01-02", 10, 110))
	w := &Wallet{Currency: "EUR", Assets: []*Asset{a}}
	s, err := NewSummary(w, valuate(t, a))
	if err != nil {
		t.Fatalf("NewSummary() unexpected error: %v", err)
	}
	if s.HasTWR {
		t.Errorf("HasTWR = true, want false after a full liquidation")
	}
	if len(s.Assets) != 0 {
		t.Errorf("Assets = %v, want none", s.Assets)
	}
}
