package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"github.com/google/go-cmp/cmp"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_token") != "key" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/exchanges-list/":
			fmt.Fprint(w, `[{"Name":"Frankfurt Exchange","Code":"F","OperatingMIC":"XFRA"},
				{"Name":"USA Stocks","Code":"US","OperatingMIC":"XNAS, XNYS"}]`)
		case "/exchange-symbol-list/US":
			if r.URL.Query().Get("delisted") == "1" {
				fmt.Fprint(w, `[{"Code":"OLD","Isin":"US38259P5089"}]`)
				return
			}
			fmt.Fprint(w, `[{"Code":"AAPL","Exchange":"NASDAQ","Isin":"US0378331005"}]`)
		case "/eod/AAPL.US":
			fmt.Fprint(w, `[{"date":"2024-01-02","open":187.15,"close":185.64},
				{"date":"2024-01-03","open":184.22,"close":184.25}]`)
		case "/eod/EURUSD.FOREX":
			if r.URL.Query().Get("from") != "2024-01-03" {
				t.Errorf("forex from = %q, want the next day", r.URL.Query().Get("from"))
			}
			fmt.Fprint(w, `[{"date":"2024-01-03","open":1.0941,"close":1.09},
				{"date":"2024-01-04","open":1.0921,"close":1.09}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return &Client{APIKey: "key", BaseURL: srv.URL, Daily: srv.Client(), Monthly: srv.Client()}
}

func TestClient_Ticker(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	tests := []struct {
		id      wallet.ID
		want    string
		wantErr bool
	}{
		{"US0378331005.XNAS", "AAPL.US", false},
		{"US38259P5089.XNYS", "OLD.US", false}, // delisted
		{"EURUSD", "EURUSD.FOREX", false},
		{"US0378331005.XPAR", "", true},
		{"PRIVATEX", "", true},
	}
	for _, tt := range tests {
		got, err := c.Ticker(ctx, tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("Ticker(%s) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, wallet.ErrNotFound) {
			t.Errorf("Ticker(%s) error = %v, want ErrNotFound", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("Ticker(%s) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestProvider(t *testing.T) {
	p := &Provider{Client: newTestClient(t)}
	ctx := context.Background()
	from, to := date.MustParse("2024-01-02"), date.MustParse("2024-01-03")

	h, err := p.PriceRange(ctx, "US0378331005.XNAS", from, to)
	if err != nil {
		t.Fatalf("PriceRange() unexpected error: %v", err)
	}
	var got []float64
	for _, v := range h.Values() {
		got = append(got, v)
	}
	if diff := cmp.Diff([]float64{185.64, 184.25}, got); diff != "" {
		t.Errorf("closes mismatch (-want +got):\n%s", diff)
	}

	// Forex uses the open of the next day.
	rate, err := p.Price(ctx, "EURUSD", from)
	if err != nil || rate != 1.0941 {
		t.Errorf("Price(EURUSD) = %v, %v, want 1.0941", rate, err)
	}

	if _, err := p.Price(ctx, "PRIVATEX", from); !errors.Is(err, wallet.ErrNotFound) {
		t.Errorf("Price(PRIVATEX) error = %v, want ErrNotFound", err)
	}
}
