package wallet

import "testing"

func TestValidateISIN(t *testing.T) {
	testCases := []struct {
		name      string
		isin      string
		expectErr bool
	}{
		{"Valid Apple ISIN", "US0378331005", false},
		{"Valid VW ISIN", "DE0007664039", false},
		{"Invalid Check Digit", "US0378331006", true},
		{"Invalid Length (Short)", "US123", true},
		{"Invalid Length (Long)", "US03783310055", true},
		{"Invalid Format (Contains 'X')", "US037833100X", true},
		{"Invalid Format (lowercase)", "us0378331005", true},
		{"Empty String", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateISIN(tc.isin)
			if (err != nil) != tc.expectErr {
				t.Errorf("ValidateISIN(%q) returned error: %v, want error: %v", tc.isin, err, tc.expectErr)
			}
		})
	}
}

func TestValidateMIC(t *testing.T) {
	testCases := []struct {
		name      string
		mic       string
		expectErr bool
	}{
		{"Valid Nasdaq MIC", "XNAS", false},
		{"Valid Paris MIC", "XPAR", false},
		{"Invalid Length (Short)", "XN", true},
		{"Invalid Length (Long)", "XETRA", true},
		{"Invalid Character", "XET-", true},
		{"Invalid Case (lowercase)", "xnas", true},
		{"Empty String", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMIC(tc.mic)
			if (err != nil) != tc.expectErr {
				t.Errorf("ValidateMIC(%q) returned error: %v, want error: %v", tc.mic, err, tc.expectErr)
			}
		})
	}
}

func TestCurrencyPair(t *testing.T) {
	testCases := []struct {
		name        string
		id          ID
		expectBase  string
		expectQuote string
		expectErr   bool
	}{
		{"Valid Pair", "USDJPY", "USD", "JPY", false},
		{"Another Valid Pair", "EURGBP", "EUR", "GBP", false},
		{"Invalid Length (short)", "EUR", "", "", true},
		{"Invalid Length (long)", "EURUSDD", "", "", true},
		{"Invalid Chars (lowercase)", "eurusd", "", "", true},
		{"Empty String", "", "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			base, quote, err := tc.id.CurrencyPair()
			if (err != nil) != tc.expectErr {
				t.Fatalf("CurrencyPair(%q) error: %v, want error: %v", tc.id, err, tc.expectErr)
			}
			if !tc.expectErr && (base != tc.expectBase || quote != tc.expectQuote) {
				t.Errorf("CurrencyPair(%q) = %q, %q, want %q, %q", tc.id, base, quote, tc.expectBase, tc.expectQuote)
			}
		})
	}
}

func TestIDKind(t *testing.T) {
	testCases := []struct {
		id   ID
		want Kind
	}{
		{AAPL, KindSecurity},
		{"My Private Fund", KindSecurity},
		{USDEUR, KindCurrencyPair},
		{"EURUSD", KindCurrencyPair},
	}
	for _, tc := range testCases {
		if got := tc.id.Kind(); got != tc.want {
			t.Errorf("%q.Kind() = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestIDValidate(t *testing.T) {
	testCases := []struct {
		name      string
		input     ID
		expectErr bool
	}{
		{"Valid MSSI", "US0378331005.XNAS", false},
		{"Valid CurrencyPair", "EURUSD", false},
		{"Valid Private ID", "My Private Fund", false},
		{"Invalid (Too Short)", "short", true},
		{"Invalid (Resembles MSSI but is invalid)", "NOTANISIN.MIC", true},
		{"Invalid (Resembles CurrencyPair but is invalid)", "eurusd", true},
		{"Empty String", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate()
			if (err != nil) != tc.expectErr {
				t.Fatalf("%q.Validate() error: %v, want error: %v", tc.input, err, tc.expectErr)
			}
		})
	}
}

func TestNewMSSI(t *testing.T) {
	id, err := NewMSSI("US0378331005", "XNAS")
	if err != nil {
		t.Fatalf("NewMSSI() unexpected error: %v", err)
	}
	isin, mic, err := id.MSSI()
	if err != nil || isin != "US0378331005" || mic != "XNAS" {
		t.Errorf("MSSI() = %q, %q, %v", isin, mic, err)
	}
	if _, err := NewMSSI("US0378331006", "XNAS"); err == nil {
		t.Errorf("NewMSSI() with a bad check digit should fail")
	}
}
