package wallet

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isinRegex checks for the basic structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// micRegex checks for the format: 4 uppercase alphanumeric characters.
var micRegex = regexp.MustCompile(`^[A-Z0-9]{4}$`)

// currencyCodeRegex checks for the format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// currencyPairRegex checks for the format: 6 uppercase letters (3 for base, 3 for quote).
var currencyPairRegex = regexp.MustCompile(`^[A-Z]{6}$`)

// idCharRegex checks for alphanumeric characters and space, used in Private IDs.
var idCharRegex = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

// Kind tags what an asset identifier designates.
type Kind int

const (
	// KindSecurity is an ordinary holdable instrument (stock, ETF, fund).
	KindSecurity Kind = iota
	// KindCurrencyPair is an FX-rate pseudo-asset used to convert prices upstream.
	KindCurrencyPair
)

func (k Kind) String() string {
	switch k {
	case KindSecurity:
		return "security"
	case KindCurrencyPair:
		return "currency-pair"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ID is the unique identifier of an asset.
//
// It is one of:
//   - an MSSI, "ISIN.MIC", a security on a given trading venue;
//   - a CurrencyPair, "BASEQUOTE", the price of one BASE expressed in QUOTE (EURUSD);
//   - a Private id, at least 7 alphanumeric characters or spaces and no '.'.
type ID string

// NewMSSI creates a new MSSI from its constituent parts after basic validation.
func NewMSSI(isin, mic string) (ID, error) {
	if err := ValidateISIN(isin); err != nil {
		return "", fmt.Errorf("invalid ISIN: %w", err)
	}
	if mic == "" {
		return "", errors.New("mic cannot be empty")
	}
	return ID(isin + "." + mic), nil
}

// NewCurrencyPair creates a new CurrencyPair from a base and quote currency code after validation.
func NewCurrencyPair(base, quote string) (ID, error) {
	if !currencyCodeRegex.MatchString(base) {
		return "", fmt.Errorf("invalid base currency format: must be 3 uppercase letters, got %q", base)
	}
	if !currencyCodeRegex.MatchString(quote) {
		return "", fmt.Errorf("invalid quote currency format: must be 3 uppercase letters, got %q", quote)
	}
	return ID(base + quote), nil
}

// NewPrivate validates that a string is a valid private ID.
func NewPrivate(s string) (ID, error) {
	// at least 7 chars, which also rules out 6 letters currency pairs.
	if len(s) < 7 {
		return "", fmt.Errorf("invalid id: must be at least 7 characters long, got %d", len(s))
	}
	if strings.Contains(s, ".") {
		return "", fmt.Errorf("invalid id: must not contain a '.' (resembles an MSSI)")
	}
	if !idCharRegex.MatchString(s) {
		return "", fmt.Errorf("invalid id: must only contain alphanumeric characters and spaces")
	}
	return ID(s), nil
}

// ValidateISIN checks if a string is a validly formatted ISIN, check digit included.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid length: must be 12 characters, got %d", len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid format: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit")
	}

	// Letters are expanded to two digits (A=10) before applying Luhn.
	var digits strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			digits.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			digits.WriteRune(char)
		}
	}

	sum := 0
	double := true
	s := digits.String()
	for i := len(s) - 1; i >= 0; i-- {
		digit := int(s[i] - '0')
		if double {
			digit *= 2
		}
		sum += digit/10 + digit%10
		double = !double
	}

	want := (10 - sum%10) % 10
	got := int(isin[11] - '0')
	if want != got {
		return fmt.Errorf("invalid check digit: expected %d, got %d", want, got)
	}
	return nil
}

// ValidateMIC checks if a string conforms to the MIC (ISO 10383) format.
func ValidateMIC(mic string) error {
	if len(mic) != 4 {
		return fmt.Errorf("invalid length: must be 4 characters, got %d", len(mic))
	}
	if !micRegex.MatchString(mic) {
		return fmt.Errorf("invalid format: must be 4 uppercase alphanumeric characters")
	}
	return nil
}

// MSSI splits and validates an "ISIN.MIC" identifier.
func (id ID) MSSI() (isin string, mic string, err error) {
	parts := strings.Split(string(id), ".")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid format: MSSI must contain exactly one '.', got %q", id)
	}
	if err := ValidateISIN(parts[0]); err != nil {
		return "", "", fmt.Errorf("invalid ISIN part: %w", err)
	}
	if err := ValidateMIC(parts[1]); err != nil {
		return "", "", fmt.Errorf("invalid MIC part: %w", err)
	}
	return parts[0], parts[1], nil
}

// CurrencyPair splits and validates a 6 letters currency pair.
func (id ID) CurrencyPair() (base string, quote string, err error) {
	if len(id) != 6 {
		return "", "", fmt.Errorf("invalid length: currency pair must be 6 characters, got %d", len(id))
	}
	if !currencyPairRegex.MatchString(string(id)) {
		return "", "", fmt.Errorf("invalid format: currency pair must be 6 uppercase letters")
	}
	return string(id)[:3], string(id)[3:], nil
}

// Kind returns the tag of the identifier.
func (id ID) Kind() Kind {
	if _, _, err := id.CurrencyPair(); err == nil {
		return KindCurrencyPair
	}
	return KindSecurity
}

// Validate checks that id is one of the supported formats.
func (id ID) Validate() error {
	if id.Kind() == KindCurrencyPair {
		return nil
	}
	if _, _, err := id.MSSI(); err == nil {
		return nil
	}
	if _, err := NewPrivate(string(id)); err != nil {
		return fmt.Errorf("invalid id %q: neither an MSSI, a currency pair nor a private id: %w", id, err)
	}
	return nil
}

// String implements the fmt.Stringer interface.
func (id ID) String() string { return string(id) }
