package date

import (
	"encoding/json"
	"testing"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-08-12", New(2024, 8, 12), false},
		{"2024-8-2", New(2024, 8, 2), false},
		{"2024/08/12", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, 12, 31), New(2025, 1, 1)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare(%v, %v) is not a total order", a, b)
	}
	if !a.Before(b) || !b.After(a) {
		t.Errorf("Before/After inconsistent for %v and %v", a, b)
	}
	if Min(a, b) != a || Max(a, b) != b {
		t.Errorf("Min/Max(%v, %v) = %v, %v", a, b, Min(a, b), Max(a, b))
	}
}

func TestDateJSON(t *testing.T) {
	d := New(2024, 8, 15)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(b) != `"2024-08-15"` {
		t.Errorf("json.Marshal() = %s, want %q", b, "2024-08-15")
	}
	var got Date
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got != d {
		t.Errorf("json.Unmarshal() = %v, want %v", got, d)
	}
}

func TestUnion(t *testing.T) {
	a := []Date{New(2024, 1, 1), New(2024, 1, 3), New(2024, 1, 4)}
	b := []Date{New(2024, 1, 2), New(2024, 1, 3)}
	got := Union(a, b, nil)
	want := []Date{New(2024, 1, 1), New(2024, 1, 2), New(2024, 1, 3), New(2024, 1, 4)}
	if len(got) != len(want) {
		t.Fatalf("Union() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Union()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
