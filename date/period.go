package date

import (
	"fmt"
	"strings"
)

// Period is a standard calendar period used to sample daily series.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// ParsePeriod reads a period name, singular forms are accepted.
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %s", p)
	}
}

// LastOfPeriods returns the positions in days (sorted) of the last day of each period.
// The last position is always included so that an unfinished period is reported too.
func LastOfPeriods(days []Date, p Period) []int {
	var out []int
	for i, d := range days {
		if i+1 == len(days) || days[i+1].After(d.EndOf(p)) {
			out = append(out, i)
		}
	}
	return out
}
