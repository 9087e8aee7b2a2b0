package season

import "time"

// Type classifies a calendar date into one of four pricing bands.
type Type string

const (
	Low    Type = "LOW"
	Medium Type = "MEDIUM"
	High   Type = "HIGH"
	Peak   Type = "PEAK"
)

// Valid reports whether t is one of the known season bands.
func (t Type) Valid() bool {
	switch t {
	case Low, Medium, High, Peak:
		return true
	}
	return false
}

// Resolve maps a calendar date to its season band. The rule partitions the
// year with no gaps and no overlaps; first match wins:
//
//	PEAK:   Dec 20-31, Jan 1-10, Jul 1 - Aug 31
//	HIGH:   June, September, Dec 1-19
//	MEDIUM: April-May, October-November
//	LOW:    everything else (Jan 11-31, February, March)
//
// Pure function of the date, time zone normalized to UTC.
func Resolve(date time.Time) Type {
	date = date.UTC()
	month := date.Month()
	day := date.Day()

	switch {
	case month == time.December && day >= 20:
		return Peak
	case month == time.January && day <= 10:
		return Peak
	case month == time.July || month == time.August:
		return Peak
	case month == time.June || month == time.September || month == time.December:
		return High
	case month == time.April || month == time.May:
		return Medium
	case month == time.October || month == time.November:
		return Medium
	default:
		return Low
	}
}
