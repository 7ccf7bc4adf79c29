package domain

import (
	"regexp"
	"strings"
)

var (
	// iso3Re matches an upper-case ISO 3166-1 alpha-3 code.
	iso3Re = regexp.MustCompile(`^[A-Z]{3}$`)

	// indicatorRe matches World Bank indicator codes such as "NY.GDP.PCAP.CD".
	indicatorRe = regexp.MustCompile(`^[A-Z0-9]+(\.[A-Z0-9]+)+$`)
)

// YearBounds is the inclusive year window the dashboard accepts.
type YearBounds struct {
	Min int
	Max int
}

// DefaultYearBounds matches the year pickers of the dashboard (2010–2023).
var DefaultYearBounds = YearBounds{Min: 2010, Max: 2023}

// Contains reports whether year lies within the bounds.
func (b YearBounds) Contains(year int) bool {
	return year >= b.Min && year <= b.Max
}

// ValidateRange checks a user-chosen [start, end] window.
func (b YearBounds) ValidateRange(start, end int) error {
	if start > end {
		return invalid("year range", "start year %d is after end year %d", start, end)
	}
	if !b.Contains(start) {
		return invalid("start year", "%d is outside %d-%d", start, b.Min, b.Max)
	}
	if !b.Contains(end) {
		return invalid("end year", "%d is outside %d-%d", end, b.Min, b.Max)
	}
	return nil
}

// NormalizeCountryCode trims and upper-cases a country code and checks that it
// is ISO3-shaped.
func NormalizeCountryCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if !iso3Re.MatchString(c) {
		return "", invalid("country", "%q is not an ISO3 code", code)
	}
	return c, nil
}

// NormalizeIndicatorCode trims and upper-cases an indicator code and checks its shape.
func NormalizeIndicatorCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if !indicatorRe.MatchString(c) {
		return "", invalid("indicator", "%q is not a World Bank indicator code", code)
	}
	return c, nil
}

// Timeframe names a preset year window of the country profile view.
type Timeframe string

const (
	TimeframeFiveYears Timeframe = "5years"
	TimeframeTenYears  Timeframe = "10years"
	TimeframeAll       Timeframe = "all"
)

// Years returns the window a timeframe covers, anchored at the bounds' maximum.
// An empty timeframe means the five-year default.
func (t Timeframe) Years(b YearBounds) (start, end int, err error) {
	end = b.Max
	switch t {
	case TimeframeFiveYears, "":
		start = end - 4
	case TimeframeTenYears:
		start = end - 9
	case TimeframeAll:
		start = b.Min
	default:
		return 0, 0, invalid("timeframe", "unknown timeframe %q", string(t))
	}
	if start < b.Min {
		start = b.Min
	}
	return start, end, nil
}

// ValidateYear checks a single user-chosen year.
func (b YearBounds) ValidateYear(year int) error {
	if !b.Contains(year) {
		return invalid("year", "%d is outside %d-%d", year, b.Min, b.Max)
	}
	return nil
}
