package incomeyear

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FiscalYearStartMonth is the month a Bangladesh income year begins (1 July).
const FiscalYearStartMonth = time.July

// Year is an income year such as 2025-2026, identified by its starting calendar year.
type Year struct {
	Start int
}

// Parse parses keys of the form "2025-2026". The second year must follow the first.
func Parse(key string) (Year, error) {
	parts := strings.Split(strings.TrimSpace(key), "-")
	if len(parts) != 2 {
		return Year{}, fmt.Errorf("income year %q must look like 2025-2026", key)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return Year{}, fmt.Errorf("income year %q: invalid start year: %w", key, err)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return Year{}, fmt.Errorf("income year %q: invalid end year: %w", key, err)
	}
	if end != start+1 {
		return Year{}, fmt.Errorf("income year %q must span two consecutive years", key)
	}
	return Year{Start: start}, nil
}

// MustParse is Parse that panics; only for package-level constants and tests.
func MustParse(key string) Year {
	y, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return y
}

// String returns the canonical "YYYY-YYYY" key.
func (y Year) String() string {
	return fmt.Sprintf("%d-%d", y.Start, y.Start+1)
}

// Next returns the following income year.
func (y Year) Next() Year {
	return Year{Start: y.Start + 1}
}

// AssessmentYear is the year in which income earned during y is assessed.
func (y Year) AssessmentYear() Year {
	return y.Next()
}

// Contains reports whether date falls within the income year (1 July to 30 June).
func (y Year) Contains(date time.Time) bool {
	return For(date) == y
}

// For returns the income year containing date.
func For(date time.Time) Year {
	if date.Month() >= FiscalYearStartMonth {
		return Year{Start: date.Year()}
	}
	return Year{Start: date.Year() - 1}
}

// AssessmentYearOf returns the assessment year key for an income year key.
func AssessmentYearOf(key string) (string, error) {
	y, err := Parse(key)
	if err != nil {
		return "", err
	}
	return y.AssessmentYear().String(), nil
}
