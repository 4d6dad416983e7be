// Package utils provides utility functions for the application.
package utils

import (
	"fmt"
	"math"
	"time"
	_ "time/tzdata" // campaign day boundaries must resolve even on hosts without zoneinfo
)

// DateLayout is the layout of a calendar-day bucket key
const DateLayout = "2006-01-02"

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// TimeToUTCPtr converts a time pointer to UTC if it's not already
func TimeToUTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// LoadLocation resolves an IANA zone name, falling back to the business timezone when empty
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = BusinessTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

// MustBusinessLocation returns the Australia/Sydney location. tzdata is embedded so this cannot fail.
func MustBusinessLocation() *time.Location {
	loc, err := LoadLocation(BusinessTimezone)
	if err != nil {
		panic(err)
	}
	return loc
}

// LocalDate formats the calendar date of the instant t in loc as YYYY-MM-DD
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// CeilDays returns ceil(d / 24h)
func CeilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

// DateRange returns every calendar date in loc from the date of from to the date of to, inclusive.
// It returns nil when to falls on a date before from.
func DateRange(from, to time.Time, loc *time.Location) []string {
	start := from.In(loc)
	end := to.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	var dates []string
	for !day.After(last) {
		dates = append(dates, day.Format(DateLayout))
		day = day.AddDate(0, 0, 1)
	}
	return dates
}
