package timeutil

import (
	"fmt"
	"sync"
	"time"
)

// DefaultZone is the business time zone used when none is configured.
const DefaultZone = "Asia/Ho_Chi_Minh"

var (
	mu  sync.RWMutex
	loc = mustLoad(DefaultZone)
)

func mustLoad(name string) *time.Location {
	l, err := time.LoadLocation(name)
	if err != nil {
		// Fallback: fixed UTC+7 when tzdata is unavailable
		return time.FixedZone("ICT", 7*60*60)
	}
	return l
}

// SetZone switches the business time zone. Called once at startup.
func SetZone(name string) error {
	l, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", name, err)
	}
	mu.Lock()
	loc = l
	mu.Unlock()
	return nil
}

// Location returns the business time zone.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return loc
}

// Now returns the current time in the business zone
func Now() time.Time {
	return time.Now().In(Location())
}

// StartOfDay returns 00:00:00 of t's calendar day in the business zone.
func StartOfDay(t time.Time) time.Time {
	l := Location()
	z := t.In(l)
	return time.Date(z.Year(), z.Month(), z.Day(), 0, 0, 0, 0, l)
}

// DayWindow returns the [start, end) 24-hour window of t's business day.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.Add(24 * time.Hour)
}

// Today returns the start of the current business day.
func Today() time.Time {
	return StartOfDay(Now())
}

// ParseDate parses a YYYY-MM-DD date as a business day.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Location())
}

// SameDay reports whether a and b fall on the same calendar date.
// DATE columns come back from Postgres as UTC midnight, so the
// comparison uses the wall-clock date of each value.
func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// DateKey formats the wall-clock date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// AsDate converts a business-zone day into a UTC midnight value with the
// same calendar date, which is how DATE parameters are sent to Postgres.
func AsDate(t time.Time) time.Time {
	z := t.In(Location())
	return time.Date(z.Year(), z.Month(), z.Day(), 0, 0, 0, 0, time.UTC)
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006"
)
