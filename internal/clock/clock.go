// Package clock provides the time source used by scheduling and streak logic.
// All day-granular arithmetic goes through this package so tests can pin the
// current instant.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayKeyLayout is the canonical calendar-day format used in persistence.
const DayKeyLayout = "2006-01-02"

// Clock abstracts the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// New returns a Clock backed by the system wall clock.
func New() Clock { return systemClock{} }

// Fake is a manually advanced Clock for tests.
type Fake struct {
	Current time.Time
}

func (f *Fake) Now() time.Time { return f.Current }

// Advance moves the fake clock forward.
func (f *Fake) Advance(d time.Duration) { f.Current = f.Current.Add(d) }

// ISOWeekday maps a time to 1=Monday .. 7=Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DayKey formats a time as its calendar-day key.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a calendar-day key in the local zone of the given
// reference time.
func ParseDayKey(key string, ref time.Time) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, key, ref.Location())
}

// StartOfDay truncates a time to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseMinutes converts an "HH:MM" string to minutes since midnight.
func ParseMinutes(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %s", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in time: %s", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in time: %s", value)
	}
	return hour*60 + minute, nil
}

// FormatMinutes converts minutes since midnight back to "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
