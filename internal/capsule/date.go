package capsule

import (
	"fmt"
	"strings"
	"time"
)

// DateOption selects when the capsule opens.
type DateOption string

const (
	OpenInWeek   DateOption = "week"
	OpenInMonth  DateOption = "month"
	OpenInYear   DateOption = "year"
	OpenOnCustom DateOption = "custom"
)

// ParseDateOption accepts the option names plus a few spelled-out forms
// ("1-week", "1w", ...).
func ParseDateOption(s string) (DateOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "1-week", "1week", "1w":
		return OpenInWeek, nil
	case "month", "1-month", "1month", "1m":
		return OpenInMonth, nil
	case "year", "1-year", "1year", "1y":
		return OpenInYear, nil
	case "custom", "date":
		return OpenOnCustom, nil
	}
	return "", fmt.Errorf("unknown open date option %q", s)
}

func (o DateOption) Valid() bool {
	switch o {
	case OpenInWeek, OpenInMonth, OpenInYear, OpenOnCustom:
		return true
	}
	return false
}

// Label is the human readable name used in summaries.
func (o DateOption) Label() string {
	switch o {
	case OpenInWeek:
		return "1 week"
	case OpenInMonth:
		return "1 month"
	case OpenInYear:
		return "1 year"
	case OpenOnCustom:
		return "custom date"
	}
	return string(o)
}

// ResolveOpenAt turns the option into a concrete opening time relative to now.
// A custom date must be set and lie strictly after now.
func ResolveOpenAt(o DateOption, custom *time.Time, now time.Time) (time.Time, error) {
	switch o {
	case OpenInWeek:
		return now.AddDate(0, 0, 7), nil
	case OpenInMonth:
		return now.AddDate(0, 1, 0), nil
	case OpenInYear:
		return now.AddDate(1, 0, 0), nil
	case OpenOnCustom:
		if custom == nil {
			return time.Time{}, ErrCustomDateMissing
		}
		if !custom.After(now) {
			return time.Time{}, ErrCustomDateInPast
		}
		return *custom, nil
	}
	return time.Time{}, fmt.Errorf("unknown open date option %q", o)
}

// DaysUntil counts whole days from now to t, rounding partial days up.
// Times at or before now give 0.
func DaysUntil(now, t time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
