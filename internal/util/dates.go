package util

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD layout accepted on the command line.
const DateLayout = "2006-01-02"

// maxDateRangeDays bounds a single A~B range argument.
const maxDateRangeDays = 366

// ParseDates expands a date argument into individual days in loc.
// It accepts a single date, a comma separated list, or an inclusive range "A~B".
// A nil loc means time.Local.
func ParseDates(input string, loc *time.Location) ([]time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, fmt.Errorf("date is required")
	}

	if strings.Contains(trimmed, "~") {
		parts := strings.Split(trimmed, "~")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid date range %q, use YYYY-MM-DD~YYYY-MM-DD", trimmed)
		}
		start, err := parseDay(parts[0], loc)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		end, err := parseDay(parts[1], loc)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("invalid date range %q: end is before start", trimmed)
		}
		var dates []time.Time
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if len(dates) >= maxDateRangeDays {
				return nil, fmt.Errorf("date range %q exceeds %d days", trimmed, maxDateRangeDays)
			}
			dates = append(dates, d)
		}
		return dates, nil
	}

	var dates []time.Time
	for _, part := range strings.Split(trimmed, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := parseDay(part, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("date is required")
	}
	return dates, nil
}

func parseDay(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
