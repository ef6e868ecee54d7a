package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DateOf formats an instant as a calendar date in the given location.
// Dates are never normalized to UTC; the location decides the day boundary.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ValidateDateFormat checks if the string matches the standard date format.
func ValidateDateFormat(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

// AddDays shifts a date string by n calendar days.
// The arithmetic is done on calendar fields so DST transitions cannot skip or repeat a day.
func AddDays(dateStr string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// Weekday returns the weekday of a calendar date.
func Weekday(dateStr string) (time.Weekday, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t.Weekday(), nil
}

// SameMonth reports whether two dates fall in the same calendar month and year.
func SameMonth(a, b string) bool {
	return len(a) >= 7 && len(b) >= 7 && a[:7] == b[:7]
}

// DateRange returns every date from start to end inclusive.
func DateRange(start, end string) ([]string, error) {
	s, err := time.Parse(constants.DateFormat, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(constants.DateFormat, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("end date %s is before start date %s", end, start)
	}

	var days []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(constants.DateFormat))
	}
	return days, nil
}

// MonthBounds returns the first and last date of the month containing dateStr.
func MonthBounds(dateStr string) (string, string, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(constants.DateFormat), last.Format(constants.DateFormat), nil
}
