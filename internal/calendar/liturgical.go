package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical date format used in every record.
const DateLayout = "2006-01-02"

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(date time.Time) string {
	days := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	return days[date.Weekday()]
}

// Ordinal returns the ordinal form of a number (1st, 2nd, 3rd, 4th, 11th, 21st, etc.)
func Ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}

var ordinalWords = []string{
	"", "First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Eighth", "Ninth", "Tenth",
	"Eleventh", "Twelfth", "Thirteenth", "Fourteenth", "Fifteenth", "Sixteenth", "Seventeenth",
	"Eighteenth", "Nineteenth", "Twentieth",
}

var tensWords = map[int][2]string{
	2: {"Twentieth", "Twenty"},
	3: {"Thirtieth", "Thirty"},
}

// OrdinalWord spells out a week number: 1 -> "First", 21 -> "Twenty-First".
// Numbers outside 1..39 fall back to Ordinal.
func OrdinalWord(n int) string {
	if n >= 1 && n <= 20 {
		return ordinalWords[n]
	}
	tens, ok := tensWords[n/10]
	if !ok {
		return Ordinal(n)
	}
	if n%10 == 0 {
		return tens[0]
	}
	return tens[1] + "-" + ordinalWords[n%10]
}

// FindSundayBetween finds the first Sunday within the inclusive range.
func FindSundayBetween(start, end time.Time) (time.Time, bool) {
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		if current.Weekday() == time.Sunday {
			return current, true
		}
	}
	return time.Time{}, false
}

// ParseDateString parses a YYYY-MM-DD date into a UTC midnight time.
func ParseDateString(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Truncate drops the clock and location from t, keeping its calendar date.
func Truncate(t time.Time) time.Time {
	return date(t.Year(), t.Month(), t.Day())
}

// daysBetween returns the whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// inRange reports whether start <= t < end.
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
