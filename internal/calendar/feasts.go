package calendar

import (
	"strings"
	"time"

	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
)

// MonthDay keys a fixed civil-calendar date.
type MonthDay struct {
	Month time.Month
	Day   int
}

// MonthDayOf returns the MonthDay of t.
func MonthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: t.Month(), Day: t.Day()}
}

// FeastTable maps fixed dates to the display name of the feast kept on them.
type FeastTable map[MonthDay]string

// FeastsFromLectionary collects the fixed feasts of the Lectionary: rows on
// a "Fixed Day" in "Fixed Feast" time whose name starts with a date, such
// as "22 February – The Chair of St Peter". The first row for a date wins.
func FeastsFromLectionary(entries []lectionary.Entry) FeastTable {
	feasts := make(FeastTable)
	for _, e := range entries {
		if !strings.EqualFold(strings.TrimSpace(e.DayType), "Fixed Day") ||
			!strings.EqualFold(strings.TrimSpace(e.Time), "Fixed Feast") {
			continue
		}
		dm, ok := lectionary.PrefixedDate(e.LiturgicalDay)
		if !ok {
			continue
		}
		key := MonthDay{Month: dm.Month, Day: dm.Day}
		if _, seen := feasts[key]; !seen {
			feasts[key] = strings.TrimSpace(e.LiturgicalDay)
		}
	}
	return feasts
}
