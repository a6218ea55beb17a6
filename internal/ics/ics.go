// Package ics exports generated calendars as iCalendar feeds, one all-day
// event per date.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
)

// ProductID identifies the exporter in the PRODID property.
const ProductID = "-//ordo-lectionary//Liturgical Calendar//EN"

const uidDomain = "ordo-lectionary"

// Entry is one exported day. Result is nil when the day was not matched.
type Entry struct {
	Day    calendar.Day
	Result *match.Result
}

// Entries pairs days with the matched results for the same dates. Days
// without a result are exported without readings.
func Entries(days []calendar.Day, results []match.Result) []Entry {
	byDate := make(map[string]*match.Result, len(results))
	for i := range results {
		if results[i].Matched() {
			byDate[calendar.FormatDate(results[i].CalendarDate)] = &results[i]
		}
	}

	entries := make([]Entry, len(days))
	for i, d := range days {
		entries[i] = Entry{Day: d, Result: byDate[calendar.FormatDate(d.Date)]}
	}
	return entries
}

// UID returns the stable event identifier for a date.
func UID(date time.Time) string {
	return calendar.FormatDate(date) + "@" + uidDomain
}

// Build assembles a calendar. stamp is written as DTSTAMP on every event.
func Build(name string, entries []Entry, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, e := range entries {
		date := calendar.Truncate(e.Day.Date)
		event := cal.AddEvent(UID(date))
		event.SetDtStampTime(stamp.UTC())
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetSummary(e.Day.Name)
		if e.Day.Rank != "" {
			event.SetProperty(ical.ComponentPropertyCategories, string(e.Day.Rank))
		}
		event.SetDescription(Description(e))
	}
	return cal
}

// Write serializes a calendar built from entries to w.
func Write(w io.Writer, name string, entries []Entry, stamp time.Time) error {
	body := Build(name, entries, stamp).Serialize()
	if _, err := io.WriteString(w, body); err != nil {
		return fmt.Errorf("write ics: %w", err)
	}
	return nil
}

// Description renders the event body: the season and week, then the
// readings when the day was matched.
func Description(e Entry) string {
	var lines []string

	season := string(e.Day.Season)
	switch {
	case season != "" && e.Day.Week > 0:
		lines = append(lines, fmt.Sprintf("%s, week %d", season, e.Day.Week))
	case season != "":
		lines = append(lines, season)
	}

	if r := e.Result; r != nil && r.Entry != nil {
		lines = append(lines, "Lectionary "+r.LectionaryID+": "+r.Entry.LiturgicalDay)
		for _, reading := range []struct{ label, ref string }{
			{"First Reading", r.Entry.FirstReading},
			{"Psalm", r.Entry.Psalm},
			{"Second Reading", r.Entry.SecondReading},
			{"Gospel", r.Entry.Gospel},
		} {
			if reading.ref != "" {
				lines = append(lines, reading.label+": "+reading.ref)
			}
		}
	}
	return strings.Join(lines, "\n")
}
