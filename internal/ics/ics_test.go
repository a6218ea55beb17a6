package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
)

func day(t *testing.T, date string, season calendar.Season, week int, name string, rank calendar.Rank) calendar.Day {
	t.Helper()
	d, err := calendar.ParseDateString(date)
	require.NoError(t, err)
	return calendar.Day{Date: d, Year: d.Year(), Season: season, Week: week, Name: name, Rank: rank}
}

func sampleEntries(t *testing.T) []Entry {
	t.Helper()
	sunday := day(t, "2025-01-26", calendar.SeasonOrdinary, 3, "Third Sunday in Ordinary Time", calendar.RankSunday)
	monday := day(t, "2025-01-27", calendar.SeasonOrdinary, 3, "Monday of the Third Week in Ordinary Time", calendar.RankFeria)

	entry := lectionary.Entry{
		AdminOrder: "150", YearCycle: "C", LiturgicalDay: "3rd Sunday in Ordinary Time",
		FirstReading: "Neh 8:2-4a, 5-6, 8-10", Psalm: "Ps 19", SecondReading: "1 Cor 12:12-30", Gospel: "Lk 1:1-4; 4:14-21",
	}
	results := []match.Result{
		{CalendarDate: sunday.Date, CalendarName: sunday.Name, LectionaryID: "150", Entry: &entry, Type: match.TypeExact, Method: match.MethodName},
		{CalendarDate: monday.Date, CalendarName: monday.Name, Type: match.TypeNone},
	}
	return Entries([]calendar.Day{sunday, monday}, results)
}

func TestEntries(t *testing.T) {
	entries := sampleEntries(t)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Result)
	assert.Equal(t, "150", entries[0].Result.LectionaryID)
	assert.Nil(t, entries[1].Result)
}

func TestBuildParsesBack(t *testing.T) {
	stamp := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Liturgical Calendar 2025", sampleEntries(t), stamp))

	body := buf.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Contains(t, body, "METHOD:PUBLISH")
	assert.Contains(t, body, ProductID)

	cal, err := ical.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "2025-01-26@ordo-lectionary", first.GetProperty(ical.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "Third Sunday in Ordinary Time", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "Sunday", first.GetProperty(ical.ComponentPropertyCategories).Value)
	assert.Equal(t, "20250126", first.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20250127", first.GetProperty(ical.ComponentPropertyDtEnd).Value)

	second := events[1]
	assert.Equal(t, "2025-01-27@ordo-lectionary", second.GetProperty(ical.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "Feria", second.GetProperty(ical.ComponentPropertyCategories).Value)
}

func TestDescription(t *testing.T) {
	entries := sampleEntries(t)

	matched := Description(entries[0])
	lines := strings.Split(matched, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Ordinary Time, week 3", lines[0])
	assert.Equal(t, "Lectionary 150: 3rd Sunday in Ordinary Time", lines[1])
	assert.Equal(t, "Gospel: Lk 1:1-4; 4:14-21", lines[5])

	assert.Equal(t, "Ordinary Time, week 3", Description(entries[1]))

	christmas := Entry{Day: day(t, "2025-12-25", calendar.SeasonChristmas, 0, "The Nativity of the Lord", calendar.RankSolemnity)}
	assert.Equal(t, "Christmas", Description(christmas))
}

func TestUID(t *testing.T) {
	d := time.Date(2024, time.February, 29, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-29@ordo-lectionary", UID(d))
}

func TestBuildGeneratedYear(t *testing.T) {
	gen := calendar.NewGenerator()
	days := gen.Year(2024)

	cal := Build("", Entries(days, nil), time.Now())
	assert.Len(t, cal.Events(), 366)
}
