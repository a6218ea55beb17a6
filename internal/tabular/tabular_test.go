package tabular

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
	"github.com/zapponejosh/ordo-lectionary/internal/ordo"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadLectionary(t *testing.T) {
	entries, err := LoadLectionary("testdata/lectionary.csv")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "1", entries[0].AdminOrder)
	assert.Equal(t, "A", entries[0].YearCycle)
	assert.Equal(t, "Mt 24:37-44", entries[0].Gospel)

	assert.Equal(t, "Neh 8:2-4a, 5-6, 8-10", entries[1].FirstReading)
	assert.Equal(t, "19 March – St Joseph, Spouse of the Blessed Virgin Mary", entries[2].LiturgicalDay)
	assert.Empty(t, entries[2].Week)
	assert.Empty(t, entries[3].SecondReading)

	table := lectionary.NewTable(entries)
	ix, ok := table.Lookup("200")
	require.True(t, ok)
	assert.True(t, ix.Prefixed)
}

func TestReadLectionaryMissingColumn(t *testing.T) {
	_, err := ReadLectionary(strings.NewReader("Admin Order,Week\n1,1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Year")
	assert.Contains(t, err.Error(), "Liturgical Day")

	_, err = ReadLectionary(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadLectionaryGospelAlias(t *testing.T) {
	entries, err := ReadLectionary(strings.NewReader("Liturgical Day,Year,Admin Order,Gospel\nEaster Sunday,Solemnity,42,Jn 20:1-9\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "42", entries[0].AdminOrder)
	assert.Equal(t, "Jn 20:1-9", entries[0].Gospel)
}

func TestLectionaryRoundTrip(t *testing.T) {
	entries, err := LoadLectionary("testdata/lectionary.csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLectionary(&buf, entries))

	again, err := ReadLectionary(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func TestCalendarRoundTrip(t *testing.T) {
	gen := calendar.NewGenerator(calendar.WithLogger(quietLogger()))
	days := gen.Year(2025)[:40]
	for i := range days {
		days[i].Rule = ""
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCalendar(&buf, days))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(CalendarColumns, ",")+"\n"))

	again, err := ReadCalendar(&buf, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, days, again)
}

func TestReadCalendarMalformed(t *testing.T) {
	input := strings.Join([]string{
		"calendar_date,year,liturgical_season,liturgical_week,day_of_week,liturgical_name,liturgical_rank",
		"2025-01-01,2025,Christmas,,Wednesday,\"Mary, Mother of God\",Solemnity",
		"not-a-date,2025,Christmas,,Thursday,Broken,Feria",
		"2025-01-13,,Ordinary,first,Monday,Monday of the First Week in Ordinary Time,Weekday",
		"2025-01-14,2025,Summer,2,Tuesday,Something,Grand",
	}, "\n")

	days, err := ReadCalendar(strings.NewReader(input), quietLogger())
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "Mary, Mother of God", days[0].Name)
	assert.Equal(t, calendar.RankSolemnity, days[0].Rank)

	assert.Equal(t, 2025, days[1].Year)
	assert.Equal(t, calendar.SeasonOrdinary, days[1].Season)
	assert.Zero(t, days[1].Week)
	assert.Equal(t, calendar.RankFeria, days[1].Rank)

	assert.Empty(t, days[2].Season)
	assert.Equal(t, 2, days[2].Week)
	assert.Empty(t, days[2].Rank)
}

func TestMappingRoundTrip(t *testing.T) {
	rows := []mapping.Row{
		{
			CalendarDate: "2025-01-26", OrdoName: "Third Sunday in Ordinary Time", OrdoRank: "Sunday",
			LectionaryID: "150", LectionaryName: "3rd Sunday in Ordinary Time",
			MatchType: "exact", MatchMethod: "name", Score: 0,
			FirstReading: "Neh 8:2-4a, 5-6, 8-10", Psalm: "Ps 19", SecondReading: "1 Cor 12:12-30", Gospel: "Lk 1:1-4; 4:14-21",
		},
		{CalendarDate: "2025-07-04", OrdoName: "Independence Day", OrdoRank: "Feria", MatchType: "none"},
		{CalendarDate: "2025-03-19", OrdoName: "St Joseph", OrdoRank: "Solemnity", LectionaryID: "200", MatchType: "partial", MatchMethod: "substring", Score: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMapping(&buf, rows))

	again, err := ReadMapping(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestLoadOrdo(t *testing.T) {
	rows, err := LoadOrdo("testdata/ordo.csv")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, ordo.Row{Date: "1 January", Description: "MARY, THE HOLY MOTHER OF GOD"}, rows[1])
	assert.Equal(t, "", rows[2].Date)

	days := ordo.Parse(rows, 2025, quietLogger())
	require.Len(t, days, 3)
	assert.Equal(t, time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC), days[1].Date)
	assert.Equal(t, calendar.RankSunday, days[1].Rank)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadLectionary("testdata/nope.csv")
	assert.Error(t, err)
	_, err = LoadMapping("testdata/nope.csv")
	assert.Error(t, err)
	_, err = LoadOrdo("testdata/nope.csv")
	assert.Error(t, err)
}
