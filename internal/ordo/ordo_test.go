package ordo

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		desc   string
		season calendar.Season
		week   int
		rank   calendar.Rank
	}{
		{"2 ORDINARY", calendar.SeasonOrdinary, 2, calendar.RankSunday},
		{"3 LENT", calendar.SeasonLent, 3, calendar.RankSunday},
		{"1 ADVENT", calendar.SeasonAdvent, 1, calendar.RankSunday},
		{"THE EPIPHANY OF THE LORD", "", 0, calendar.RankSolemnity},
		{"SAINT JOSEPH, SPOUSE OF THE BLESSED VIRGIN MARY", "", 0, calendar.RankSolemnity},
		{"Saint Anthony, Abbot", "", 0, calendar.RankMemorial},
		{"Blessed Mary MacKillop, Virgin", "", 0, calendar.RankMemorial},
		{"Chair of Saint Peter", "", 0, calendar.RankMemorial},
		{"Presentation of the Lord", "", 0, calendar.RankFeria},
		{"Transfiguration", "", 0, calendar.RankFeast},
		{"Thursday of the eighteenth week in Ordinary Time", calendar.SeasonOrdinary, 18, calendar.RankFeria},
		{"Monday of the twenty-first week in Ordinary Time", calendar.SeasonOrdinary, 21, calendar.RankFeria},
		{"Tuesday of the second week of Lent", calendar.SeasonLent, 2, calendar.RankFeria},
		{"Friday of the third week of Advent", calendar.SeasonAdvent, 3, calendar.RankFeria},
		{"Wednesday of the fourth week of Easter", calendar.SeasonEaster, 4, calendar.RankFeria},
		{"Monday after Epiphany", calendar.SeasonChristmas, 0, calendar.RankFeria},
		{"Fifth day in the Octave of Christmas", calendar.SeasonChristmas, 0, calendar.RankFeria},
		{"Monday of Holy Week", calendar.SeasonHolyWeek, 0, calendar.RankFeria},
		{"weekday", "", 0, calendar.RankFeria},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			season, week, rank := Classify(tt.desc)
			assert.Equal(t, tt.season, season)
			assert.Equal(t, tt.week, week)
			assert.Equal(t, tt.rank, rank)
		})
	}
}

func TestParse(t *testing.T) {
	rows := []Row{
		{Date: "YEAR C", Description: "ORDO 2025"},
		{Date: "1 January", Description: "MARY, THE HOLY MOTHER OF GOD"},
		{Date: "", Description: "World Day of Prayer for Peace"},
		{Date: "2 January", Description: "Saints Basil the Great and Gregory Nazianzen"},
		{Date: "", Description: "Thursday before Epiphany"},
		{Date: "3 January", Description: ""},
		{Date: "31 February", Description: "Nothing"},
		{Date: "5 Smarch", Description: "Nothing"},
		{Date: "12 January", Description: "1 ORDINARY"},
		{Date: "12 January", Description: "Duplicate"},
		{Date: "17 January", Description: "Saint Anthony, Abbot"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	days := Parse(rows, 2025, logger)
	require.Len(t, days, 4)

	assert.Equal(t, "2025-01-01", calendar.FormatDate(days[0].Date))
	assert.Equal(t, calendar.RankSolemnity, days[0].Rank)
	assert.Equal(t, 2025, days[0].Year)

	assert.Equal(t, "Saints Basil the Great and Gregory Nazianzen", days[1].Name)
	assert.Equal(t, calendar.RankMemorial, days[1].Rank)

	assert.Equal(t, "2025-01-12", calendar.FormatDate(days[2].Date))
	assert.Equal(t, calendar.SeasonOrdinary, days[2].Season)
	assert.Equal(t, 1, days[2].Week)
	assert.Equal(t, calendar.RankSunday, days[2].Rank)

	assert.Equal(t, calendar.RankMemorial, days[3].Rank)
	assert.Empty(t, days[3].Season)
}

func TestParseNilLogger(t *testing.T) {
	days := Parse([]Row{{Date: "7 August", Description: "Saint Sixtus II"}}, 2025, nil)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-08-07", calendar.FormatDate(days[0].Date))
}
