// Package ordo turns the rows of a printed Ordo into calendar days.
//
// An Ordo lists each date once with its primary celebration, followed by
// continuation rows (blank date column) for optional memorials and
// alternatives. Only the primary row of each date is kept. Season, week and
// rank are read from the wording and typography of the description.
package ordo

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/normalize"
)

// Row is one raw line of an Ordo: a "7 August" style date (or blank) and a
// description.
type Row struct {
	Date        string
	Description string
}

var (
	rowDate       = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)`)
	compactSunday = regexp.MustCompile(`^(\d+)\s+(ORDINARY|LENT|ADVENT|EASTER)\b`)
	weekOf        = map[calendar.Season]*regexp.Regexp{
		calendar.SeasonOrdinary: regexp.MustCompile(`(?i)of the ([a-z]+(?:-[a-z]+)?) week in Ordinary Time`),
		calendar.SeasonLent:     regexp.MustCompile(`(?i)of the ([a-z]+(?:-[a-z]+)?) week of Lent`),
		calendar.SeasonAdvent:   regexp.MustCompile(`(?i)of the ([a-z]+(?:-[a-z]+)?) week of Advent`),
		calendar.SeasonEaster:   regexp.MustCompile(`(?i)of the ([a-z]+(?:-[a-z]+)?) week of Easter`),
	}
)

// Parse keeps the primary row of every date and classifies it. Rows whose
// date cannot be read are skipped and logged at debug level.
func Parse(rows []Row, year int, logger *slog.Logger) []calendar.Day {
	if logger == nil {
		logger = slog.Default()
	}

	var days []calendar.Day
	seen := make(map[string]struct{})
	for i, row := range rows {
		date := strings.TrimSpace(row.Date)
		desc := strings.TrimSpace(row.Description)
		if date == "" || desc == "" || strings.Contains(strings.ToUpper(date), "YEAR") {
			continue
		}

		t, err := parseRowDate(date, year)
		if err != nil {
			logger.Debug("skipping ordo row", slog.Int("row", i+1), slog.String("date", date), slog.String("error", err.Error()))
			continue
		}
		key := calendar.FormatDate(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		season, week, rank := Classify(desc)
		days = append(days, calendar.Day{
			Date:   t,
			Year:   year,
			Season: season,
			Week:   week,
			Name:   desc,
			Rank:   rank,
		})
	}
	return days
}

func parseRowDate(s string, year int) (time.Time, error) {
	m := rowDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	month, ok := lectionary.ParseMonth(m[2])
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q", m[2])
	}
	day, _ := strconv.Atoi(m[1])
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("no %s in %d", s, year)
	}
	return t, nil
}

// Classify infers season, week and rank from a description. Unknown values
// come back empty or zero.
func Classify(desc string) (calendar.Season, int, calendar.Rank) {
	var (
		season calendar.Season
		week   int
		rank   calendar.Rank
	)

	if m := compactSunday.FindStringSubmatch(desc); m != nil {
		week, _ = strconv.Atoi(m[1])
		season, _ = calendar.ParseSeason(m[2])
		return season, week, calendar.RankSunday
	}

	switch {
	case isAllCaps(desc):
		rank = calendar.RankSolemnity
	case ferial(desc):
		rank = calendar.RankFeria
	case startsUpper(desc) && !strings.Contains(strings.ToLower(desc), "of the"):
		if strings.Contains(desc, "Saint") || strings.Contains(desc, "Blessed") {
			rank = calendar.RankMemorial
		} else {
			rank = calendar.RankFeast
		}
	default:
		rank = calendar.RankFeria
	}

	switch {
	case strings.Contains(desc, "Ordinary Time"):
		season = calendar.SeasonOrdinary
	case strings.Contains(desc, "Lent"):
		season = calendar.SeasonLent
	case strings.Contains(desc, "Advent"):
		season = calendar.SeasonAdvent
	case strings.Contains(desc, "Easter"):
		season = calendar.SeasonEaster
	case strings.Contains(desc, "Christmas"), strings.Contains(desc, "Epiphany"):
		season = calendar.SeasonChristmas
	case strings.Contains(desc, "Holy Week"):
		season = calendar.SeasonHolyWeek
	}

	if re, ok := weekOf[season]; ok {
		if m := re.FindStringSubmatch(desc); m != nil {
			if n, ok := normalize.OrdinalNumber(m[1]); ok {
				week, _ = strconv.Atoi(n)
			}
		}
	}
	return season, week, rank
}

var weekdays = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

// ferial reports whether desc names an ordinary day of a season, such as
// "Monday after Epiphany" or "Fifth day in the Octave of Christmas".
func ferial(desc string) bool {
	lower := strings.ToLower(desc)
	if strings.Contains(lower, "octave") {
		return true
	}
	fields := strings.Fields(lower)
	if len(fields) < 2 {
		return false
	}
	_, ok := weekdays[fields[0]]
	return ok
}

// isAllCaps reports whether s has letters and none of them are lowercase.
func isAllCaps(s string) bool {
	letters := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			letters = true
		}
	}
	return letters
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
