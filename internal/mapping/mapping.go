// Package mapping runs the matcher over whole calendars and reports on the
// outcome: statistics, suspicious matches, baseline differences and unused
// Lectionary entries.
package mapping

import (
	"strconv"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
)

// Row is one line of a mapping file.
type Row struct {
	CalendarDate   string `json:"calendar_date"`
	OrdoName       string `json:"ordo_name"`
	OrdoRank       string `json:"ordo_rank"`
	LectionaryID   string `json:"lectionary_id"`
	LectionaryName string `json:"lectionary_name"`
	MatchType      string `json:"match_type"`
	MatchMethod    string `json:"match_method"`
	Score          int    `json:"score"`
	FirstReading   string `json:"first_reading"`
	Psalm          string `json:"psalm"`
	SecondReading  string `json:"second_reading"`
	Gospel         string `json:"gospel"`
}

// RowFor flattens a match result.
func RowFor(r match.Result) Row {
	row := Row{
		CalendarDate: calendar.FormatDate(r.CalendarDate),
		OrdoName:     r.CalendarName,
		OrdoRank:     string(r.Rank),
		LectionaryID: r.LectionaryID,
		MatchType:    string(r.Type),
		MatchMethod:  string(r.Method),
		Score:        r.Score,
	}
	if e := r.Entry; e != nil {
		row.LectionaryName = e.LiturgicalDay
		row.FirstReading = e.FirstReading
		row.Psalm = e.Psalm
		row.SecondReading = e.SecondReading
		row.Gospel = e.Gospel
	}
	return row
}

// Rows flattens results in order.
func Rows(results []match.Result) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = RowFor(r)
	}
	return rows
}

// Fields returns the row's values in file column order.
func (r Row) Fields() []string {
	return []string{
		r.CalendarDate, r.OrdoName, r.OrdoRank, r.LectionaryID, r.LectionaryName,
		r.MatchType, r.MatchMethod, strconv.Itoa(r.Score),
		r.FirstReading, r.Psalm, r.SecondReading, r.Gospel,
	}
}

// Columns is the header of a mapping file.
var Columns = []string{
	"calendar_date", "ordo_name", "ordo_rank", "lectionary_id", "lectionary_name",
	"match_type", "match_method", "score",
	"first_reading", "psalm", "second_reading", "gospel",
}
