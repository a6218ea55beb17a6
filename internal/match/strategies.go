package match

import (
	"strings"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/normalize"
)

// nameAlias maps naming variants of solemnities and feasts.
type nameAlias struct{}

func (nameAlias) Name() string { return string(MethodNameAlias) }

func (nameAlias) Apply(q *Query) (Result, bool) {
	if q.Day.Rank != calendar.RankSolemnity && q.Day.Rank != calendar.RankFeast {
		return Result{}, false
	}

	for _, alias := range q.Rules.Aliases {
		if !alias.Matches(q.lower) {
			continue
		}
		search := strings.ToLower(alias.Search)

		var first, nonVigil *lectionary.Indexed
		for _, e := range q.Candidates() {
			if !strings.Contains(e.Lower, search) {
				continue
			}
			if first == nil {
				first = e
			}
			if nonVigil == nil && !strings.Contains(e.Lower, "vigil") {
				nonVigil = e
			}
		}

		if nonVigil != nil {
			return q.result(nonVigil, TypeExact, MethodNameAlias, 0), true
		}
		if first != nil {
			return q.result(first, TypeExact, MethodNameAlias, 0), true
		}
	}
	return Result{}, false
}

// seasonalWeekdayMarkers identify names of ordinary days within a season,
// whose date coincidences with fixed entries are accidental.
var seasonalWeekdayMarkers = []string{
	"monday of", "tuesday of", "wednesday of", "thursday of", "friday of", "saturday of",
	"after ash wednesday", "after epiphany", "holy week", "easter week", "octave",
}

// dateMatch pairs a day with an entry named for the same calendar date.
type dateMatch struct{}

func (dateMatch) Name() string { return string(MethodDate) }

func (dateMatch) Apply(q *Query) (Result, bool) {
	if seasonalWeekday(q.lower) || majorDay(q) || q.Day.Rank.IsMemorial() {
		return Result{}, false
	}

	md := calendar.MonthDayOf(q.Day.Date)
	for _, e := range q.Candidates() {
		if e.HasDate && e.Date.Month == md.Month && e.Date.Day == md.Day {
			return q.result(e, TypeExact, MethodDate, 0), true
		}
	}
	return Result{}, false
}

func seasonalWeekday(lowerName string) bool {
	for _, m := range seasonalWeekdayMarkers {
		if strings.Contains(lowerName, m) {
			return true
		}
	}
	return false
}

func majorDay(q *Query) bool {
	return q.Day.Rank == calendar.RankSolemnity ||
		q.Day.Rank == calendar.RankFeast ||
		strings.Contains(q.lower, "sunday")
}

// exactName compares normalized names.
type exactName struct{}

func (exactName) Name() string { return string(MethodName) }

func (exactName) Apply(q *Query) (Result, bool) {
	if q.norm == "" {
		return Result{}, false
	}
	for _, e := range q.Candidates() {
		if e.Norm == q.norm {
			return q.result(e, TypeExact, MethodName, 0), true
		}
	}
	return Result{}, false
}

// scoredPartial accepts containment in either direction and keeps the entry
// sharing the most words; ties go to the earliest entry.
type scoredPartial struct{}

func (scoredPartial) Name() string { return string(MethodSubstring) }

func (scoredPartial) Apply(q *Query) (Result, bool) {
	if q.norm == "" {
		return Result{}, false
	}

	var best *lectionary.Indexed
	bestScore := -1
	for _, e := range q.Candidates() {
		if e.Norm == "" {
			continue
		}
		if !strings.Contains(e.Norm, q.norm) && !strings.Contains(q.norm, e.Norm) {
			continue
		}
		if score := normalize.SharedWords(q.norm, e.Norm); score > bestScore {
			best, bestScore = e, score
		}
	}

	if best == nil {
		return Result{}, false
	}
	return q.result(best, TypePartial, MethodSubstring, bestScore), true
}
