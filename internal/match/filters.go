package match

import (
	"strings"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
)

// filter rejects entries that cannot belong to the queried day.
type filter func(q *Query, e *lectionary.Indexed) bool

var filters = []filter{
	yearCycleFilter,
	seasonFilter,
	weekFilter,
}

func passes(q *Query, e *lectionary.Indexed) bool {
	for _, f := range filters {
		if !f(q, e) {
			return false
		}
	}
	return true
}

// yearCycleFilter accepts year-independent entries always, Sunday-cycle
// entries only for the same Sunday cycle, and weekday-cycle entries only for
// the same weekday cycle (or any Sunday-cycle target).
func yearCycleFilter(q *Query, e *lectionary.Indexed) bool {
	ec := strings.TrimSpace(e.YearCycle)
	target := q.Cycle

	switch {
	case target == "" || lectionary.IsSentinelCycle(ec):
		return true
	case lectionary.IsSundayCycle(ec):
		return ec == target
	case lectionary.IsWeekdayCycle(ec):
		return !lectionary.IsWeekdayCycle(target) || ec == target
	default:
		// Combined cycles such as "ABC".
		return strings.Contains(strings.ToUpper(ec), strings.ToUpper(target))
	}
}

// seasonFilter compares the day's season with the entry's Time. Time values
// that are not season names ("Fixed Feast", "Moving Feast") do not restrict.
func seasonFilter(q *Query, e *lectionary.Indexed) bool {
	if q.Day.Season == "" || strings.TrimSpace(e.Time) == "" {
		return true
	}
	season, ok := calendar.ParseSeason(e.Time)
	if !ok {
		return true
	}
	return season == q.Day.Season
}

// weekFilter compares week numbers when both sides have one.
func weekFilter(q *Query, e *lectionary.Indexed) bool {
	if q.Day.Week <= 0 {
		return true
	}
	week, ok := e.Week()
	if !ok {
		return true
	}
	return week == q.Day.Week
}
