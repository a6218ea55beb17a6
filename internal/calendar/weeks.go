package calendar

import "time"

// ordinaryWeeks maps each Ordinary Time date of one civil year to its week.
//
// Period 1 is filled by a forward scan from Baptism of the Lord (week 1),
// period 2 by a backward scan from Christ the King (week 34). Both scans run
// once, before any day is built, so day construction does not depend on
// iteration order.
type ordinaryWeeks map[int64]int

// ChristTheKingWeek is the week number of the last Sunday in Ordinary Time.
const ChristTheKingWeek = 34

func buildOrdinaryWeeks(a Anchors) ordinaryWeeks {
	weeks := make(ordinaryWeeks, 240)
	weeks.scanForward(a.Baptism, a.AshWednesday)
	weeks.scanBackward(a.Pentecost, a.ChristTheKing, a.FirstAdvent)
	return weeks
}

// scanForward numbers [start, end): week 1 at start, +1 at each later Sunday.
func (w ordinaryWeeks) scanForward(start, end time.Time) {
	week := 1
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday && !d.Equal(start) {
			week++
		}
		w[dayKey(d)] = week
	}
}

// scanBackward numbers (after, advent): ChristTheKingWeek from Christ the King
// up to Advent, decreasing by one each time the scan steps back past a Sunday.
func (w ordinaryWeeks) scanBackward(after, christTheKing, advent time.Time) {
	for d := christTheKing; d.Before(advent); d = d.AddDate(0, 0, 1) {
		w[dayKey(d)] = ChristTheKingWeek
	}

	week := ChristTheKingWeek
	for d := christTheKing; d.After(after); d = d.AddDate(0, 0, -1) {
		w[dayKey(d)] = week
		if d.Weekday() == time.Sunday {
			week--
		}
	}
}

// week returns the week number for d in its season, or 0 when the season is
// not counted in weeks.
func (w ordinaryWeeks) week(d time.Time, season Season, a Anchors) int {
	switch season {
	case SeasonAdvent:
		return daysBetween(a.FirstAdvent, d)/7 + 1
	case SeasonLent:
		if d.Before(a.FirstLent) {
			return 1
		}
		return daysBetween(a.FirstLent, d)/7 + 1
	case SeasonEaster:
		return daysBetween(a.Easter, d)/7 + 1
	case SeasonOrdinary:
		return w[dayKey(d)]
	}
	return 0
}

// dayKey identifies a calendar date independent of clock and location.
func dayKey(d time.Time) int64 {
	return Truncate(d).Unix() / 86400
}
