package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
)

// memorialRouting sends memorials to the readings they actually use: the
// saint's proper readings for a short list of saints, the current weekday's
// readings for everyone else. It searches the whole table; the standard
// filters would discard the weekday entries it is looking for.
type memorialRouting struct{}

func (memorialRouting) Name() string { return "memorial_routing" }

func (memorialRouting) Apply(q *Query) (Result, bool) {
	if !q.Day.Rank.IsMemorial() {
		return Result{}, false
	}

	if q.Rules.properSaint(q.lower) {
		if e := properEntry(q); e != nil {
			return q.result(e, TypeExact, MethodProperForSaint, 0), true
		}
	}

	season, week := q.Day.Season, q.Day.Week
	if season == "" || (week <= 0 && season != calendar.SeasonChristmas) {
		s, w, ok := inferSeasonWeek(q.Day.Date, q.Context)
		if !ok {
			return Result{}, false
		}
		if season == "" {
			season = s
		}
		if week <= 0 {
			week = w
		}
	}
	if week <= 0 && season != calendar.SeasonChristmas {
		return Result{}, false
	}

	if e := weekdayEntry(q, season, week); e != nil {
		return q.result(e, TypeExact, MethodWeekdayForMemorial, 0), true
	}
	return Result{}, false
}

// properEntry finds the entry headed with the day's date, preferring the
// current Sunday cycle.
func properEntry(q *Query) *lectionary.Indexed {
	md := calendar.MonthDayOf(q.Day.Date)
	letter := q.Cycle
	if !lectionary.IsSundayCycle(letter) {
		letter = calendar.SundayCycle(q.Day.Date)
	}

	var first *lectionary.Indexed
	entries := q.Table.Entries()
	for i := range entries {
		e := &entries[i]
		if !e.Prefixed || e.Date.Month != md.Month || e.Date.Day != md.Day {
			continue
		}
		if strings.TrimSpace(e.YearCycle) == letter {
			return e
		}
		if first == nil {
			first = e
		}
	}
	return first
}

// inferSeasonWeek derives a season and week from the nearest neighbour that
// has both, looking back a week and then forward a week. Weeks begin on
// Sunday, so every Sunday crossed shifts the week by one.
func inferSeasonWeek(date time.Time, ctx Context) (calendar.Season, int, bool) {
	if ctx == nil {
		return "", 0, false
	}

	for back := 1; back <= 7; back++ {
		ref := date.AddDate(0, 0, -back)
		d, ok := ctx.Lookup(ref)
		if !ok || d.Season == "" || d.Week <= 0 {
			continue
		}
		return d.Season, d.Week + sundaysIn(ref, date), true
	}

	for fwd := 1; fwd <= 7; fwd++ {
		ref := date.AddDate(0, 0, fwd)
		d, ok := ctx.Lookup(ref)
		if !ok || d.Season == "" || d.Week <= 0 {
			continue
		}
		return d.Season, d.Week - sundaysIn(date, ref), true
	}

	return "", 0, false
}

// sundaysIn counts the Sundays in (from, to].
func sundaysIn(from, to time.Time) int {
	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			n++
		}
	}
	return n
}

// weekdayPatterns returns the lowercased names a weekday entry may carry.
func weekdayPatterns(date time.Time, season calendar.Season, week int) []string {
	wd := strings.ToLower(calendar.DayName(date))
	ord := ""
	if week > 0 {
		ord = strings.ToLower(calendar.OrdinalWord(week))
	}

	var patterns []string
	switch season {
	case calendar.SeasonLent:
		if ord != "" {
			patterns = append(patterns, fmt.Sprintf("%s of the %s week of lent", wd, ord))
		}
		patterns = append(patterns, wd+" after ash wednesday")
	case calendar.SeasonEaster:
		if ord != "" {
			patterns = append(patterns, fmt.Sprintf("%s of the %s week of easter", wd, ord))
		}
		if week <= 1 {
			patterns = append(patterns, "easter "+wd)
		}
	case calendar.SeasonAdvent:
		if ord != "" {
			patterns = append(patterns, fmt.Sprintf("%s of the %s week of advent", wd, ord))
		}
	case calendar.SeasonOrdinary:
		if ord != "" {
			patterns = append(patterns, fmt.Sprintf("%s of the %s week", wd, ord))
		}
	case calendar.SeasonChristmas:
		// Dated Christmas weekdays ("29th December") are compared by
		// day and month in weekdayEntry.
		patterns = append(patterns,
			wd+" after epiphany",
			wd+" before epiphany",
		)
	case calendar.SeasonHolyWeek:
		patterns = append(patterns, wd+" of holy week")
	}
	return patterns
}

func matchesAny(lower string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(lower, p) || (lower != "" && strings.Contains(p, lower)) {
			return true
		}
	}
	return false
}

// weekdayNameMatches reports whether e names the weekday. In the Christmas
// season an entry named for a bare date must carry exactly the day's date.
func weekdayNameMatches(e *lectionary.Indexed, date time.Time, season calendar.Season, patterns []string) bool {
	if season == calendar.SeasonChristmas && e.HasDate && !e.Prefixed {
		return e.Date.Month == date.Month() && e.Date.Day == date.Day()
	}
	return matchesAny(e.Lower, patterns)
}

// weekdayEntry finds the weekday entry for the season and week. In Ordinary
// Time the entry for the current weekday cycle wins; elsewhere the first
// matching entry does, skipping Sunday-cycle entries for other years.
func weekdayEntry(q *Query, season calendar.Season, week int) *lectionary.Indexed {
	patterns := weekdayPatterns(q.Day.Date, season, week)
	if len(patterns) == 0 {
		return nil
	}
	wantTime := season.LectionaryTime()
	weekdayCycle := calendar.WeekdayCycle(q.Day.Date)
	letter := calendar.SundayCycle(q.Day.Date)

	var fallback *lectionary.Indexed
	entries := q.Table.Entries()
	for i := range entries {
		e := &entries[i]
		t := strings.TrimSpace(e.Time)
		if t != "" && !strings.EqualFold(t, wantTime) {
			continue
		}
		if !weekdayNameMatches(e, q.Day.Date, season, patterns) {
			continue
		}

		cycle := strings.TrimSpace(e.YearCycle)
		if season == calendar.SeasonOrdinary && t != "" {
			switch {
			case lectionary.IsWeekdayCycle(cycle):
				if cycle == weekdayCycle {
					return e
				}
				if fallback == nil {
					fallback = e
				}
			case cycle == "" || cycle == lectionary.CycleSeason:
				return e
			}
			continue
		}

		if lectionary.IsSundayCycle(cycle) && cycle != letter {
			continue
		}
		return e
	}
	return fallback
}
