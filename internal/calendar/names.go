package calendar

import (
	"fmt"
	"time"
)

// SolemnityPolicy decides who takes a Sunday that coincides with a
// fixed-date solemnity.
type SolemnityPolicy string

const (
	// PolicySolemnityWins keeps the fixed solemnity on the Sunday.
	PolicySolemnityWins SolemnityPolicy = "solemnity"
	// PolicySundayWins keeps the Sunday of the season.
	PolicySundayWins SolemnityPolicy = "sunday"
)

// IsValid reports whether p is a known policy.
func (p SolemnityPolicy) IsValid() bool {
	return p == PolicySolemnityWins || p == PolicySundayWins
}

// dayContext is everything a naming rule may look at. Season and week are
// already final when rules run.
type dayContext struct {
	date    time.Time
	season  Season
	week    int
	anchors *Anchors
	feasts  FeastTable
	policy  SolemnityPolicy
}

func (c *dayContext) sunday() bool { return c.date.Weekday() == time.Sunday }

func (c *dayContext) on(t time.Time) bool { return c.date.Equal(t) }

func (c *dayContext) weekday() string { return DayName(c.date) }

// rule is one row of the naming priority table.
type rule struct {
	name    string
	applies func(c *dayContext) bool
	resolve func(c *dayContext) (string, Rank)
}

// Rule names reported on Day.Rule.
const (
	RuleFixedSolemnity    = "fixed_solemnity"
	RuleMoveableSolemnity = "moveable_solemnity"
	RuleFixedFeast        = "fixed_feast"
	RuleSeason            = "season"
	RuleFallback          = "fallback"
)

// fixedSolemnities are kept on their date whatever the season.
var fixedSolemnities = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.March, 19, "19 March – St Joseph"},
	{time.March, 25, "25 March – Annunciation"},
	{time.June, 24, "24 June – Birth of John the Baptist"},
	{time.June, 29, "29 June – Ss Peter and Paul"},
	{time.August, 15, "15 August – Assumption"},
	{time.November, 1, "1 November – All Saints"},
	{time.December, 8, "8 December – Immaculate Conception"},
}

// moveableSolemnities are anchored on Easter or Advent.
var moveableSolemnities = []struct {
	name   string
	anchor func(a *Anchors) time.Time
}{
	{"Easter Sunday", func(a *Anchors) time.Time { return a.Easter }},
	{"Ascension of the Lord", func(a *Anchors) time.Time { return a.Ascension }},
	{"Pentecost Sunday", func(a *Anchors) time.Time { return a.Pentecost }},
	{"Trinity Sunday", func(a *Anchors) time.Time { return a.Trinity }},
	{"THE BODY AND BLOOD OF CHRIST", func(a *Anchors) time.Time { return a.CorpusChristi }},
	{"Sacred Heart of Jesus", func(a *Anchors) time.Time { return a.SacredHeart }},
	{"Our Lord Jesus Christ, King of the Universe", func(a *Anchors) time.Time { return a.ChristTheKing }},
}

// nameRules is evaluated top-down; the first rule that applies names the day.
var nameRules = buildNameRules()

func buildNameRules() []rule {
	var rules []rule

	for _, s := range fixedSolemnities {
		s := s
		rules = append(rules, rule{
			name: RuleFixedSolemnity,
			applies: func(c *dayContext) bool {
				if c.date.Month() != s.month || c.date.Day() != s.day {
					return false
				}
				return !(c.sunday() && c.policy == PolicySundayWins)
			},
			resolve: fixed(s.name, RankSolemnity),
		})
	}

	for _, s := range moveableSolemnities {
		s := s
		rules = append(rules, rule{
			name:    RuleMoveableSolemnity,
			applies: func(c *dayContext) bool { return c.on(s.anchor(c.anchors)) },
			resolve: fixed(s.name, RankSolemnity),
		})
	}

	rules = append(rules, rule{
		name: RuleFixedFeast,
		applies: func(c *dayContext) bool {
			if c.sunday() || seasonalSolemnity(c) {
				return false
			}
			_, ok := c.feasts[MonthDayOf(c.date)]
			return ok
		},
		resolve: func(c *dayContext) (string, Rank) {
			return c.feasts[MonthDayOf(c.date)], RankFeast
		},
	})

	rules = append(rules, seasonRules()...)

	rules = append(rules, rule{
		name:    RuleFallback,
		applies: func(*dayContext) bool { return true },
		resolve: func(c *dayContext) (string, Rank) {
			return fmt.Sprintf("%s of Week %d in %s", c.weekday(), c.week, c.season), RankFeria
		},
	})

	return rules
}

// seasonalSolemnity reports the solemnities named by the season rules, which
// a fixed feast must not displace.
func seasonalSolemnity(c *dayContext) bool {
	md := MonthDayOf(c.date)
	return md == (MonthDay{time.December, 25}) || md == (MonthDay{time.January, 1}) || c.on(c.anchors.Epiphany)
}

func fixed(name string, rank Rank) func(*dayContext) (string, Rank) {
	return func(*dayContext) (string, Rank) { return name, rank }
}

func inSeason(s Season, extra func(c *dayContext) bool) func(c *dayContext) bool {
	return func(c *dayContext) bool {
		return c.season == s && (extra == nil || extra(c))
	}
}

func seasonRules() []rule {
	dated := func(c *dayContext) (string, Rank) {
		return fmt.Sprintf("%s %s", Ordinal(c.date.Day()), c.date.Month()), RankFeria
	}
	sundayOf := func(season string) func(c *dayContext) (string, Rank) {
		return func(c *dayContext) (string, Rank) {
			return fmt.Sprintf("%s Sunday %s", OrdinalWord(c.week), season), RankSunday
		}
	}
	weekdayOf := func(season string) func(c *dayContext) (string, Rank) {
		return func(c *dayContext) (string, Rank) {
			return fmt.Sprintf("%s of the %s Week %s", c.weekday(), OrdinalWord(c.week), season), RankFeria
		}
	}
	sunday := func(c *dayContext) bool { return c.sunday() }
	weekday := func(c *dayContext) bool { return !c.sunday() }

	return []rule{
		// Christmas
		{RuleSeason, func(c *dayContext) bool { return MonthDayOf(c.date) == MonthDay{time.December, 25} },
			fixed("Christmas Day", RankSolemnity)},
		{RuleSeason, func(c *dayContext) bool { return MonthDayOf(c.date) == MonthDay{time.January, 1} },
			fixed("Mary, Mother of God", RankSolemnity)},
		{RuleSeason, func(c *dayContext) bool { return c.on(c.anchors.Epiphany) },
			fixed("Epiphany of the Lord", RankSolemnity)},
		{RuleSeason, func(c *dayContext) bool { return c.on(c.anchors.Baptism) },
			fixed("Baptism of the Lord", RankFeast)},
		{RuleSeason, func(c *dayContext) bool { return c.on(c.anchors.HolyFamily) },
			fixed("The Holy Family of Jesus, Mary and Joseph", RankFeast)},
		{RuleSeason, inSeason(SeasonChristmas, func(c *dayContext) bool { return c.date.Month() == time.December }),
			dated},
		{RuleSeason, inSeason(SeasonChristmas, func(c *dayContext) bool { return c.date.Before(c.anchors.Epiphany) }),
			dated},
		{RuleSeason, inSeason(SeasonChristmas, nil),
			func(c *dayContext) (string, Rank) { return c.weekday() + " after Epiphany", RankFeria }},

		// Advent
		{RuleSeason, inSeason(SeasonAdvent, sunday), sundayOf("of Advent")},
		{RuleSeason, inSeason(SeasonAdvent, func(c *dayContext) bool { return c.date.Day() >= 17 }), dated},
		{RuleSeason, inSeason(SeasonAdvent, nil), weekdayOf("of Advent")},

		// Lent
		{RuleSeason, func(c *dayContext) bool { return c.on(c.anchors.AshWednesday) },
			fixed("Ash Wednesday", RankAshWednesday)},
		{RuleSeason, inSeason(SeasonLent, func(c *dayContext) bool { return c.date.Before(c.anchors.FirstLent) }),
			func(c *dayContext) (string, Rank) { return c.weekday() + " after Ash Wednesday", RankFeria }},
		{RuleSeason, inSeason(SeasonLent, sunday), sundayOf("of Lent")},
		{RuleSeason, inSeason(SeasonLent, nil), weekdayOf("of Lent")},

		// Holy Week
		{RuleSeason, func(c *dayContext) bool { return c.on(c.anchors.PalmSunday) },
			fixed("Palm Sunday", RankSunday)},
		{RuleSeason, func(c *dayContext) bool { return c.on(c.anchors.HolyThursday) },
			fixed("Holy Thursday", RankTriduum)},
		{RuleSeason, func(c *dayContext) bool { return c.on(c.anchors.GoodFriday) },
			fixed("Good Friday", RankTriduum)},
		{RuleSeason, func(c *dayContext) bool { return c.on(c.anchors.HolySaturday) },
			fixed("Holy Saturday", RankTriduum)},
		{RuleSeason, inSeason(SeasonHolyWeek, weekday),
			func(c *dayContext) (string, Rank) { return c.weekday() + " of Holy Week", RankFeria }},

		// Easter
		{RuleSeason, inSeason(SeasonEaster, sunday), sundayOf("of Easter")},
		{RuleSeason, inSeason(SeasonEaster, nil), weekdayOf("of Easter")},

		// Ordinary Time
		{RuleSeason, inSeason(SeasonOrdinary, sunday), sundayOf("in Ordinary Time")},
		{RuleSeason, inSeason(SeasonOrdinary, func(c *dayContext) bool { return c.week > 0 }),
			weekdayOf("in Ordinary Time")},
	}
}

// resolveName runs the priority table for one day.
func resolveName(c *dayContext) (name string, rank Rank, ruleName string) {
	for _, r := range nameRules {
		if r.applies(c) {
			name, rank = r.resolve(c)
			return name, rank, r.name
		}
	}
	// Unreachable: the fallback rule always applies.
	return fmt.Sprintf("%s of Week %d in %s", c.weekday(), c.week, c.season), RankFeria, RuleFallback
}
