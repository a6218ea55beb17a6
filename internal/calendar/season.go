package calendar

import (
	"strings"
	"time"
)

// Season is a liturgical season.
type Season string

const (
	SeasonAdvent    Season = "Advent"
	SeasonChristmas Season = "Christmas"
	SeasonLent      Season = "Lent"
	SeasonHolyWeek  Season = "Holy Week"
	SeasonEaster    Season = "Easter"
	SeasonOrdinary  Season = "Ordinary Time"
)

// Seasons lists every season in liturgical-year order.
var Seasons = []Season{SeasonAdvent, SeasonChristmas, SeasonOrdinary, SeasonLent, SeasonHolyWeek, SeasonEaster}

// IsValid checks if the season is one of the known seasons.
func (s Season) IsValid() bool {
	for _, known := range Seasons {
		if s == known {
			return true
		}
	}
	return false
}

// LectionaryTime returns the label the Lectionary's Time column uses for
// the season.
func (s Season) LectionaryTime() string {
	if s == SeasonOrdinary {
		return "Ordinary"
	}
	return string(s)
}

// ParseSeason accepts season names as they appear in calendar files and
// Lectionary Time columns ("Ordinary", "HolyWeek", "ordinary time").
func ParseSeason(s string) (Season, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	switch key {
	case "advent":
		return SeasonAdvent, true
	case "christmas":
		return SeasonChristmas, true
	case "lent":
		return SeasonLent, true
	case "holyweek":
		return SeasonHolyWeek, true
	case "easter":
		return SeasonEaster, true
	case "ordinary", "ordinarytime":
		return SeasonOrdinary, true
	}
	return "", false
}

// SeasonFor assigns the season of a date. The ranges are disjoint and cover
// the whole civil year; names and ranks are never consulted.
func SeasonFor(d time.Time, a Anchors) Season {
	switch {
	case !d.Before(a.Christmas) || d.Before(a.Baptism):
		return SeasonChristmas
	case inRange(d, a.FirstAdvent, a.Christmas):
		return SeasonAdvent
	case inRange(d, a.AshWednesday, a.PalmSunday):
		return SeasonLent
	case inRange(d, a.PalmSunday, a.Easter):
		return SeasonHolyWeek
	case !d.Before(a.Easter) && !d.After(a.Pentecost):
		return SeasonEaster
	default:
		return SeasonOrdinary
	}
}

// Rank is the liturgical precedence of a day's celebration.
type Rank string

const (
	RankFeria            Rank = "Feria"
	RankMemorial         Rank = "Memorial"
	RankOptionalMemorial Rank = "Optional Memorial"
	RankFeast            Rank = "Feast"
	RankSunday           Rank = "Sunday"
	RankSolemnity        Rank = "Solemnity"
	RankAshWednesday     Rank = "Ash Wednesday"
	RankTriduum          Rank = "Triduum"
)

// Level orders ranks for precedence. Memorial and Optional Memorial share a
// level; Ash Wednesday sits with feasts and the Triduum above Sundays.
func (r Rank) Level() int {
	switch r {
	case RankFeria:
		return 0
	case RankMemorial, RankOptionalMemorial:
		return 1
	case RankFeast, RankAshWednesday:
		return 2
	case RankSunday:
		return 3
	case RankTriduum:
		return 4
	case RankSolemnity:
		return 5
	}
	return 0
}

// AtLeastSunday reports whether the rank takes the Sunday (A/B/C) cycle.
func (r Rank) AtLeastSunday() bool {
	return r.Level() >= RankSunday.Level()
}

// IsMemorial reports whether r is an obligatory or optional memorial.
func (r Rank) IsMemorial() bool {
	return r == RankMemorial || r == RankOptionalMemorial
}

// ParseRank accepts rank labels in their display, compact or abbreviated forms.
func ParseRank(s string) (Rank, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(s, ".", " ")), ""))
	switch key {
	case "feria", "weekday":
		return RankFeria, true
	case "memorial", "mem":
		return RankMemorial, true
	case "optionalmemorial", "optmem", "optmemorial":
		return RankOptionalMemorial, true
	case "feast":
		return RankFeast, true
	case "sunday":
		return RankSunday, true
	case "solemnity":
		return RankSolemnity, true
	case "ashwednesday":
		return RankAshWednesday, true
	case "triduum":
		return RankTriduum, true
	}
	return "", false
}
