// Package calendar computes the liturgical calendar from first principles:
// Easter, the dates derived from it, seasons, week numbers, and the name and
// rank of every day.
package calendar

import (
	"time"
)

// Supported range of the Gregorian computus.
const (
	MinYear = 1583
	MaxYear = 4099
)

// CalculateEaster calculates the date of Easter Sunday for a given year
// using the anonymous Gregorian algorithm (Meeus/Jones/Butcher).
//
// Only integer division and modulo are used; the result is exact for every
// year between MinYear and MaxYear.
func CalculateEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return date(year, time.Month(month), day)
}

// CalculateAdvent calculates the First Sunday of Advent for a given year:
// three weeks before the last Sunday strictly before Christmas.
//
// When Christmas is itself a Sunday the "last Sunday before" is December 18,
// so Advent begins on November 27.
func CalculateAdvent(year int) time.Time {
	christmas := date(year, time.December, 25)

	back := int(christmas.Weekday())
	if back == 0 {
		back = 7
	}
	lastSunday := christmas.AddDate(0, 0, -back)

	return lastSunday.AddDate(0, 0, -21)
}

// CalculateAshWednesday calculates Ash Wednesday for a given year.
// Ash Wednesday is 46 days before Easter (40 days of Lent + 6 Sundays).
func CalculateAshWednesday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -46)
}

// CalculateAscension calculates the Ascension of the Lord for a given year.
// In Australia the solemnity is transferred from the Thursday (Easter + 39)
// to the following Sunday, Easter + 42.
func CalculateAscension(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 42)
}

// CalculatePentecost calculates Pentecost Sunday for a given year.
// Pentecost is 49 days after Easter (7 weeks).
func CalculatePentecost(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 49)
}

// CalculateEpiphany returns the Sunday between January 2 and 8, to which
// the Epiphany is transferred.
func CalculateEpiphany(year int) time.Time {
	sunday, _ := FindSundayBetween(date(year, time.January, 2), date(year, time.January, 8))
	return sunday
}

// CalculateHolyFamily returns the Sunday within the Octave of Christmas, or
// December 30 when there is none.
func CalculateHolyFamily(year int) time.Time {
	if sunday, ok := FindSundayBetween(date(year, time.December, 26), date(year, time.December, 31)); ok {
		return sunday
	}
	return date(year, time.December, 30)
}

// Anchors holds every fixed and moveable date the season, week and name
// rules of one civil year are evaluated against.
type Anchors struct {
	Year int

	Easter        time.Time
	AshWednesday  time.Time
	FirstLent     time.Time // First Sunday of Lent
	PalmSunday    time.Time
	HolyThursday  time.Time
	GoodFriday    time.Time
	HolySaturday  time.Time
	Ascension     time.Time
	Pentecost     time.Time
	Trinity       time.Time
	CorpusChristi time.Time
	SacredHeart   time.Time

	Epiphany      time.Time
	Baptism       time.Time
	ChristTheKing time.Time
	FirstAdvent   time.Time
	Christmas     time.Time
	HolyFamily    time.Time
}

// NewAnchors derives all anchor dates for a civil year.
func NewAnchors(year int) Anchors {
	easter := CalculateEaster(year)
	advent := CalculateAdvent(year)
	epiphany := CalculateEpiphany(year)
	ash := easter.AddDate(0, 0, -46)

	return Anchors{
		Year:          year,
		Easter:        easter,
		AshWednesday:  ash,
		FirstLent:     ash.AddDate(0, 0, 4),
		PalmSunday:    easter.AddDate(0, 0, -7),
		HolyThursday:  easter.AddDate(0, 0, -3),
		GoodFriday:    easter.AddDate(0, 0, -2),
		HolySaturday:  easter.AddDate(0, 0, -1),
		Ascension:     easter.AddDate(0, 0, 42),
		Pentecost:     easter.AddDate(0, 0, 49),
		Trinity:       easter.AddDate(0, 0, 56),
		CorpusChristi: easter.AddDate(0, 0, 63),
		SacredHeart:   easter.AddDate(0, 0, 68),
		Epiphany:      epiphany,
		Baptism:       epiphany.AddDate(0, 0, 7),
		ChristTheKing: advent.AddDate(0, 0, -7),
		FirstAdvent:   advent,
		Christmas:     date(year, time.December, 25),
		HolyFamily:    CalculateHolyFamily(year),
	}
}

// date builds a UTC midnight time.
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
