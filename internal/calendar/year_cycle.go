package calendar

import (
	"strconv"
	"time"
)

// Year cycle constants
const (
	// Cycle1 represents Year 1 of the two-year weekday cycle.
	Cycle1 = 1

	// Cycle2 represents Year 2 of the two-year weekday cycle.
	Cycle2 = 2

	// ReferenceYear is the liturgical year we use as a baseline for cycle calculation.
	// The liturgical year starting with Advent 2024 is Cycle 1, Sunday Year C.
	ReferenceYear = 2024

	// ReferenceCycle is the weekday cycle for the reference year.
	ReferenceCycle = Cycle1
)

// sundayCycles is indexed by (liturgical year end) % 3.
var sundayCycles = [3]string{"C", "A", "B"}

// GetYearCycle determines which weekday cycle (1 or 2) applies to a given date.
//
// The liturgical year begins on the First Sunday of Advent, not January 1.
// Years that end in an odd civil year are Cycle 1:
//   - December 1, 2024 (after Advent 2024): Cycle 1
//   - November 15, 2024 (before Advent 2024): Cycle 2
//   - March 15, 2025: Cycle 1
//   - December 15, 2025 (after Advent 2025): Cycle 2
func GetYearCycle(date time.Time) int {
	yearsSinceReference := GetLiturgicalYear(date) - ReferenceYear

	if yearsSinceReference%2 == 0 {
		return ReferenceCycle
	}
	if ReferenceCycle == Cycle1 {
		return Cycle2
	}
	return Cycle1
}

// GetLiturgicalYear returns the starting year of the liturgical year
// that contains the given date.
//
// The liturgical year is identified by the year in which its Advent begins.
// For example, the liturgical year "2024" runs from Advent 2024 through
// the Saturday before Advent 2025.
func GetLiturgicalYear(date time.Time) int {
	year := date.Year()
	if date.Before(CalculateAdvent(year)) {
		return year - 1
	}
	return year
}

// WeekdayCycle returns "1" or "2" for the date.
func WeekdayCycle(date time.Time) string {
	return strconv.Itoa(GetYearCycle(date))
}

// SundayCycle returns the Sunday cycle letter (A, B or C) for the date.
func SundayCycle(date time.Time) string {
	end := GetLiturgicalYear(date) + 1
	return sundayCycles[((end%3)+3)%3]
}

// CycleFor returns the cycle a day's readings are chosen by: the Sunday
// cycle for Sundays, Sunday-level ranks and any celebration falling on a
// Sunday (Baptism of the Lord, Holy Family); the weekday cycle otherwise.
func CycleFor(d Day) string {
	if d.Rank.AtLeastSunday() || d.Date.Weekday() == time.Sunday {
		return SundayCycle(d.Date)
	}
	return WeekdayCycle(d.Date)
}
