// Package lectionary models the table of scripture readings the calendar is
// matched against.
package lectionary

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zapponejosh/ordo-lectionary/internal/normalize"
)

// Year-cycle sentinels meaning "not tied to a Sunday or weekday cycle".
const (
	CycleSeason    = "Season"
	CycleFeast     = "Feast"
	CycleSolemnity = "Solemnity"
	CycleMemorial  = "Memorial"
)

// Entry is one row of the Lectionary.
type Entry struct {
	AdminOrder    string `json:"admin_order"`
	YearCycle     string `json:"year_cycle"`
	Week          string `json:"week"`
	DayType       string `json:"day_type"`
	Time          string `json:"time"`
	LiturgicalDay string `json:"liturgical_day"`
	FirstReading  string `json:"first_reading"`
	Psalm         string `json:"psalm"`
	SecondReading string `json:"second_reading,omitempty"`
	Gospel        string `json:"gospel"`
}

// IsSentinelCycle reports whether c matches every target cycle.
func IsSentinelCycle(c string) bool {
	switch strings.TrimSpace(c) {
	case "", CycleSeason, CycleFeast, CycleSolemnity, CycleMemorial:
		return true
	}
	return false
}

// IsSundayCycle reports whether c is one of A, B or C.
func IsSundayCycle(c string) bool {
	switch strings.TrimSpace(c) {
	case "A", "B", "C":
		return true
	}
	return false
}

// IsWeekdayCycle reports whether c is "1" or "2".
func IsWeekdayCycle(c string) bool {
	switch strings.TrimSpace(c) {
	case "1", "2":
		return true
	}
	return false
}

// WeekNumber parses the Week column. Blank, "N/A" and symbolic values such
// as "Solemnity" report ok=false.
func (e Entry) WeekNumber() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(e.Week))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// DayMonth is a (month, day) pair extracted from a name.
type DayMonth struct {
	Month time.Month
	Day   int
}

var (
	prefixedDate = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\s*[–—-]`)
	bareDate     = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th|ST|ND|RD|TH)?\s+([A-Za-z]+)\s*$`)
)

var months = map[string]time.Month{
	"JANUARY": time.January, "FEBRUARY": time.February, "MARCH": time.March,
	"APRIL": time.April, "MAY": time.May, "JUNE": time.June,
	"JULY": time.July, "AUGUST": time.August, "SEPTEMBER": time.September,
	"OCTOBER": time.October, "NOVEMBER": time.November, "DECEMBER": time.December,
}

// ParseMonth resolves an English month name, case-insensitively.
func ParseMonth(name string) (time.Month, bool) {
	m, ok := months[strings.ToUpper(strings.TrimSpace(name))]
	return m, ok
}

// PrefixedDate extracts the date from names of the form "19 March – St Joseph".
func PrefixedDate(name string) (DayMonth, bool) {
	return extract(prefixedDate, name)
}

// NameDate extracts a date from either "19 March – ..." or a bare
// "17th December" name.
func NameDate(name string) (DayMonth, bool) {
	if dm, ok := extract(prefixedDate, name); ok {
		return dm, true
	}
	return extract(bareDate, name)
}

func extract(re *regexp.Regexp, name string) (DayMonth, bool) {
	m := re.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return DayMonth{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return DayMonth{}, false
	}
	month, ok := ParseMonth(m[2])
	if !ok {
		return DayMonth{}, false
	}
	return DayMonth{Month: month, Day: day}, true
}

// Indexed is an entry together with its precomputed comparison forms.
type Indexed struct {
	Entry
	Norm      string // normalize.Name of LiturgicalDay
	Lower     string // lowercased LiturgicalDay
	Date      DayMonth
	HasDate   bool
	Prefixed  bool // date came from a "D Month –" prefix
	Position  int  // index in source order
	weekValue int
	hasWeek   bool
}

// Week returns the numeric week, if any.
func (ix *Indexed) Week() (int, bool) {
	return ix.weekValue, ix.hasWeek
}

// Table is the Lectionary in source order with comparison forms
// computed once.
type Table struct {
	entries []Indexed
	byID    map[string]int
}

// NewTable indexes entries, preserving their order.
func NewTable(entries []Entry) *Table {
	t := &Table{
		entries: make([]Indexed, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		ix := Indexed{
			Entry:    e,
			Norm:     normalize.Name(e.LiturgicalDay),
			Lower:    strings.ToLower(strings.TrimSpace(e.LiturgicalDay)),
			Position: i,
		}
		if dm, ok := PrefixedDate(e.LiturgicalDay); ok {
			ix.Date, ix.HasDate, ix.Prefixed = dm, true, true
		} else if dm, ok := NameDate(e.LiturgicalDay); ok {
			ix.Date, ix.HasDate = dm, true
		}
		ix.weekValue, ix.hasWeek = e.WeekNumber()
		t.entries[i] = ix
		if _, dup := t.byID[e.AdminOrder]; !dup && e.AdminOrder != "" {
			t.byID[e.AdminOrder] = i
		}
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the indexed entries in source order. Callers must not
// modify the returned slice.
func (t *Table) Entries() []Indexed {
	if t == nil {
		return nil
	}
	return t.entries
}

// Lookup finds an entry by admin order.
func (t *Table) Lookup(adminOrder string) (*Indexed, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.byID[adminOrder]
	if !ok {
		return nil, false
	}
	return &t.entries[i], true
}

// Raw returns the plain entries in source order.
func (t *Table) Raw() []Entry {
	out := make([]Entry, 0, t.Len())
	for _, ix := range t.Entries() {
		out = append(out, ix.Entry)
	}
	return out
}
