// Package match resolves calendar days to Lectionary entries.
//
// A Matcher runs a fixed chain of strategies; the first strategy that finds
// an entry decides the result. Every strategy except memorial routing sees
// only the entries that pass the year-cycle, season and week filters.
package match

import (
	"strings"
	"time"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/normalize"
)

// Type is the quality of a match.
type Type string

const (
	TypeExact   Type = "exact"
	TypePartial Type = "partial"
	TypeNone    Type = "none"
)

// Method names how a match was found.
type Method string

const (
	MethodDate               Method = "date"
	MethodName               Method = "name"
	MethodNameAlias          Method = "name_alias"
	MethodProperForSaint     Method = "proper_for_saint"
	MethodWeekdayForMemorial Method = "weekday_for_memorial"
	MethodSubstring          Method = "substring"
)

// Result is the outcome of matching one day.
type Result struct {
	CalendarDate time.Time         `json:"-"`
	CalendarName string            `json:"calendar_name"`
	Rank         calendar.Rank     `json:"rank"`
	Cycle        string            `json:"cycle"`
	LectionaryID string            `json:"lectionary_id,omitempty"`
	Entry        *lectionary.Entry `json:"entry,omitempty"`
	Type         Type              `json:"match_type"`
	Method       Method            `json:"match_method,omitempty"`
	Score        int               `json:"score"`
}

// Matched reports whether an entry was found.
func (r Result) Matched() bool {
	return r.Type != TypeNone && r.Entry != nil
}

// LectionaryName returns the matched entry's name, or "".
func (r Result) LectionaryName() string {
	if r.Entry == nil {
		return ""
	}
	return r.Entry.LiturgicalDay
}

// Context gives access to neighbouring days. *calendar.Calendar implements it.
type Context interface {
	Lookup(date time.Time) (calendar.Day, bool)
}

// Query is the input one strategy works on.
type Query struct {
	Day     calendar.Day
	Cycle   string
	Table   *lectionary.Table
	Context Context
	Rules   *Rules

	norm       string
	lower      string
	candidates []*lectionary.Indexed
	filtered   bool
}

func newQuery(day calendar.Day, table *lectionary.Table, cycle string, ctx Context, rules *Rules) *Query {
	return &Query{
		Day:     day,
		Cycle:   strings.TrimSpace(cycle),
		Table:   table,
		Context: ctx,
		Rules:   rules,
		norm:    normalize.Name(day.Name),
		lower:   strings.ToLower(strings.TrimSpace(day.Name)),
	}
}

// NormalizedName is the day name in comparison form.
func (q *Query) NormalizedName() string { return q.norm }

// Candidates returns the entries that pass every filter, in table order.
func (q *Query) Candidates() []*lectionary.Indexed {
	if q.filtered {
		return q.candidates
	}
	entries := q.Table.Entries()
	for i := range entries {
		e := &entries[i]
		if passes(q, e) {
			q.candidates = append(q.candidates, e)
		}
	}
	q.filtered = true
	return q.candidates
}

// result builds a Result pointing at e.
func (q *Query) result(e *lectionary.Indexed, t Type, m Method, score int) Result {
	entry := e.Entry
	return Result{
		CalendarDate: q.Day.Date,
		CalendarName: q.Day.Name,
		Rank:         q.Day.Rank,
		Cycle:        q.Cycle,
		LectionaryID: entry.AdminOrder,
		Entry:        &entry,
		Type:         t,
		Method:       m,
		Score:        score,
	}
}

func (q *Query) none() Result {
	return Result{
		CalendarDate: q.Day.Date,
		CalendarName: q.Day.Name,
		Rank:         q.Day.Rank,
		Cycle:        q.Cycle,
		Type:         TypeNone,
	}
}

// Strategy is one step of the matching chain.
type Strategy interface {
	Name() string
	Apply(q *Query) (Result, bool)
}

// Matcher resolves days against a Lectionary table. It holds no per-call
// state and is safe for concurrent use.
type Matcher struct {
	rules      Rules
	strategies []Strategy
}

// New creates a Matcher with the standard strategy chain.
func New(rules Rules) *Matcher {
	return &Matcher{
		rules: rules,
		strategies: []Strategy{
			memorialRouting{},
			nameAlias{},
			dateMatch{},
			exactName{},
			scoredPartial{},
		},
	}
}

// Rules returns the tables the matcher was built with.
func (m *Matcher) Rules() Rules {
	return m.rules
}

// Strategies returns the chain in evaluation order.
func (m *Matcher) Strategies() []Strategy {
	return append([]Strategy(nil), m.strategies...)
}

// Match resolves one day. cycle is the Sunday (A/B/C) or weekday (1/2)
// cycle appropriate to the day's rank; see calendar.CycleFor. ctx may be nil.
//
// A Result of TypeNone is a normal outcome.
func (m *Matcher) Match(day calendar.Day, table *lectionary.Table, cycle string, ctx Context) Result {
	res, _ := m.Trace(day, table, cycle, ctx)
	return res
}

// Step records one strategy's outcome in a trace.
type Step struct {
	Strategy string `json:"strategy"`
	Matched  bool   `json:"matched"`
}

// Trace is Match, also reporting which strategies ran.
func (m *Matcher) Trace(day calendar.Day, table *lectionary.Table, cycle string, ctx Context) (Result, []Step) {
	q := newQuery(day, table, cycle, ctx, &m.rules)
	steps := make([]Step, 0, len(m.strategies))

	for _, s := range m.strategies {
		res, ok := s.Apply(q)
		steps = append(steps, Step{Strategy: s.Name(), Matched: ok})
		if ok {
			return res, steps
		}
	}
	return q.none(), steps
}
