package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// Errors returned by Generate.
var (
	ErrYearOutOfRange = errors.New("year out of supported range")
	ErrInvalidRange   = errors.New("invalid year range")
)

// Day is one date of the liturgical calendar.
type Day struct {
	Date   time.Time
	Year   int
	Season Season
	Week   int // 0 when the day carries no week number
	Name   string
	Rank   Rank
	Rule   string // naming rule that resolved the day; empty for imported days
}

// Weekday returns the day-of-week name.
func (d Day) Weekday() string {
	return DayName(d.Date)
}

// Record is the external row form of a Day.
type Record struct {
	CalendarDate string `json:"calendar_date"`
	Year         int    `json:"year"`
	Season       string `json:"liturgical_season"`
	Week         *int   `json:"liturgical_week"`
	DayOfWeek    string `json:"day_of_week"`
	Name         string `json:"liturgical_name"`
	Rank         string `json:"liturgical_rank"`
}

// Record converts the day to its row form.
func (d Day) Record() Record {
	r := Record{
		CalendarDate: FormatDate(d.Date),
		Year:         d.Year,
		Season:       string(d.Season),
		DayOfWeek:    d.Weekday(),
		Name:         d.Name,
		Rank:         string(d.Rank),
	}
	if d.Week > 0 {
		week := d.Week
		r.Week = &week
	}
	return r
}

// WeekLabel returns the week as text, or "" when absent.
func (d Day) WeekLabel() string {
	if d.Week <= 0 {
		return ""
	}
	return strconv.Itoa(d.Week)
}

// Day converts a row back to a Day. Malformed season, week or rank values
// are treated as absent; only an unparseable date is an error.
func (r Record) Day() (Day, error) {
	date, err := ParseDateString(r.CalendarDate)
	if err != nil {
		return Day{}, err
	}
	d := Day{Date: date, Year: r.Year, Name: r.Name}
	if d.Year == 0 {
		d.Year = date.Year()
	}
	if s, ok := ParseSeason(r.Season); ok {
		d.Season = s
	}
	if r.Week != nil && *r.Week > 0 {
		d.Week = *r.Week
	}
	if rank, ok := ParseRank(r.Rank); ok {
		d.Rank = rank
	}
	return d, nil
}

// Option configures a Generator.
type Option func(*Generator)

// WithFeasts sets the fixed-feast table consulted by the naming rules.
func WithFeasts(feasts FeastTable) Option {
	return func(g *Generator) {
		if feasts != nil {
			g.feasts = feasts
		}
	}
}

// WithSolemnityPolicy sets how a fixed solemnity on a Sunday is handled.
func WithSolemnityPolicy(p SolemnityPolicy) Option {
	return func(g *Generator) {
		if p.IsValid() {
			g.policy = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithWorkers bounds how many years are generated at once.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// Generator builds calendars. It is safe for concurrent use.
type Generator struct {
	feasts  FeastTable
	policy  SolemnityPolicy
	logger  *slog.Logger
	workers int
}

// NewGenerator creates a Generator with no fixed feasts and the
// PolicySolemnityWins policy unless configured otherwise.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		feasts:  FeastTable{},
		policy:  PolicySolemnityWins,
		logger:  slog.Default(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Policy returns the configured solemnity policy.
func (g *Generator) Policy() SolemnityPolicy {
	return g.policy
}

// Year generates every day of one civil year in date order.
//
// Seasons and weeks are assigned first from the anchors alone; names and
// ranks are resolved afterwards and never change the season.
func (g *Generator) Year(year int) []Day {
	anchors := NewAnchors(year)
	weeks := buildOrdinaryWeeks(anchors)

	start := date(year, time.January, 1)
	end := date(year+1, time.January, 1)
	days := make([]Day, 0, 366)

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		season := SeasonFor(d, anchors)
		days = append(days, Day{
			Date:   d,
			Year:   year,
			Season: season,
			Week:   weeks.week(d, season, anchors),
		})
	}

	for i := range days {
		ctx := &dayContext{
			date:    days[i].Date,
			season:  days[i].Season,
			week:    days[i].Week,
			anchors: &anchors,
			feasts:  g.feasts,
			policy:  g.policy,
		}
		days[i].Name, days[i].Rank, days[i].Rule = resolveName(ctx)
	}

	return days
}

// Generate builds the calendar for every year in [start, end]. Years are
// generated concurrently; the result is always in date order.
func (g *Generator) Generate(ctx context.Context, start, end int) (*Calendar, error) {
	if start > end {
		return nil, fmt.Errorf("%w: start %d after end %d", ErrInvalidRange, start, end)
	}
	for _, y := range []int{start, end} {
		if y < MinYear || y > MaxYear {
			return nil, fmt.Errorf("%w: %d (supported %d-%d)", ErrYearOutOfRange, y, MinYear, MaxYear)
		}
	}

	years := make([][]Day, end-start+1)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i := range years {
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			years[i] = g.Year(start + i)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("generate calendar: %w", err)
	}

	total := 0
	for _, y := range years {
		total += len(y)
	}
	days := make([]Day, 0, total)
	for _, y := range years {
		days = append(days, y...)
	}

	cal := NewCalendar(days)
	if conflicts := cal.SundaySolemnities(); len(conflicts) > 0 {
		g.logger.Info("fixed solemnities falling on Sundays",
			slog.String("policy", string(g.policy)),
			slog.Int("count", len(conflicts)),
		)
	}
	g.logger.Debug("calendar generated",
		slog.Int("start", start),
		slog.Int("end", end),
		slog.Int("days", len(days)),
	)

	return cal, nil
}

// Calendar is an ordered run of days with lookup by date.
type Calendar struct {
	days  []Day
	index map[int64]int
}

// NewCalendar indexes days by date. Days are expected in date order; if a
// date repeats, lookups return the first occurrence.
func NewCalendar(days []Day) *Calendar {
	c := &Calendar{
		days:  days,
		index: make(map[int64]int, len(days)),
	}
	for i, d := range days {
		key := dayKey(d.Date)
		if _, dup := c.index[key]; !dup {
			c.index[key] = i
		}
	}
	return c
}

// Days returns the days in order. Callers must not modify the slice.
func (c *Calendar) Days() []Day {
	if c == nil {
		return nil
	}
	return c.days
}

// Len returns the number of days.
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.days)
}

// Lookup returns the day for a date.
func (c *Calendar) Lookup(t time.Time) (Day, bool) {
	if c == nil {
		return Day{}, false
	}
	i, ok := c.index[dayKey(t)]
	if !ok {
		return Day{}, false
	}
	return c.days[i], true
}

// Range returns the days between start and end inclusive.
func (c *Calendar) Range(start, end time.Time) []Day {
	var out []Day
	for _, d := range c.Days() {
		if d.Date.Before(Truncate(start)) || d.Date.After(Truncate(end)) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// SundaySolemnities returns the days where a fixed-date solemnity fell on a
// Sunday and was kept.
func (c *Calendar) SundaySolemnities() []Day {
	var out []Day
	for _, d := range c.Days() {
		if d.Rule == RuleFixedSolemnity && d.Date.Weekday() == time.Sunday {
			out = append(out, d)
		}
	}
	return out
}
