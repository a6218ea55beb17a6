package mapping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
)

// Resolution is everything known about one date.
type Resolution struct {
	Day   calendar.Day
	Cycle string
	Match match.Result
	Trace []match.Step
}

// CalendarObserver is told about every year the Resolver generates.
// *metrics.Manager implements it.
type CalendarObserver interface {
	ObserveCalendar(days, sundaySolemnities int)
}

// Resolver answers single-date questions. Generated years are cached; the
// Lectionary table can be swapped at runtime.
type Resolver struct {
	gen      *calendar.Generator
	matcher  *match.Matcher
	observer CalendarObserver

	mu    sync.RWMutex
	table *lectionary.Table
	years map[int]*calendar.Calendar
}

// NewResolver creates a Resolver.
func NewResolver(gen *calendar.Generator, m *match.Matcher, table *lectionary.Table) *Resolver {
	return &Resolver{
		gen:     gen,
		matcher: m,
		table:   table,
		years:   make(map[int]*calendar.Calendar),
	}
}

// Observe reports every newly generated year to o.
func (r *Resolver) Observe(o CalendarObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = o
}

// Table returns the current Lectionary table.
func (r *Resolver) Table() *lectionary.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// SetTable replaces the Lectionary table.
func (r *Resolver) SetTable(t *lectionary.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = t
}

// Year returns the generated calendar for a civil year.
func (r *Resolver) Year(ctx context.Context, year int) (*calendar.Calendar, error) {
	r.mu.RLock()
	cal, ok := r.years[year]
	r.mu.RUnlock()
	if ok {
		return cal, nil
	}

	cal, err := r.gen.Generate(ctx, year, year)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	cached, hit := r.years[year]
	if hit {
		cal = cached
	} else {
		r.years[year] = cal
	}
	observer := r.observer
	r.mu.Unlock()

	if !hit && observer != nil {
		observer.ObserveCalendar(cal.Len(), len(cal.SundaySolemnities()))
	}
	return cal, nil
}

// Range returns the generated days between start and end inclusive.
func (r *Resolver) Range(ctx context.Context, start, end time.Time) ([]calendar.Day, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s after %s", calendar.ErrInvalidRange, calendar.FormatDate(start), calendar.FormatDate(end))
	}
	var days []calendar.Day
	for y := start.Year(); y <= end.Year(); y++ {
		cal, err := r.Year(ctx, y)
		if err != nil {
			return nil, err
		}
		days = append(days, cal.Range(start, end)...)
	}
	return days, nil
}

// Resolve builds and matches the day for date.
func (r *Resolver) Resolve(ctx context.Context, date time.Time) (*Resolution, error) {
	date = calendar.Truncate(date)
	cal, err := r.Year(ctx, date.Year())
	if err != nil {
		return nil, err
	}
	day, ok := cal.Lookup(date)
	if !ok {
		return nil, errors.New("date missing from generated calendar")
	}

	cycle := calendar.CycleFor(day)
	res, steps := r.matcher.Trace(day, r.Table(), cycle, cal)
	return &Resolution{Day: day, Cycle: cycle, Match: res, Trace: steps}, nil
}
