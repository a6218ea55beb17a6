package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
)

// Recorder receives run measurements. *metrics.Manager implements it.
type Recorder interface {
	ObserveMatch(t match.Type, m match.Method)
	ObserveRun(duration time.Duration, total, matched int)
}

// Stats counts outcomes of a run.
type Stats struct {
	Total    int                  `json:"total"`
	Exact    int                  `json:"exact"`
	Partial  int                  `json:"partial"`
	None     int                  `json:"none"`
	ByMethod map[match.Method]int `json:"by_method"`
}

// Matched is the number of days with an entry.
func (s Stats) Matched() int {
	return s.Exact + s.Partial
}

// Coverage is the matched share in percent.
func (s Stats) Coverage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched()) * 100 / float64(s.Total)
}

func (s *Stats) add(r match.Result) {
	s.Total++
	switch r.Type {
	case match.TypeExact:
		s.Exact++
	case match.TypePartial:
		s.Partial++
	default:
		s.None++
	}
	if r.Method != "" {
		if s.ByMethod == nil {
			s.ByMethod = make(map[match.Method]int)
		}
		s.ByMethod[r.Method]++
	}
}

// Flag marks a result that is probably wrong.
type Flag struct {
	Date           string       `json:"date"`
	Issue          string       `json:"issue"`
	OrdoName       string       `json:"ordo_name"`
	LectionaryName string       `json:"lectionary_name"`
	Method         match.Method `json:"method"`
}

const (
	IssueNameMismatch = "solemnity or feast matched by date with mismatched names"
	IssueMoveableDate = "moveable feast matched by date instead of name"
)

// Report is the outcome of a run. Results are in date order.
type Report struct {
	Results  []match.Result `json:"results"`
	Stats    Stats          `json:"stats"`
	Flags    []Flag         `json:"flags"`
	Duration time.Duration  `json:"duration"`
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithWorkers bounds how many days are matched at once.
func WithWorkers(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRecorder records metrics for every run.
func WithRecorder(r Recorder) DriverOption {
	return func(d *Driver) {
		d.recorder = r
	}
}

// Driver matches whole calendars.
type Driver struct {
	matcher  *match.Matcher
	workers  int
	logger   *slog.Logger
	recorder Recorder
}

// NewDriver creates a Driver around m.
func NewDriver(m *match.Matcher, opts ...DriverOption) *Driver {
	d := &Driver{
		matcher: m,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run matches every day of cal against table. The calendar also serves as
// neighbour context for memorials that lack a season or week.
func (d *Driver) Run(ctx context.Context, cal *calendar.Calendar, table *lectionary.Table) (*Report, error) {
	started := time.Now()
	days := cal.Days()
	results := make([]match.Result, len(days))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(d.workers)
	for i := range days {
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			day := days[i]
			results[i] = d.matcher.Match(day, table, calendar.CycleFor(day), cal)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("match calendar: %w", err)
	}

	report := &Report{Results: results}
	for _, r := range results {
		report.Stats.add(r)
		if d.recorder != nil {
			d.recorder.ObserveMatch(r.Type, r.Method)
		}
	}
	report.Flags = Flags(results, d.matcher.Rules().MoveableKeywords)
	report.Duration = time.Since(started)

	if d.recorder != nil {
		d.recorder.ObserveRun(report.Duration, report.Stats.Total, report.Stats.Matched())
	}

	d.logger.Info("mapping complete",
		slog.Int("days", report.Stats.Total),
		slog.Int("exact", report.Stats.Exact),
		slog.Int("partial", report.Stats.Partial),
		slog.Int("none", report.Stats.None),
		slog.Int("flags", len(report.Flags)),
		slog.String("coverage", fmt.Sprintf("%.1f%%", report.Stats.Coverage())),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

var flagStopwords = map[string]struct{}{
	"the": {}, "of": {}, "and": {}, "in": {}, "saint": {}, "st": {},
	"a": {}, "an": {}, "–": {}, "-": {},
}

// Flags finds results that deserve a second look. They never change the
// results themselves.
func Flags(results []match.Result, moveableKeywords []string) []Flag {
	var flags []Flag
	for _, r := range results {
		if r.Method != match.MethodDate {
			continue
		}
		lowerName := strings.ToLower(r.CalendarName)

		if r.Rank == calendar.RankSolemnity || r.Rank == calendar.RankFeast {
			if significantOverlap(lowerName, strings.ToLower(r.LectionaryName())) < 2 {
				flags = append(flags, newFlag(r, IssueNameMismatch))
			}
		}

		for _, k := range moveableKeywords {
			if strings.Contains(lowerName, strings.ToLower(k)) {
				flags = append(flags, newFlag(r, IssueMoveableDate))
				break
			}
		}
	}
	return flags
}

func newFlag(r match.Result, issue string) Flag {
	return Flag{
		Date:           calendar.FormatDate(r.CalendarDate),
		Issue:          issue,
		OrdoName:       r.CalendarName,
		LectionaryName: r.LectionaryName(),
		Method:         r.Method,
	}
}

func significantOverlap(a, b string) int {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		if _, stop := flagStopwords[w]; !stop {
			words[w] = struct{}{}
		}
	}
	n := 0
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(b) {
		if _, stop := flagStopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := words[w]; ok {
			n++
		}
	}
	return n
}
