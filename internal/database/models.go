package database

import (
	"time"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
)

// MappingRun is the stored summary of one mapping run.
type MappingRun struct {
	ID         string    `json:"id"` // UUID, assigned on save when empty
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Total      int       `json:"total"`
	Exact      int       `json:"exact"`
	Partial    int       `json:"partial"`
	None       int       `json:"none"`
	Flags      int       `json:"flags"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Coverage is the matched share in percent.
func (r MappingRun) Coverage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Exact+r.Partial) * 100 / float64(r.Total)
}

// NewMappingRun summarizes a report for the dates start..end.
func NewMappingRun(start, end time.Time, report *mapping.Report) *MappingRun {
	return &MappingRun{
		StartDate:  calendar.FormatDate(start),
		EndDate:    calendar.FormatDate(end),
		Total:      report.Stats.Total,
		Exact:      report.Stats.Exact,
		Partial:    report.Stats.Partial,
		None:       report.Stats.None,
		Flags:      len(report.Flags),
		DurationMS: report.Duration.Milliseconds(),
	}
}

// timestampLayout is how timestamps written by this package are stored.
const timestampLayout = time.RFC3339Nano

// parseTimestamp reads a stored timestamp, accepting SQLite's datetime()
// format as well. It returns the zero time when neither parses.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
