package mapping

import (
	"sort"

	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
)

// DiffKind classifies a baseline difference.
type DiffKind string

const (
	DiffAdded   DiffKind = "added"
	DiffRemoved DiffKind = "removed"
	DiffChanged DiffKind = "changed"
)

// Change is one field that differs between baseline and current.
type Change struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Difference is one date whose mapping differs from the baseline.
type Difference struct {
	Date     string   `json:"date"`
	Kind     DiffKind `json:"kind"`
	OrdoName string   `json:"ordo_name"`
	Changes  []Change `json:"changes,omitempty"`
}

// Compare reports dates added, removed or changed relative to baseline, in
// date order. Only the lectionary id and name and the match type and
// method are compared; readings and scores may drift freely.
func Compare(baseline, current []Row) []Difference {
	before := indexRows(baseline)
	after := indexRows(current)

	dates := make([]string, 0, len(before)+len(after))
	for d := range before {
		dates = append(dates, d)
	}
	for d := range after {
		if _, ok := before[d]; !ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	var diffs []Difference
	for _, date := range dates {
		b, inBefore := before[date]
		c, inAfter := after[date]
		switch {
		case !inBefore:
			diffs = append(diffs, Difference{Date: date, Kind: DiffAdded, OrdoName: c.OrdoName})
		case !inAfter:
			diffs = append(diffs, Difference{Date: date, Kind: DiffRemoved, OrdoName: b.OrdoName})
		default:
			if changes := compareRow(b, c); len(changes) > 0 {
				diffs = append(diffs, Difference{Date: date, Kind: DiffChanged, OrdoName: c.OrdoName, Changes: changes})
			}
		}
	}
	return diffs
}

func indexRows(rows []Row) map[string]Row {
	m := make(map[string]Row, len(rows))
	for _, r := range rows {
		m[r.CalendarDate] = r
	}
	return m
}

func compareRow(b, c Row) []Change {
	fields := []struct {
		name          string
		before, after string
	}{
		{"lectionary_id", b.LectionaryID, c.LectionaryID},
		{"lectionary_name", b.LectionaryName, c.LectionaryName},
		{"match_type", b.MatchType, c.MatchType},
		{"match_method", b.MatchMethod, c.MatchMethod},
	}

	var changes []Change
	for _, f := range fields {
		if f.before != f.after {
			changes = append(changes, Change{Field: f.name, Before: f.before, After: f.after})
		}
	}
	return changes
}

// CoverageGroup lists unused entries sharing a Time label.
type CoverageGroup struct {
	Time    string             `json:"time"`
	Entries []lectionary.Entry `json:"entries"`
}

// Coverage lists the entries of table that no result points at, grouped by
// Time in alphabetical order. Entries keep their table order within a group.
func Coverage(table *lectionary.Table, results []match.Result) []CoverageGroup {
	used := make(map[string]struct{}, len(results))
	for _, r := range results {
		if r.LectionaryID != "" {
			used[r.LectionaryID] = struct{}{}
		}
	}

	byTime := make(map[string][]lectionary.Entry)
	for _, e := range table.Entries() {
		if _, ok := used[e.AdminOrder]; ok {
			continue
		}
		byTime[e.Time] = append(byTime[e.Time], e.Entry)
	}

	groups := make([]CoverageGroup, 0, len(byTime))
	for t, entries := range byTime {
		groups = append(groups, CoverageGroup{Time: t, Entries: entries})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Time < groups[j].Time })
	return groups
}
