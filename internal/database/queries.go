package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
)

// =============================================================================
// Lectionary Queries
// =============================================================================

// ReplaceLectionary swaps the stored Lectionary for entries, keeping their
// order.
func (db *DB) ReplaceLectionary(ctx context.Context, entries []lectionary.Entry) error {
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM lectionary_entries"); err != nil {
			return fmt.Errorf("clear lectionary: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO lectionary_entries (
				position, admin_order, year_cycle, week, day_type, time_label,
				liturgical_day, first_reading, psalm, second_reading, gospel
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare lectionary insert: %w", err)
		}
		defer stmt.Close()

		for i, e := range entries {
			_, err := stmt.ExecContext(ctx,
				i+1, e.AdminOrder, e.YearCycle, e.Week, e.DayType, e.Time,
				e.LiturgicalDay, e.FirstReading, e.Psalm, e.SecondReading, e.Gospel,
			)
			if err != nil {
				return fmt.Errorf("insert lectionary entry %s: %w", e.AdminOrder, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.logger.Info("lectionary replaced", "entries", len(entries))
	return nil
}

// ListLectionary returns the stored Lectionary in file order.
func (db *DB) ListLectionary(ctx context.Context) ([]lectionary.Entry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT admin_order, year_cycle, week, day_type, time_label,
		       liturgical_day, first_reading, psalm, second_reading, gospel
		FROM lectionary_entries
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query lectionary: %w", err)
	}
	defer rows.Close()

	var entries []lectionary.Entry
	for rows.Next() {
		var e lectionary.Entry
		if err := rows.Scan(
			&e.AdminOrder, &e.YearCycle, &e.Week, &e.DayType, &e.Time,
			&e.LiturgicalDay, &e.FirstReading, &e.Psalm, &e.SecondReading, &e.Gospel,
		); err != nil {
			return nil, fmt.Errorf("scan lectionary entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lectionary: %w", err)
	}
	return entries, nil
}

// CountLectionary returns the number of stored entries.
func (db *DB) CountLectionary(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lectionary_entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count lectionary: %w", err)
	}
	return n, nil
}

// =============================================================================
// Calendar Queries
// =============================================================================

// UpsertCalendarDays inserts days, replacing any stored day with the same
// date.
func (db *DB) UpsertCalendarDays(ctx context.Context, days []calendar.Day) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO liturgical_calendar (
				calendar_date, year, liturgical_season, liturgical_week,
				day_of_week, liturgical_name, liturgical_rank, rule
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(calendar_date) DO UPDATE SET
				year = excluded.year,
				liturgical_season = excluded.liturgical_season,
				liturgical_week = excluded.liturgical_week,
				day_of_week = excluded.day_of_week,
				liturgical_name = excluded.liturgical_name,
				liturgical_rank = excluded.liturgical_rank,
				rule = excluded.rule,
				updated_at = datetime('now')
		`)
		if err != nil {
			return fmt.Errorf("prepare calendar upsert: %w", err)
		}
		defer stmt.Close()

		for _, d := range days {
			rec := d.Record()
			var week sql.NullInt64
			if rec.Week != nil {
				week = sql.NullInt64{Int64: int64(*rec.Week), Valid: true}
			}
			_, err := stmt.ExecContext(ctx,
				rec.CalendarDate, rec.Year, rec.Season, week,
				rec.DayOfWeek, rec.Name, rec.Rank, d.Rule,
			)
			if err != nil {
				return fmt.Errorf("upsert calendar day %s: %w", rec.CalendarDate, err)
			}
		}
		return nil
	})
}

const calendarColumns = `
	calendar_date, year, liturgical_season, liturgical_week,
	day_of_week, liturgical_name, liturgical_rank, rule
`

type scanner interface {
	Scan(dest ...any) error
}

func scanCalendarDay(s scanner) (calendar.Day, error) {
	var (
		rec  calendar.Record
		week sql.NullInt64
		rule string
	)
	if err := s.Scan(
		&rec.CalendarDate, &rec.Year, &rec.Season, &week,
		&rec.DayOfWeek, &rec.Name, &rec.Rank, &rule,
	); err != nil {
		return calendar.Day{}, err
	}
	if week.Valid {
		w := int(week.Int64)
		rec.Week = &w
	}

	day, err := rec.Day()
	if err != nil {
		return calendar.Day{}, fmt.Errorf("stored day: %w", err)
	}
	day.Rule = rule
	return day, nil
}

// GetCalendarDay returns the stored day for date.
// Returns ErrNotFound if the date is not stored.
func (db *DB) GetCalendarDay(ctx context.Context, date time.Time) (calendar.Day, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+calendarColumns+" FROM liturgical_calendar WHERE calendar_date = ?",
		calendar.FormatDate(date),
	)
	day, err := scanCalendarDay(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return calendar.Day{}, ErrNotFound
		}
		return calendar.Day{}, fmt.Errorf("query calendar day: %w", err)
	}
	return day, nil
}

// ListCalendarRange returns stored days between start and end inclusive,
// in date order.
func (db *DB) ListCalendarRange(ctx context.Context, start, end time.Time) ([]calendar.Day, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+calendarColumns+` FROM liturgical_calendar
		WHERE calendar_date >= ? AND calendar_date <= ?
		ORDER BY calendar_date ASC`,
		calendar.FormatDate(start), calendar.FormatDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("query calendar range: %w", err)
	}
	defer rows.Close()

	var days []calendar.Day
	for rows.Next() {
		day, err := scanCalendarDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar range: %w", err)
	}
	return days, nil
}

// =============================================================================
// Mapping Queries
// =============================================================================

// SaveMappingRun stores a run and its rows. An empty run ID is replaced
// with a new UUID and a zero CreatedAt with the current time.
func (db *DB) SaveMappingRun(ctx context.Context, run *MappingRun, rows []mapping.Row) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO mapping_runs (
				id, start_date, end_date, total, exact, partial, unmatched,
				flags, duration_ms, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID, run.StartDate, run.EndDate, run.Total, run.Exact, run.Partial, run.None,
			run.Flags, run.DurationMS, run.CreatedAt.Format(timestampLayout),
		)
		if err != nil {
			return fmt.Errorf("insert mapping run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO mapping_results (
				run_id, calendar_date, ordo_name, ordo_rank, lectionary_id, lectionary_name,
				match_type, match_method, score, first_reading, psalm, second_reading, gospel
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare mapping result insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				run.ID, r.CalendarDate, r.OrdoName, r.OrdoRank, r.LectionaryID, r.LectionaryName,
				r.MatchType, r.MatchMethod, r.Score, r.FirstReading, r.Psalm, r.SecondReading, r.Gospel,
			)
			if err != nil {
				return fmt.Errorf("insert mapping result %s: %w", r.CalendarDate, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.logger.Info("mapping run saved",
		"run_id", run.ID,
		"rows", len(rows),
	)
	return nil
}

// LatestMappingRun returns the most recently created run.
// Returns ErrNotFound if no run has been stored.
func (db *DB) LatestMappingRun(ctx context.Context) (*MappingRun, error) {
	var (
		run     MappingRun
		created string
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, start_date, end_date, total, exact, partial, unmatched,
		       flags, duration_ms, created_at
		FROM mapping_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`).Scan(
		&run.ID, &run.StartDate, &run.EndDate, &run.Total, &run.Exact, &run.Partial, &run.None,
		&run.Flags, &run.DurationMS, &created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query latest mapping run: %w", err)
	}
	run.CreatedAt = parseTimestamp(created)
	return &run, nil
}

// ListMappingResults returns the rows of a run in date order.
func (db *DB) ListMappingResults(ctx context.Context, runID string) ([]mapping.Row, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT calendar_date, ordo_name, ordo_rank, lectionary_id, lectionary_name,
		       match_type, match_method, score, first_reading, psalm, second_reading, gospel
		FROM mapping_results
		WHERE run_id = ?
		ORDER BY calendar_date ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query mapping results: %w", err)
	}
	defer rows.Close()

	var out []mapping.Row
	for rows.Next() {
		var r mapping.Row
		if err := rows.Scan(
			&r.CalendarDate, &r.OrdoName, &r.OrdoRank, &r.LectionaryID, &r.LectionaryName,
			&r.MatchType, &r.MatchMethod, &r.Score, &r.FirstReading, &r.Psalm, &r.SecondReading, &r.Gospel,
		); err != nil {
			return nil, fmt.Errorf("scan mapping result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mapping results: %w", err)
	}
	return out, nil
}
