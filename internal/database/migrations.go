package database

// migrationsSQL contains all database migrations, applied in order by
// version number.
var migrationsSQL = map[int]string{
	1: migrationV1Lectionary,
	2: migrationV2Calendar,
	3: migrationV3MappingRuns,
}

// migrationV1Lectionary stores the Lectionary table. position keeps file
// order, which the matcher depends on for tie-breaking.
const migrationV1Lectionary = `
CREATE TABLE IF NOT EXISTS lectionary_entries (
    position INTEGER PRIMARY KEY,
    admin_order TEXT NOT NULL,
    year_cycle TEXT NOT NULL DEFAULT '',
    week TEXT NOT NULL DEFAULT '',
    day_type TEXT NOT NULL DEFAULT '',
    time_label TEXT NOT NULL DEFAULT '',
    liturgical_day TEXT NOT NULL,
    first_reading TEXT NOT NULL DEFAULT '',
    psalm TEXT NOT NULL DEFAULT '',
    second_reading TEXT NOT NULL DEFAULT '',
    gospel TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_lectionary_entries_admin_order
    ON lectionary_entries(admin_order);
`

// migrationV2Calendar stores generated or imported calendar days, one row
// per date. liturgical_week is NULL when the day has no week.
const migrationV2Calendar = `
CREATE TABLE IF NOT EXISTS liturgical_calendar (
    calendar_date TEXT PRIMARY KEY,
    year INTEGER NOT NULL,
    liturgical_season TEXT NOT NULL DEFAULT '',
    liturgical_week INTEGER,
    day_of_week TEXT NOT NULL,
    liturgical_name TEXT NOT NULL,
    liturgical_rank TEXT NOT NULL DEFAULT '',
    rule TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_liturgical_calendar_year
    ON liturgical_calendar(year);
`

// migrationV3MappingRuns records mapping runs and their per-day results.
const migrationV3MappingRuns = `
CREATE TABLE IF NOT EXISTS mapping_runs (
    id TEXT PRIMARY KEY,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    total INTEGER NOT NULL,
    exact INTEGER NOT NULL,
    partial INTEGER NOT NULL,
    unmatched INTEGER NOT NULL,
    flags INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mapping_runs_created
    ON mapping_runs(created_at);

CREATE TABLE IF NOT EXISTS mapping_results (
    run_id TEXT NOT NULL,
    calendar_date TEXT NOT NULL,
    ordo_name TEXT NOT NULL,
    ordo_rank TEXT NOT NULL DEFAULT '',
    lectionary_id TEXT NOT NULL DEFAULT '',
    lectionary_name TEXT NOT NULL DEFAULT '',
    match_type TEXT NOT NULL CHECK (match_type IN ('exact', 'partial', 'none')),
    match_method TEXT NOT NULL DEFAULT '',
    score INTEGER NOT NULL DEFAULT 0,
    first_reading TEXT NOT NULL DEFAULT '',
    psalm TEXT NOT NULL DEFAULT '',
    second_reading TEXT NOT NULL DEFAULT '',
    gospel TEXT NOT NULL DEFAULT '',

    PRIMARY KEY (run_id, calendar_date),
    FOREIGN KEY (run_id) REFERENCES mapping_runs(id) ON DELETE CASCADE
);
`
