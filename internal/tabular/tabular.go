// Package tabular reads and writes the CSV files exchanged with the outside
// world: the Lectionary, generated calendars, Ordo exports and mappings.
//
// Readers locate columns by header name, so column order and extra columns
// do not matter. A UTF-8 byte order mark on the header is ignored.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
	"github.com/zapponejosh/ordo-lectionary/internal/ordo"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

// Column headers.
var (
	LectionaryColumns = []string{
		"Admin Order", "Year", "Week", "Day", "Time", "Liturgical Day",
		"First Reading", "Psalm", "Second Reading", "Gospel Reading",
	}
	CalendarColumns = []string{
		"calendar_date", "year", "liturgical_season", "liturgical_week",
		"day_of_week", "liturgical_name", "liturgical_rank",
	}
)

const bom = "\ufeff"

type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	rec, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	h := make(header, len(rec))
	for i, name := range rec {
		if i == 0 {
			name = strings.TrimPrefix(name, bom)
		}
		h[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := h[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return h, nil
}

// get returns the trimmed value of the first present column among names.
func (h header) get(rec []string, names ...string) string {
	for _, name := range names {
		if i, ok := h[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
	}
	return ""
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadLectionary reads Lectionary rows in file order.
func ReadLectionary(r io.Reader) ([]lectionary.Entry, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "Admin Order", "Year", "Liturgical Day")
	if err != nil {
		return nil, err
	}

	var entries []lectionary.Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read lectionary row %d: %w", len(entries)+2, err)
		}
		entries = append(entries, lectionary.Entry{
			AdminOrder:    h.get(rec, "Admin Order"),
			YearCycle:     h.get(rec, "Year"),
			Week:          h.get(rec, "Week"),
			DayType:       h.get(rec, "Day"),
			Time:          h.get(rec, "Time"),
			LiturgicalDay: h.get(rec, "Liturgical Day"),
			FirstReading:  h.get(rec, "First Reading"),
			Psalm:         h.get(rec, "Psalm"),
			SecondReading: h.get(rec, "Second Reading"),
			Gospel:        h.get(rec, "Gospel Reading", "Gospel"),
		})
	}
	return entries, nil
}

// WriteLectionary writes entries with a header.
func WriteLectionary(w io.Writer, entries []lectionary.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LectionaryColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		rec := []string{
			e.AdminOrder, e.YearCycle, e.Week, e.DayType, e.Time, e.LiturgicalDay,
			e.FirstReading, e.Psalm, e.SecondReading, e.Gospel,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write entry %s: %w", e.AdminOrder, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCalendar reads calendar rows. Rows with an unreadable date are
// skipped; malformed season, week or rank values are treated as absent.
func ReadCalendar(r io.Reader, logger *slog.Logger) ([]calendar.Day, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cr := newReader(r)
	h, err := readHeader(cr, "calendar_date", "liturgical_name")
	if err != nil {
		return nil, err
	}

	var days []calendar.Day
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read calendar row %d: %w", line, err)
		}

		record := calendar.Record{
			CalendarDate: h.get(rec, "calendar_date"),
			Season:       h.get(rec, "liturgical_season"),
			DayOfWeek:    h.get(rec, "day_of_week"),
			Name:         h.get(rec, "liturgical_name"),
			Rank:         h.get(rec, "liturgical_rank"),
		}
		if y, err := strconv.Atoi(h.get(rec, "year")); err == nil {
			record.Year = y
		}
		if raw := h.get(rec, "liturgical_week"); raw != "" {
			if w, err := strconv.Atoi(raw); err == nil {
				record.Week = &w
			} else {
				logger.Debug("ignoring non-numeric week", slog.Int("line", line), slog.String("week", raw))
			}
		}

		day, err := record.Day()
		if err != nil {
			logger.Debug("skipping calendar row", slog.Int("line", line), slog.String("error", err.Error()))
			continue
		}
		days = append(days, day)
	}
	return days, nil
}

// WriteCalendar writes days with a header. Absent weeks are written blank.
func WriteCalendar(w io.Writer, days []calendar.Day) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CalendarColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, d := range days {
		rec := d.Record()
		week := ""
		if rec.Week != nil {
			week = strconv.Itoa(*rec.Week)
		}
		row := []string{
			rec.CalendarDate, strconv.Itoa(rec.Year), rec.Season, week,
			rec.DayOfWeek, rec.Name, rec.Rank,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write day %s: %w", rec.CalendarDate, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMapping reads a mapping file.
func ReadMapping(r io.Reader) ([]mapping.Row, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "calendar_date")
	if err != nil {
		return nil, err
	}

	var rows []mapping.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read mapping row %d: %w", len(rows)+2, err)
		}
		score, _ := strconv.Atoi(h.get(rec, "score"))
		rows = append(rows, mapping.Row{
			CalendarDate:   h.get(rec, "calendar_date"),
			OrdoName:       h.get(rec, "ordo_name"),
			OrdoRank:       h.get(rec, "ordo_rank"),
			LectionaryID:   h.get(rec, "lectionary_id"),
			LectionaryName: h.get(rec, "lectionary_name"),
			MatchType:      h.get(rec, "match_type"),
			MatchMethod:    h.get(rec, "match_method"),
			Score:          score,
			FirstReading:   h.get(rec, "first_reading"),
			Psalm:          h.get(rec, "psalm"),
			SecondReading:  h.get(rec, "second_reading"),
			Gospel:         h.get(rec, "gospel"),
		})
	}
	return rows, nil
}

// WriteMapping writes mapping rows with a header.
func WriteMapping(w io.Writer, rows []mapping.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(mapping.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Fields()); err != nil {
			return fmt.Errorf("write mapping %s: %w", row.CalendarDate, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadOrdo reads a headerless two-column Ordo export. Lines with fewer than
// two fields are skipped.
func ReadOrdo(r io.Reader) ([]ordo.Row, error) {
	cr := newReader(r)
	var rows []ordo.Row
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ordo line %d: %w", line, err)
		}
		if len(rec) < 2 {
			continue
		}
		date := rec[0]
		if line == 1 {
			date = strings.TrimPrefix(date, bom)
		}
		rows = append(rows, ordo.Row{Date: date, Description: rec[1]})
	}
	return rows, nil
}

// LoadLectionary reads a Lectionary file from disk.
func LoadLectionary(path string) ([]lectionary.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lectionary: %w", err)
	}
	defer f.Close()

	entries, err := ReadLectionary(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

// LoadMapping reads a mapping file from disk.
func LoadMapping(path string) ([]mapping.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping: %w", err)
	}
	defer f.Close()

	rows, err := ReadMapping(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// LoadOrdo reads an Ordo export from disk.
func LoadOrdo(path string) ([]ordo.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ordo: %w", err)
	}
	defer f.Close()

	rows, err := ReadOrdo(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Create opens path for writing, or returns stdout for "-" or "".
func Create(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
