package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/ordo-lectionary/internal/calendar"
	"github.com/zapponejosh/ordo-lectionary/internal/config"
	"github.com/zapponejosh/ordo-lectionary/internal/database"
	"github.com/zapponejosh/ordo-lectionary/internal/ics"
	"github.com/zapponejosh/ordo-lectionary/internal/lectionary"
	"github.com/zapponejosh/ordo-lectionary/internal/logger"
	"github.com/zapponejosh/ordo-lectionary/internal/mapping"
	"github.com/zapponejosh/ordo-lectionary/internal/match"
	"github.com/zapponejosh/ordo-lectionary/internal/metrics"
)

// MaxRangeDays is the longest span GET /api/v1/calendar serves.
const MaxRangeDays = 366

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	resolver *mapping.Resolver
	driver   *mapping.Driver
	cfg      *config.Config
	metrics  *metrics.Manager
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, resolver *mapping.Resolver, driver *mapping.Driver, cfg *config.Config, m *metrics.Manager, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:       db,
		resolver: resolver,
		driver:   driver,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// DayResponse is one calendar day with the cycle its readings follow.
type DayResponse struct {
	calendar.Record
	Cycle string `json:"cycle"`
}

func dayResponse(d calendar.Day) DayResponse {
	return DayResponse{Record: d.Record(), Cycle: calendar.CycleFor(d)}
}

// MatchResponse describes how a day was matched.
type MatchResponse struct {
	Type           match.Type   `json:"match_type"`
	Method         match.Method `json:"match_method,omitempty"`
	Score          int          `json:"score"`
	LectionaryID   string       `json:"lectionary_id,omitempty"`
	LectionaryName string       `json:"lectionary_name,omitempty"`
}

// Readings are the scripture references of a matched entry.
type Readings struct {
	FirstReading  string `json:"first_reading"`
	Psalm         string `json:"psalm"`
	SecondReading string `json:"second_reading,omitempty"`
	Gospel        string `json:"gospel"`
}

// ReadingsResponse is the body of GET /api/v1/readings/{date}.
type ReadingsResponse struct {
	Day      DayResponse   `json:"day"`
	Match    MatchResponse `json:"match"`
	Readings *Readings     `json:"readings,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.log(r.Context()).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnavailable)
		return
	}

	WriteSuccess(w, map[string]any{
		"status":             "healthy",
		"lectionary_entries": h.resolver.Table().Len(),
	})
}

// GetCalendarDay handles GET /api/v1/calendar/{date}
func (h *Handlers) GetCalendarDay(w http.ResponseWriter, r *http.Request) {
	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	cal, err := h.resolver.Year(r.Context(), date.Year())
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}

	day, found := cal.Lookup(date)
	if !found {
		WriteNotFound(w, fmt.Sprintf("No calendar day for %s", calendar.FormatDate(date)))
		return
	}

	WriteSuccess(w, dayResponse(day))
}

// GetCalendarRange handles GET /api/v1/calendar?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetCalendarRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	start, err := calendar.ParseDateString(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}

	end, err := calendar.ParseDateString(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}

	if start.After(end) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", MaxRangeDays))
		return
	}

	days, err := h.resolver.Range(r.Context(), start, end)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}

	out := make([]DayResponse, len(days))
	for i, d := range days {
		out[i] = dayResponse(d)
	}
	WriteSuccess(w, out)
}

// GetCalendarICS handles GET /api/v1/calendar/year/{year}.ics
func (h *Handlers) GetCalendarICS(w http.ResponseWriter, r *http.Request) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return
	}

	ctx := r.Context()
	cal, err := h.resolver.Year(ctx, year)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}

	report, err := h.driver.Run(ctx, cal, h.resolver.Table())
	if err != nil {
		h.log(ctx).Error("failed to map calendar for export",
			slog.Int("year", year),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to build calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ordo-%d.ics"`, year))
	name := fmt.Sprintf("Liturgical Calendar %d", year)
	if err := ics.Write(w, name, ics.Entries(cal.Days(), report.Results), time.Now()); err != nil {
		h.log(ctx).Error("failed to write calendar export", slog.Any("error", err))
	}
}

// GetReadings handles GET /api/v1/readings/{date}
func (h *Handlers) GetReadings(w http.ResponseWriter, r *http.Request) {
	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	res, err := h.resolver.Resolve(r.Context(), date)
	if err != nil {
		h.writeCalendarError(w, r, err)
		return
	}

	out := ReadingsResponse{
		Day: dayResponse(res.Day),
		Match: MatchResponse{
			Type:           res.Match.Type,
			Method:         res.Match.Method,
			Score:          res.Match.Score,
			LectionaryID:   res.Match.LectionaryID,
			LectionaryName: res.Match.LectionaryName(),
		},
	}
	if e := res.Match.Entry; e != nil {
		out.Readings = &Readings{
			FirstReading:  e.FirstReading,
			Psalm:         e.Psalm,
			SecondReading: e.SecondReading,
			Gospel:        e.Gospel,
		}
	}

	WriteSuccess(w, out)
}

// GetLatestMapping handles GET /api/v1/mapping/latest
func (h *Handlers) GetLatestMapping(w http.ResponseWriter, r *http.Request) {
	run, err := h.db.LatestMappingRun(r.Context())
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "No mapping run has been stored")
			return
		}
		h.log(r.Context()).Error("failed to get latest mapping run", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve mapping run")
		return
	}

	WriteSuccess(w, map[string]any{
		"run":      run,
		"coverage": run.Coverage(),
	})
}

// ReloadLectionary handles POST /api/v1/admin/reload. The stored
// Lectionary replaces the one in memory.
func (h *Handlers) ReloadLectionary(w http.ResponseWriter, r *http.Request) {
	n, err := h.Reload(r.Context())
	if err != nil {
		if errors.Is(err, errEmptyLectionary) {
			WriteBadRequest(w, "Stored lectionary is empty; import one first")
			return
		}
		h.log(r.Context()).Error("failed to reload lectionary", slog.Any("error", err))
		WriteInternalError(w, "Failed to reload lectionary")
		return
	}

	WriteSuccess(w, map[string]int{"entries": n})
}

var errEmptyLectionary = errors.New("stored lectionary is empty")

// Reload loads the stored Lectionary into the resolver and returns its
// size. An empty store leaves the current table in place.
func (h *Handlers) Reload(ctx context.Context) (int, error) {
	entries, err := h.db.ListLectionary(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, errEmptyLectionary
	}

	h.resolver.SetTable(lectionary.NewTable(entries))
	h.metrics.SetLectionarySize(len(entries))
	h.log(ctx).Info("lectionary reloaded", slog.Int("entries", len(entries)))
	return len(entries), nil
}

// pathDate parses the {date} URL parameter, writing a 400 on failure.
func pathDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := chi.URLParam(r, "date")
	if dateStr == "" {
		WriteBadRequest(w, "Date parameter is required")
		return time.Time{}, false
	}

	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return time.Time{}, false
	}
	return date, true
}

func (h *Handlers) writeCalendarError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, calendar.ErrYearOutOfRange) || errors.Is(err, calendar.ErrInvalidRange) {
		WriteBadRequest(w, err.Error())
		return
	}
	h.log(r.Context()).Error("failed to build calendar", slog.Any("error", err))
	WriteInternalError(w, "Failed to build calendar")
}

// log returns the handler logger tagged with the request's ID.
func (h *Handlers) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, h.logger)
}
