// Command apitest runs a smoke suite against a running API server.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DayResponse is one day from /api/v1/calendar and /api/v1/calendar/{date}
type DayResponse struct {
	CalendarDate string `json:"calendar_date"`
	Season       string `json:"liturgical_season"`
	Week         *int   `json:"liturgical_week"`
	Name         string `json:"liturgical_name"`
	Rank         string `json:"liturgical_rank"`
	Cycle        string `json:"cycle"`
}

// ReadingsResponse is the response for /api/v1/readings/{date}
type ReadingsResponse struct {
	Day   DayResponse `json:"day"`
	Match struct {
		Type           string `json:"match_type"`
		Method         string `json:"match_method"`
		LectionaryID   string `json:"lectionary_id"`
		LectionaryName string `json:"lectionary_name"`
	} `json:"match"`
	Readings *struct {
		FirstReading  string `json:"first_reading"`
		Psalm         string `json:"psalm"`
		SecondReading string `json:"second_reading"`
		Gospel        string `json:"gospel"`
	} `json:"readings"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status            string `json:"status"`
	LectionaryEntries int    `json:"lectionary_entries"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, out io.Writer, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		out:     out,
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Ordo-Lectionary API Smoke Suite")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testSeasons()
	tr.testReadings()
	tr.testDateRange()
	tr.testExport()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (%d lectionary entries)", health.LectionaryEntries))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testSeasons() {
	tr.printSection("Season Boundaries")

	testCases := []struct {
		date           string
		expectedSeason string
		description    string
	}{
		{"2024-12-01", "Advent", "First Sunday of Advent 2024"},
		{"2024-12-25", "Christmas", "Christmas Day"},
		{"2025-01-06", "Christmas", "Epiphany weekday before the Baptism"},
		{"2025-01-26", "Ordinary Time", "Third Sunday in Ordinary Time"},
		{"2025-03-05", "Lent", "Ash Wednesday 2025"},
		{"2025-04-18", "Holy Week", "Good Friday"},
		{"2025-04-20", "Easter", "Easter Sunday 2025"},
		{"2025-06-08", "Easter", "Pentecost closes Easter"},
		{"2025-06-15", "Ordinary Time", "Trinity Sunday"},
	}

	for _, tc := range testCases {
		var day DayResponse
		if err := tr.getData("/api/v1/calendar/"+tc.date, &day); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if day.Season == tc.expectedSeason {
			tr.recordSuccess(fmt.Sprintf("%s: %s / %s (%s)", tc.date, day.Season, day.Name, tc.description))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected season '%s', got '%s'", tc.expectedSeason, day.Season))
		}
	}

	var ash DayResponse
	if err := tr.getData("/api/v1/calendar/2025-03-05", &ash); err != nil {
		tr.recordError("Ash Wednesday", err.Error())
	} else if ash.Name != "Ash Wednesday" || ash.Rank != "Ash Wednesday" {
		tr.recordError("Ash Wednesday", fmt.Sprintf("got %s (%s)", ash.Name, ash.Rank))
	} else {
		tr.recordSuccess("Ash Wednesday named and ranked")
	}
}

func (tr *TestRunner) testReadings() {
	tr.printSection("Readings")

	var data ReadingsResponse
	if err := tr.getData("/api/v1/readings/2025-01-26", &data); err != nil {
		tr.recordError("Readings", err.Error())
		return
	}

	if data.Day.Cycle != "C" {
		tr.recordError("Readings", fmt.Sprintf("Expected cycle C, got %q", data.Day.Cycle))
		return
	}
	tr.recordSuccess(fmt.Sprintf("2025-01-26: %s match (%s) -> %s",
		data.Match.Type, data.Match.Method, data.Match.LectionaryName))

	if tr.verbose && data.Readings != nil {
		fmt.Fprintf(tr.out, "    First Reading: %s\n", data.Readings.FirstReading)
		fmt.Fprintf(tr.out, "    Psalm: %s\n", data.Readings.Psalm)
		if data.Readings.SecondReading != "" {
			fmt.Fprintf(tr.out, "    Second Reading: %s\n", data.Readings.SecondReading)
		}
		fmt.Fprintf(tr.out, "    Gospel: %s\n", data.Readings.Gospel)
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	var days []DayResponse
	if err := tr.getData("/api/v1/calendar?start=2025-12-21&end=2025-12-27", &days); err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}
	if len(days) == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", len(days)))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", len(days)))
	}

	tr.expectStatus("Range limit enforced (>366 days rejected)",
		"/api/v1/calendar?start=2024-01-01&end=2025-12-31", http.StatusBadRequest)
	tr.expectStatus("Invalid range rejected (end before start)",
		"/api/v1/calendar?start=2025-12-31&end=2025-01-01", http.StatusBadRequest)
}

func (tr *TestRunner) testExport() {
	tr.printSection("iCalendar Export")

	resp, err := tr.getRaw("/api/v1/calendar/year/2025.ics")
	if err != nil {
		tr.recordError("Export", err.Error())
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tr.recordError("Export", err.Error())
		return
	}
	if resp.StatusCode != http.StatusOK {
		tr.recordError("Export", fmt.Sprintf("HTTP %d", resp.StatusCode))
		return
	}

	if n := strings.Count(string(body), "BEGIN:VEVENT"); n == 365 {
		tr.recordSuccess("2025 export has 365 events")
	} else {
		tr.recordError("Export", fmt.Sprintf("Expected 365 events, got %d", n))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("Invalid date format rejected", "/api/v1/calendar/invalid", http.StatusBadRequest)
	tr.expectStatus("Year before 1583 rejected", "/api/v1/calendar/1500-06-01", http.StatusBadRequest)
	tr.expectStatus("Missing end parameter rejected", "/api/v1/calendar?start=2025-01-01", http.StatusBadRequest)
	tr.expectStatus("Unknown route returns 404", "/api/v1/nope", http.StatusNotFound)

	var leap DayResponse
	if err := tr.getData("/api/v1/calendar/2024-02-29", &leap); err != nil {
		tr.recordError("Leap year", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Leap year date (2024-02-29) handled: %s", leap.Name))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.get(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) expectStatus(msg, path string, status int) {
	resp, err := tr.getRaw(path)
	if err != nil {
		tr.recordError(msg, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == status {
		tr.recordSuccess(msg)
	} else {
		tr.recordError(msg, fmt.Sprintf("Expected HTTP %d, got %d", status, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintf(tr.out, "\n--- %s ---\n\n", name)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "\nFailures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintf(tr.out, "\nTests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Fprintln(tr.out, "\nAll tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show readings)")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, os.Stdout, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
