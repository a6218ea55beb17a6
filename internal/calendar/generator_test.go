package calendar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func quietGenerator(opts ...Option) *Generator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGenerator(append([]Option{WithLogger(logger)}, opts...)...)
}

func mustDay(t *testing.T, cal *Calendar, s string) Day {
	t.Helper()
	d, err := ParseDateString(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	day, ok := cal.Lookup(d)
	if !ok {
		t.Fatalf("no calendar day for %s", s)
	}
	return day
}

func generate(t *testing.T, g *Generator, start, end int) *Calendar {
	t.Helper()
	cal, err := g.Generate(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Generate(%d, %d) failed: %v", start, end, err)
	}
	return cal
}

func TestGenerate_CoversEveryDateOnce(t *testing.T) {
	cal := generate(t, quietGenerator(), 2020, 2030)

	if err := Validate(cal.Days(), 2020, 2030); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	for year := 2020; year <= 2030; year++ {
		want := 365
		if time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
			want = 366
		}
		got := len(cal.Range(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)))
		if got != want {
			t.Errorf("year %d has %d days, want %d", year, got, want)
		}
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	g := quietGenerator()

	if _, err := g.Generate(context.Background(), 2026, 2025); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Generate(2026, 2025) error = %v, want ErrInvalidRange", err)
	}
	if _, err := g.Generate(context.Background(), 1500, 1600); !errors.Is(err, ErrYearOutOfRange) {
		t.Errorf("Generate(1500, 1600) error = %v, want ErrYearOutOfRange", err)
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := quietGenerator().Generate(ctx, 2020, 2030); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestOrdinaryWeeks_Period2(t *testing.T) {
	g := quietGenerator()

	for year := 1990; year <= 2060; year++ {
		a := NewAnchors(year)
		days := g.Year(year)

		prev := 0
		for _, d := range days {
			if d.Season != SeasonOrdinary || !d.Date.After(a.Pentecost) || d.Date.Weekday() != time.Sunday {
				continue
			}
			if prev != 0 && d.Week != prev+1 {
				t.Errorf("%d: Sunday %s week %d follows week %d", year, FormatDate(d.Date), d.Week, prev)
			}
			prev = d.Week
		}

		ctk := days[a.ChristTheKing.YearDay()-1]
		if ctk.Week != ChristTheKingWeek {
			t.Errorf("%d: Christ the King week = %d, want %d", year, ctk.Week, ChristTheKingWeek)
		}
		if last := days[a.FirstAdvent.YearDay()-2]; last.Week != ChristTheKingWeek {
			t.Errorf("%d: day before Advent week = %d, want %d", year, last.Week, ChristTheKingWeek)
		}
	}
}

func TestOrdinaryWeeks_Period1(t *testing.T) {
	g := quietGenerator()

	for year := 1990; year <= 2060; year++ {
		a := NewAnchors(year)
		days := g.Year(year)

		baptism := days[a.Baptism.YearDay()-1]
		if baptism.Week != 1 || baptism.Season != SeasonOrdinary {
			t.Errorf("%d: Baptism season/week = %s/%d, want Ordinary Time/1", year, baptism.Season, baptism.Week)
		}
		next := days[a.Baptism.YearDay()+6]
		if next.Week != 2 {
			t.Errorf("%d: Sunday after Baptism week = %d, want 2", year, next.Week)
		}
		eve := days[a.AshWednesday.YearDay()-2]
		if eve.Season != SeasonOrdinary || eve.Week == 0 {
			t.Errorf("%d: day before Ash Wednesday = %s week %d", year, eve.Season, eve.Week)
		}
	}
}

func TestSeasonAndWeek_2025(t *testing.T) {
	cal := generate(t, quietGenerator(), 2025, 2025)

	tests := []struct {
		date   string
		season Season
		week   int
	}{
		{"2025-01-01", SeasonChristmas, 0},
		{"2025-01-11", SeasonChristmas, 0},
		{"2025-01-12", SeasonOrdinary, 1},
		{"2025-01-17", SeasonOrdinary, 1},
		{"2025-01-19", SeasonOrdinary, 2},
		{"2025-03-04", SeasonOrdinary, 8},
		{"2025-03-05", SeasonLent, 1},
		{"2025-03-08", SeasonLent, 1},
		{"2025-03-09", SeasonLent, 1},
		{"2025-03-16", SeasonLent, 2},
		{"2025-03-19", SeasonLent, 2},
		{"2025-04-12", SeasonLent, 5},
		{"2025-04-13", SeasonHolyWeek, 0},
		{"2025-04-19", SeasonHolyWeek, 0},
		{"2025-04-20", SeasonEaster, 1},
		{"2025-04-27", SeasonEaster, 2},
		{"2025-06-08", SeasonEaster, 8},
		{"2025-06-09", SeasonOrdinary, 10},
		{"2025-06-15", SeasonOrdinary, 11},
		{"2025-11-23", SeasonOrdinary, 34},
		{"2025-11-29", SeasonOrdinary, 34},
		{"2025-11-30", SeasonAdvent, 1},
		{"2025-12-24", SeasonAdvent, 4},
		{"2025-12-25", SeasonChristmas, 0},
	}

	for _, tt := range tests {
		d := mustDay(t, cal, tt.date)
		if d.Season != tt.season || d.Week != tt.week {
			t.Errorf("%s season/week = %s/%d, want %s/%d", tt.date, d.Season, d.Week, tt.season, tt.week)
		}
	}
}

func TestNamesAndRanks_2025(t *testing.T) {
	cal := generate(t, quietGenerator(), 2025, 2025)

	tests := []struct {
		date string
		name string
		rank Rank
	}{
		{"2025-01-01", "Mary, Mother of God", RankSolemnity},
		{"2025-01-03", "3rd January", RankFeria},
		{"2025-01-05", "Epiphany of the Lord", RankSolemnity},
		{"2025-01-07", "Tuesday after Epiphany", RankFeria},
		{"2025-01-12", "Baptism of the Lord", RankFeast},
		{"2025-01-17", "Friday of the First Week in Ordinary Time", RankFeria},
		{"2025-01-19", "Second Sunday in Ordinary Time", RankSunday},
		{"2025-03-05", "Ash Wednesday", RankAshWednesday},
		{"2025-03-06", "Thursday after Ash Wednesday", RankFeria},
		{"2025-03-09", "First Sunday of Lent", RankSunday},
		{"2025-03-11", "Tuesday of the First Week of Lent", RankFeria},
		{"2025-03-19", "19 March – St Joseph", RankSolemnity},
		{"2025-03-25", "25 March – Annunciation", RankSolemnity},
		{"2025-04-13", "Palm Sunday", RankSunday},
		{"2025-04-14", "Monday of Holy Week", RankFeria},
		{"2025-04-17", "Holy Thursday", RankTriduum},
		{"2025-04-18", "Good Friday", RankTriduum},
		{"2025-04-19", "Holy Saturday", RankTriduum},
		{"2025-04-20", "Easter Sunday", RankSolemnity},
		{"2025-04-21", "Monday of the First Week of Easter", RankFeria},
		{"2025-04-27", "Second Sunday of Easter", RankSunday},
		{"2025-06-01", "Ascension of the Lord", RankSolemnity},
		{"2025-06-08", "Pentecost Sunday", RankSolemnity},
		{"2025-06-15", "Trinity Sunday", RankSolemnity},
		{"2025-06-22", "THE BODY AND BLOOD OF CHRIST", RankSolemnity},
		{"2025-06-27", "Sacred Heart of Jesus", RankSolemnity},
		{"2025-06-29", "29 June – Ss Peter and Paul", RankSolemnity},
		{"2025-11-23", "Our Lord Jesus Christ, King of the Universe", RankSolemnity},
		{"2025-11-30", "First Sunday of Advent", RankSunday},
		{"2025-12-02", "Tuesday of the First Week of Advent", RankFeria},
		{"2025-12-08", "8 December – Immaculate Conception", RankSolemnity},
		{"2025-12-17", "17th December", RankFeria},
		{"2025-12-21", "Fourth Sunday of Advent", RankSunday},
		{"2025-12-25", "Christmas Day", RankSolemnity},
		{"2025-12-28", "The Holy Family of Jesus, Mary and Joseph", RankFeast},
		{"2025-12-29", "29th December", RankFeria},
	}

	for _, tt := range tests {
		d := mustDay(t, cal, tt.date)
		if d.Name != tt.name || d.Rank != tt.rank {
			t.Errorf("%s = %q (%s), want %q (%s)", tt.date, d.Name, d.Rank, tt.name, tt.rank)
		}
	}
}

func TestEndToEnd_KeyDays(t *testing.T) {
	cal := generate(t, quietGenerator(), 2022, 2025)

	easter := mustDay(t, cal, "2025-04-20")
	if easter.Season != SeasonEaster || easter.Rank != RankSolemnity || easter.Name != "Easter Sunday" {
		t.Errorf("2025-04-20 = %+v", easter)
	}

	joseph := mustDay(t, cal, "2025-03-19")
	if joseph.Rank != RankSolemnity || joseph.Season != SeasonLent {
		t.Errorf("2025-03-19 rank/season = %s/%s, want Solemnity/Lent", joseph.Rank, joseph.Season)
	}

	ctk := mustDay(t, cal, "2022-11-20")
	if ctk.Week != 34 || ctk.Rank != RankSolemnity {
		t.Errorf("2022-11-20 week/rank = %d/%s, want 34/Solemnity", ctk.Week, ctk.Rank)
	}
	if advent := mustDay(t, cal, "2022-11-27"); advent.Name != "First Sunday of Advent" {
		t.Errorf("2022-11-27 name = %q", advent.Name)
	}
}

func TestSolemnityPolicy(t *testing.T) {
	// 15 August 2021 is a Sunday.
	date := time.Date(2021, time.August, 15, 0, 0, 0, 0, time.UTC)

	kept := generate(t, quietGenerator(), 2021, 2021)
	day, _ := kept.Lookup(date)
	if day.Name != "15 August – Assumption" || day.Rank != RankSolemnity {
		t.Errorf("default policy = %q (%s), want Assumption", day.Name, day.Rank)
	}
	if n := len(kept.SundaySolemnities()); n == 0 {
		t.Error("SundaySolemnities() is empty, want the Assumption")
	}

	sunday := generate(t, quietGenerator(WithSolemnityPolicy(PolicySundayWins)), 2021, 2021)
	day, _ = sunday.Lookup(date)
	if day.Name != "Twentieth Sunday in Ordinary Time" || day.Rank != RankSunday {
		t.Errorf("sunday policy = %q (%s), want Twentieth Sunday in Ordinary Time", day.Name, day.Rank)
	}
}

func TestFixedFeasts(t *testing.T) {
	feasts := FeastTable{
		{time.February, 22}: "22 February – The Chair of St Peter",
		{time.January, 1}:   "1 January – Should Not Apply",
	}
	g := quietGenerator(WithFeasts(feasts))

	cal2025 := generate(t, g, 2025, 2025)
	if d := mustDay(t, cal2025, "2025-02-22"); d.Rank != RankFeast || d.Name != "22 February – The Chair of St Peter" {
		t.Errorf("2025-02-22 = %q (%s), want the Chair of St Peter feast", d.Name, d.Rank)
	}
	if d := mustDay(t, cal2025, "2025-01-01"); d.Name != "Mary, Mother of God" {
		t.Errorf("2025-01-01 = %q, want Mary, Mother of God", d.Name)
	}

	// 22 February 2026 is the First Sunday of Lent.
	cal2026 := generate(t, g, 2026, 2026)
	if d := mustDay(t, cal2026, "2026-02-22"); d.Rank != RankSunday || d.Name != "First Sunday of Lent" {
		t.Errorf("2026-02-22 = %q (%s), want First Sunday of Lent", d.Name, d.Rank)
	}
}

func TestNameRules_Isolated(t *testing.T) {
	a := NewAnchors(2025)
	ctx := func(s string, season Season, week int) *dayContext {
		d, _ := ParseDateString(s)
		return &dayContext{date: d, season: season, week: week, anchors: &a, policy: PolicySolemnityWins}
	}

	if first := nameRules[0]; !first.applies(ctx("2025-03-19", SeasonLent, 2)) {
		t.Error("first rule does not apply to 19 March")
	}

	fallback := nameRules[len(nameRules)-1]
	if fallback.name != RuleFallback || !fallback.applies(ctx("2025-07-10", SeasonOrdinary, 0)) {
		t.Fatal("last rule is not an unconditional fallback")
	}

	name, rank, ruleName := resolveName(ctx("2025-07-10", SeasonOrdinary, 0))
	if ruleName != RuleFallback || name != "Thursday of Week 0 in Ordinary Time" || rank != RankFeria {
		t.Errorf("resolveName(no week) = %q %s via %s", name, rank, ruleName)
	}

	for _, r := range nameRules {
		if r.name == RuleFixedFeast && r.applies(ctx("2025-07-13", SeasonOrdinary, 15)) {
			t.Error("fixed feast rule applies on a Sunday with an empty table")
		}
	}
}

func TestDay_Record(t *testing.T) {
	cal := generate(t, quietGenerator(), 2025, 2025)
	d := mustDay(t, cal, "2025-04-14")

	r := d.Record()
	if r.Week != nil {
		t.Errorf("Holy Week record week = %v, want nil", *r.Week)
	}
	if r.DayOfWeek != "Monday" || r.Season != "Holy Week" {
		t.Errorf("Record() = %+v", r)
	}

	back, err := Record{CalendarDate: "2025-04-14", Season: "HolyWeek", Rank: "nonsense"}.Day()
	if err != nil {
		t.Fatalf("Record.Day() failed: %v", err)
	}
	if back.Season != SeasonHolyWeek || back.Rank != "" || back.Year != 2025 {
		t.Errorf("Record.Day() = %+v", back)
	}

	if _, err := (Record{CalendarDate: "14/04/2025"}).Day(); err == nil {
		t.Error("Record.Day() with bad date succeeded")
	}
}

func TestValidate_DetectsGaps(t *testing.T) {
	days := quietGenerator().Year(2025)
	gapped := append(append([]Day{}, days[:10]...), days[11:]...)

	if err := Validate(gapped, 2025, 2025); err == nil {
		t.Error("Validate() accepted a calendar with a missing day")
	}
	if err := Validate(days[:300], 2025, 2025); err == nil {
		t.Error("Validate() accepted a truncated calendar")
	}
}

func TestCycleFor(t *testing.T) {
	cal := generate(t, quietGenerator(), 2024, 2025)

	tests := []struct {
		date string
		rank Rank
		want string
	}{
		{"2025-01-12", RankFeast, "C"},  // Baptism of the Lord, a Sunday
		{"2024-12-29", RankFeast, "C"},  // Holy Family, a Sunday
		{"2025-01-26", RankSunday, "C"}, // Third Sunday in Ordinary Time
		{"2025-01-14", RankFeria, "1"},
		{"2025-11-30", RankSunday, "A"}, // First Sunday of Advent opens Year A
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			day := mustDay(t, cal, tt.date)
			if day.Rank != tt.rank {
				t.Fatalf("rank = %s, want %s", day.Rank, tt.rank)
			}
			if got := CycleFor(day); got != tt.want {
				t.Errorf("CycleFor(%s) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}

	weekdayFeast := Day{Date: date(2025, time.February, 22), Rank: RankFeast}
	if got := CycleFor(weekdayFeast); got != "1" {
		t.Errorf("CycleFor(weekday feast) = %q, want %q", got, "1")
	}
}
