package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"climate-compare/internal/climate"
	"climate-compare/internal/config"
	"climate-compare/internal/models"
	"climate-compare/internal/provider"
	"climate-compare/pkg/logging"
	"climate-compare/pkg/metrics"
)

func fp(v float64) *float64 {
	return &v
}

// fakeProvider serves a fixed series and counts retrievals.
type fakeProvider struct {
	id         string
	name       string
	daily      models.HistoricalSeries
	current    []models.RawObservation
	dailyCalls int
}

func (p *fakeProvider) ID() string   { return p.id }
func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) GetDailyData(ctx context.Context, d time.Time) (models.HistoricalSeries, error) {
	p.dailyCalls++
	return p.daily, nil
}

func (p *fakeProvider) GetCurrentData(ctx context.Context, d time.Time) ([]models.RawObservation, error) {
	return p.current, nil
}

// testSeries builds two weeks of June records at 10 degrees for every year in
// [2000, 2024].
func testSeries() models.HistoricalSeries {
	var series models.HistoricalSeries
	for year := 2000; year <= 2024; year++ {
		for day := 8; day <= 22; day++ {
			d := time.Date(year, 6, day, 0, 0, 0, 0, time.UTC)
			series = append(series, models.NewDailyRecord(d, fp(5), fp(15), fp(10)))
		}
	}
	return series
}

func testClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
}

func testLogger() *logging.StructuredLogger {
	l := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	l.SetOutput(io.Discard)
	return l
}

func newTestService(t *testing.T, p *fakeProvider) *ComparisonService {
	t.Helper()

	registry := provider.NewRegistry()
	if err := registry.Register(p); err != nil {
		t.Fatalf("failed to register provider: %v", err)
	}

	engineCfg := climate.DefaultConfig()
	engineCfg.Workers = 4

	return NewComparisonService(
		registry,
		engineCfg,
		config.CacheConfig{CompareTTL: 5 * time.Minute, DailyTTL: 5 * time.Minute},
		testClock(),
		testLogger(),
		metrics.NewCollector("test"),
	)
}

func TestCompareTodayHotDay(t *testing.T) {
	p := &fakeProvider{
		id:    "lmss",
		name:  "LMSS",
		daily: testSeries(),
		current: []models.RawObservation{
			{ObservedAt: time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC), TempMin: fp(12), TempMax: fp(14)},
			{ObservedAt: time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC), TempMin: fp(13), TempMax: fp(18)},
		},
	}
	s := newTestService(t, p)

	report, err := s.CompareToday(context.Background(), "lmss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.StationID != "lmss" || report.StationName != "LMSS" {
		t.Errorf("unexpected station identity: %s / %s", report.StationID, report.StationName)
	}
	if report.Date != "2025-06-15" {
		t.Errorf("date = %s, want 2025-06-15", report.Date)
	}

	// Running extremes across all observations, then their mean.
	if report.CurrentMin == nil || *report.CurrentMin != 12 {
		t.Errorf("current min = %v, want 12", report.CurrentMin)
	}
	if report.CurrentMax == nil || *report.CurrentMax != 18 {
		t.Errorf("current max = %v, want 18", report.CurrentMax)
	}
	if report.CurrentMean == nil || *report.CurrentMean != 15 {
		t.Errorf("current mean = %v, want 15", report.CurrentMean)
	}

	// 15 degrees against a uniform 10-degree history ranks at the top.
	if !report.Percentile.Defined() || *report.Percentile.Rank != 100 {
		t.Errorf("percentile = %+v, want rank 100", report.Percentile)
	}
	if report.Classification != climate.ClassHot {
		t.Errorf("classification = %s, want %s", report.Classification, climate.ClassHot)
	}
	if report.Verdict != "Bloody hell yes!" {
		t.Errorf("verdict = %q", report.Verdict)
	}
	if report.Distribution == nil {
		t.Error("expected a distribution")
	}
	if report.PeriodStart != 2000 || report.PeriodEnd != 2024 {
		t.Errorf("period = [%d, %d], want [2000, 2024]", report.PeriodStart, report.PeriodEnd)
	}
	if report.TrendOverall == nil {
		t.Error("expected an overall trend")
	}
	if report.Calendar == nil {
		t.Fatal("expected a calendar grid")
	}
	if report.Calendar.Year != 2025 || len(report.Calendar.Cells) != 365 {
		t.Errorf("calendar = year %d with %d cells", report.Calendar.Year, len(report.Calendar.Cells))
	}

	// Today's running average is spliced into the grid.
	todayCell := report.Calendar.Cells[time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).YearDay()-1]
	if todayCell.Classification != climate.ClassHot {
		t.Errorf("today's grid cell classified %s, want %s", todayCell.Classification, climate.ClassHot)
	}
}

func TestCompareTodayNoCurrentData(t *testing.T) {
	p := &fakeProvider{id: "lmss", name: "LMSS", daily: testSeries()}
	s := newTestService(t, p)

	report, err := s.CompareToday(context.Background(), "lmss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.CurrentMean != nil {
		t.Errorf("expected nil current mean, got %v", *report.CurrentMean)
	}
	if report.Percentile.Defined() {
		t.Error("expected an undefined rank without observations")
	}
	if report.Classification != climate.ClassUnknown {
		t.Errorf("classification = %s, want %s", report.Classification, climate.ClassUnknown)
	}
	if report.Verdict != "not sure, we have no data yet" {
		t.Errorf("verdict = %q", report.Verdict)
	}
	// The reference distribution is still shown.
	if report.Distribution == nil {
		t.Error("expected a distribution even without observations")
	}
}

func TestCompareTodaySparseHistory(t *testing.T) {
	// History exists only in January; a June comparison has no window.
	p := &fakeProvider{
		id:   "lmss",
		name: "LMSS",
		daily: models.HistoricalSeries{
			models.NewDailyRecord(time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC), nil, nil, fp(10)),
		},
		current: []models.RawObservation{
			{ObservedAt: time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC), TempMin: fp(12), TempMax: fp(18)},
		},
	}
	s := newTestService(t, p)

	report, err := s.CompareToday(context.Background(), "lmss")
	if err != nil {
		t.Fatalf("sparse history must not fail the request: %v", err)
	}
	if report.Classification != climate.ClassUnknown {
		t.Errorf("classification = %s, want %s", report.Classification, climate.ClassUnknown)
	}
	if report.Distribution != nil {
		t.Error("no distribution expected without a reference window")
	}
}

func TestCompareTodayCaching(t *testing.T) {
	p := &fakeProvider{id: "lmss", name: "LMSS", daily: testSeries()}
	s := newTestService(t, p)

	first, err := s.CompareToday(context.Background(), "lmss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.CompareToday(context.Background(), "lmss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("second call should be served from cache")
	}
	if p.dailyCalls != 1 {
		t.Errorf("daily data fetched %d times, want 1", p.dailyCalls)
	}
}

func TestCompareTodayUnknownStation(t *testing.T) {
	s := newTestService(t, &fakeProvider{id: "lmss", name: "LMSS"})

	_, err := s.CompareToday(context.Background(), "nowhere")
	var unknown *provider.UnknownStationError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownStationError, got %v", err)
	}
}

func TestCalendarForYear(t *testing.T) {
	p := &fakeProvider{id: "lmss", name: "LMSS", daily: testSeries()}
	s := newTestService(t, p)

	grid, err := s.CalendarForYear(context.Background(), "lmss", 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.Year != 2024 || len(grid.Cells) != 366 {
		t.Fatalf("grid = year %d with %d cells", grid.Year, len(grid.Cells))
	}

	// Finished years are cached without expiry.
	again, err := s.CalendarForYear(context.Background(), "lmss", 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid != again {
		t.Error("second call should be served from cache")
	}
}

func TestCalendarForYearRange(t *testing.T) {
	s := newTestService(t, &fakeProvider{id: "lmss", name: "LMSS", daily: testSeries()})

	for _, year := range []int{1800, 2026} {
		_, err := s.CalendarForYear(context.Background(), "lmss", year)
		var rangeErr *YearRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("year %d: expected YearRangeError, got %v", year, err)
		}
	}
}

func TestStations(t *testing.T) {
	s := newTestService(t, &fakeProvider{id: "lmss", name: "LMSS"})

	infos := s.Stations()
	if len(infos) != 1 || infos[0].ID != "lmss" || infos[0].Name != "LMSS" {
		t.Errorf("unexpected stations: %+v", infos)
	}
}
