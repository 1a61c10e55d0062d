package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"climate-compare/internal/climate"
	"climate-compare/internal/config"
	"climate-compare/internal/models"
	"climate-compare/internal/provider"
	"climate-compare/pkg/cache"
	"climate-compare/pkg/logging"
	"climate-compare/pkg/metrics"
)

// YearRangeError is returned for calendar requests outside the served range.
type YearRangeError struct {
	Year int
	Min  int
	Max  int
}

func (e *YearRangeError) Error() string {
	return fmt.Sprintf("year %d out of range [%d, %d]", e.Year, e.Min, e.Max)
}

// IsTransient returns false: the range only moves at year boundaries.
func (e *YearRangeError) IsTransient() bool {
	return false
}

// StationInfo is the public identity of a monitored location.
type StationInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ComparisonReport is everything the presentation layer needs to answer
// "is it hot right now?" for one station and day.
type ComparisonReport struct {
	StationID   string `json:"station_id"`
	StationName string `json:"station_name"`
	Date        string `json:"date"`

	CurrentMin  *float64 `json:"current_min,omitempty"`
	CurrentMax  *float64 `json:"current_max,omitempty"`
	CurrentMean *float64 `json:"current_mean,omitempty"`

	Verdict        string                       `json:"verdict"`
	Sentence       string                       `json:"sentence"`
	Classification climate.Classification       `json:"classification"`
	Percentile     climate.PercentileResult     `json:"percentile"`
	Distribution   *climate.DistributionSummary `json:"distribution,omitempty"`

	TrendOverall *climate.Trend `json:"trend_overall,omitempty"`
	TrendSeason  *climate.Trend `json:"trend_season,omitempty"`

	PeriodStart int `json:"period_start"`
	PeriodEnd   int `json:"period_end"`

	Calendar *climate.CalendarGrid `json:"calendar,omitempty"`
}

// ComparisonService orchestrates providers, the comparison engine, and the
// caches around it. The engine stays pure; all memoization happens here.
type ComparisonService struct {
	registry  *provider.Registry
	engineCfg climate.Config
	cacheCfg  config.CacheConfig
	clock     clockwork.Clock
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector

	dailyCache  *cache.TTLCache[models.HistoricalSeries]
	reportCache *cache.TTLCache[*ComparisonReport]
	gridCache   *cache.TTLCache[*climate.CalendarGrid]
}

// NewComparisonService creates a comparison service.
func NewComparisonService(
	registry *provider.Registry,
	engineCfg climate.Config,
	cacheCfg config.CacheConfig,
	clock clockwork.Clock,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *ComparisonService {
	return &ComparisonService{
		registry:    registry,
		engineCfg:   engineCfg,
		cacheCfg:    cacheCfg,
		clock:       clock,
		logger:      logger,
		metrics:     metricsCollector,
		dailyCache:  cache.NewTTLCache[models.HistoricalSeries](clock),
		reportCache: cache.NewTTLCache[*ComparisonReport](clock),
		gridCache:   cache.NewTTLCache[*climate.CalendarGrid](clock),
	}
}

// Stations lists the registered stations.
func (s *ComparisonService) Stations() []StationInfo {
	ids := s.registry.IDs()
	infos := make([]StationInfo, 0, len(ids))
	for _, id := range ids {
		p, err := s.registry.Get(id)
		if err != nil {
			continue
		}
		infos = append(infos, StationInfo{ID: p.ID(), Name: p.Name()})
	}
	return infos
}

// today returns the current calendar date at midnight UTC.
func (s *ComparisonService) today() time.Time {
	now := s.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// CompareToday answers the comparison question for the station's current day.
func (s *ComparisonService) CompareToday(ctx context.Context, stationID string) (*ComparisonReport, error) {
	p, err := s.registry.Get(stationID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	key := fmt.Sprintf("compare:%s:%s", stationID, today.Format("2006-01-02"))
	if report, ok := s.reportCache.Get(key); ok {
		s.metrics.RecordCacheHit("compare")
		return report, nil
	}
	s.metrics.RecordCacheMiss("compare")

	timer := time.Now()
	defer func() {
		s.metrics.ComparisonDuration.Observe(time.Since(timer).Seconds())
	}()

	daily, err := s.dailySeries(ctx, p, today)
	if err != nil {
		return nil, err
	}

	currentMin, currentMax, currentMean, err := s.currentAverage(ctx, p, today)
	if err != nil {
		return nil, err
	}

	report := &ComparisonReport{
		StationID:      p.ID(),
		StationName:    p.Name(),
		Date:           today.Format("2006-01-02"),
		CurrentMin:     currentMin,
		CurrentMax:     currentMax,
		CurrentMean:    currentMean,
		Classification: climate.ClassUnknown,
	}
	report.PeriodStart, report.PeriodEnd = daily.Years()

	comparison, err := climate.Compare(currentMean, daily, today, s.engineCfg)
	switch {
	case err == nil:
		report.Classification = comparison.Classification
		report.Percentile = comparison.Percentile
		report.Distribution = &comparison.Distribution
	case isEmptyWindow(err):
		// Too little history: the page shows an unknown state.
		s.logger.Warn(ctx, "[COMPARE_SPARSE] Insufficient history for comparison", logging.Fields{
			"station_id": stationID,
			"date":       report.Date,
		})
	default:
		return nil, err
	}

	report.Verdict = climate.Verdict(report.Percentile)
	report.Sentence = climate.Sentence(report.Percentile)

	s.attachTrends(ctx, report, daily, today)

	grid, err := s.buildGrid(daily, today, currentMean)
	if err != nil {
		return nil, err
	}
	report.Calendar = grid

	s.reportCache.Set(key, report, s.cacheCfg.CompareTTL)

	s.logger.Info(ctx, "[COMPARE_DONE] Comparison computed", logging.Fields{
		"station_id":     stationID,
		"date":           report.Date,
		"classification": string(report.Classification),
	})

	return report, nil
}

// CalendarForYear returns the calendar percentile grid for a full year.
// Grids for finished years never change and are cached without expiry.
func (s *ComparisonService) CalendarForYear(ctx context.Context, stationID string, year int) (*climate.CalendarGrid, error) {
	p, err := s.registry.Get(stationID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	if year < s.engineCfg.MinYear || year > today.Year() {
		return nil, &YearRangeError{Year: year, Min: s.engineCfg.MinYear, Max: today.Year()}
	}

	key := fmt.Sprintf("grid:%s:%d", stationID, year)
	if grid, ok := s.gridCache.Get(key); ok {
		s.metrics.RecordCacheHit("grid")
		return grid, nil
	}
	s.metrics.RecordCacheMiss("grid")

	daily, err := s.dailySeries(ctx, p, today)
	if err != nil {
		return nil, err
	}

	timer := time.Now()
	grid, err := climate.BuildCalendarGrid(daily, year, s.engineCfg)
	if err != nil {
		return nil, err
	}
	s.metrics.GridComputeDuration.Observe(time.Since(timer).Seconds())

	ttl := s.cacheCfg.CompareTTL
	if year < today.Year() {
		ttl = 0 // finished years are static
	}
	s.gridCache.Set(key, &grid, ttl)

	return &grid, nil
}

// dailySeries loads (or re-uses) the station's daily series as of today.
func (s *ComparisonService) dailySeries(ctx context.Context, p provider.DataProvider, today time.Time) (models.HistoricalSeries, error) {
	key := fmt.Sprintf("daily:%s:%s", p.ID(), today.Format("2006-01-02"))
	if series, ok := s.dailyCache.Get(key); ok {
		s.metrics.RecordCacheHit("daily")
		return series, nil
	}
	s.metrics.RecordCacheMiss("daily")

	series, err := p.GetDailyData(ctx, today)
	if err != nil {
		return nil, err
	}

	s.dailyCache.Set(key, series, s.cacheCfg.DailyTTL)
	return series, nil
}

// currentAverage aggregates today's raw observations to the day's running
// extremes and their mean. All three are nil when no data arrived yet.
func (s *ComparisonService) currentAverage(ctx context.Context, p provider.DataProvider, today time.Time) (currentMin, currentMax, currentMean *float64, err error) {
	raw, err := p.GetCurrentData(ctx, today)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, obs := range raw {
		if obs.TempMin != nil && (currentMin == nil || *obs.TempMin < *currentMin) {
			v := *obs.TempMin
			currentMin = &v
		}
		if obs.TempMax != nil && (currentMax == nil || *obs.TempMax > *currentMax) {
			v := *obs.TempMax
			currentMax = &v
		}
	}

	if currentMin != nil && currentMax != nil {
		mean := (*currentMin + *currentMax) / 2
		currentMean = &mean
	}

	return currentMin, currentMax, currentMean, nil
}

// attachTrends computes the overall and time-of-year warming trends. A trend
// that cannot be fitted is simply omitted from the report.
func (s *ComparisonService) attachTrends(ctx context.Context, report *ComparisonReport, daily models.HistoricalSeries, today time.Time) {
	if trend, err := climate.TrendOf(daily); err == nil {
		report.TrendOverall = &trend
	}

	window, err := climate.ExtractWindow(daily, today.YearDay(), s.engineCfg.HalfWidth, s.engineCfg.MinYear, today.Year()-1)
	if err != nil {
		return
	}
	if trend, err := climate.TrendOf(window.Records); err == nil {
		report.TrendSeason = &trend
	}
}

// buildGrid computes the current year's calendar grid. Today's running
// average is not in the daily table yet, so it is spliced into a copy of the
// series; the engine never sees the original mutated.
func (s *ComparisonService) buildGrid(daily models.HistoricalSeries, today time.Time, currentMean *float64) (*climate.CalendarGrid, error) {
	series := daily
	if currentMean != nil {
		hasToday := false
		for _, rec := range daily {
			if rec.Year() == today.Year() && rec.DayOfYear == today.YearDay() {
				hasToday = true
				break
			}
		}
		if !hasToday {
			series = make(models.HistoricalSeries, len(daily), len(daily)+1)
			copy(series, daily)
			series = append(series, models.NewDailyRecord(today, nil, nil, currentMean))
		}
	}

	grid, err := climate.BuildCalendarGrid(series, today.Year(), s.engineCfg)
	if err != nil {
		return nil, err
	}
	return &grid, nil
}

func isEmptyWindow(err error) bool {
	var empty *climate.EmptyWindowError
	return errors.As(err, &empty)
}
