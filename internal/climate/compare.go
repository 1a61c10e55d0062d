package climate

import (
	"time"

	"climate-compare/internal/models"
)

// Comparison is the engine's answer for one candidate value against one
// location's history: how the value ranks, what the reference distribution
// looks like, and the categorical verdict.
type Comparison struct {
	Classification Classification      `json:"classification"`
	Percentile     PercentileResult    `json:"percentile"`
	Distribution   DistributionSummary `json:"distribution"`
}

// Compare ranks candidate (the day's mean temperature, nil when today's
// observation is missing) against the historical window around targetDate.
// Only years strictly before the target date's year contribute to the
// reference distribution, so a year never competes against itself.
//
// Compare is pure and idempotent: identical inputs produce identical outputs
// and no state is touched, so an external cache can substitute for it
// transparently. It returns EmptyWindowError when the history is too sparse;
// callers render an unknown state for that.
func Compare(candidate *float64, series models.HistoricalSeries, targetDate time.Time, cfg Config) (Comparison, error) {
	if err := cfg.Validate(); err != nil {
		return Comparison{}, err
	}

	window, err := ExtractWindow(
		series,
		targetDate.YearDay(),
		cfg.HalfWidth,
		cfg.MinYear,
		targetDate.Year()-1,
	)
	if err != nil {
		return Comparison{}, err
	}

	result := RankOf(candidate, window)

	dist, err := EstimateDistribution(window, cfg.BinCount, cfg.LowPercentile, cfg.HighPercentile)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{
		Classification: Classify(result, cfg),
		Percentile:     result,
		Distribution:   dist,
	}, nil
}
