package climate

import (
	"errors"

	"climate-compare/internal/models"
)

// ErrNoTrend indicates that fewer than two yearly values were available, so
// no line can be fitted.
var ErrNoTrend = errors.New("not enough yearly values to fit a trend")

// Trend is a least-squares line over yearly mean temperatures. Slope is in
// degrees per year; multiply by 100 for the per-century figure shown on the
// page. Intercept is the fitted value for the first contributing year.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	FirstYear int     `json:"first_year"`
	LastYear  int     `json:"last_year"`
}

// TrendOf fits a warming trend over the records' yearly mean temperatures.
// Records without a mean temperature are skipped. Used both for the overall
// station trend (all records) and the time-of-year trend (a window's records).
func TrendOf(records []models.DailyRecord) (Trend, error) {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	firstYear, lastYear := 0, 0

	for _, rec := range records {
		if rec.TempMean == nil {
			continue
		}
		year := rec.Year()
		sums[year] += *rec.TempMean
		counts[year]++
		if firstYear == 0 || year < firstYear {
			firstYear = year
		}
		if year > lastYear {
			lastYear = year
		}
	}

	if len(counts) < 2 {
		return Trend{}, ErrNoTrend
	}

	// Least squares over (year - firstYear, yearly mean).
	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(counts))
	for year, count := range counts {
		x := float64(year - firstYear)
		y := sums[year] / float64(count)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Trend{}, ErrNoTrend
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	return Trend{
		Slope:     slope,
		Intercept: intercept,
		FirstYear: firstYear,
		LastYear:  lastYear,
	}, nil
}
