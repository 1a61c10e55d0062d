// Package climate implements the climatology comparison engine: day-of-year
// window extraction, percentile ranking, distribution summaries, hot/cold
// classification, warming trends, and the year-long calendar percentile grid.
// Every function is a pure computation over immutable inputs.
package climate

import (
	"climate-compare/internal/models"
)

// daysInCircle is the size of the day-of-year circle. Day 366 exists only in
// leap years and is treated as coincident with day 365 for window membership.
const daysInCircle = 366

// CircularDayDistance returns the distance between two day-of-year values
// counted circularly across the year boundary, so day 1 and day 365 are close.
func CircularDayDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if daysInCircle-d < d {
		d = daysInCircle - d
	}
	return d
}

// foldLeapDay maps day 366 onto day 365 so leap-day records compare against
// the same window regardless of whether the target year is a leap year.
func foldLeapDay(doy int) int {
	if doy == 366 {
		return 365
	}
	return doy
}

// Window is the subset of a historical series whose day-of-year falls within
// a fixed circular distance of a target day, across all qualifying years.
// Only records carrying a mean temperature are retained; records without one
// cannot contribute to any distribution.
type Window struct {
	TargetDayOfYear int
	HalfWidth       int
	Records         []models.DailyRecord
}

// Values returns the mean temperatures of the window's records.
func (w Window) Values() []float64 {
	vals := make([]float64, 0, len(w.Records))
	for _, rec := range w.Records {
		if rec.TempMean != nil {
			vals = append(vals, *rec.TempMean)
		}
	}
	return vals
}

// ExtractWindow selects every record of series whose circular day-of-year
// distance to targetDOY is at most halfWidth. Records from before minYear are
// excluded; when maxYear is nonzero, records from after maxYear are excluded
// too (used to keep a comparison year out of its own reference distribution).
// A halfWidth of zero still aggregates exact day-of-year matches across all
// years. Returns EmptyWindowError when nothing qualifies.
func ExtractWindow(series models.HistoricalSeries, targetDOY, halfWidth, minYear, maxYear int) (Window, error) {
	target := foldLeapDay(targetDOY)

	w := Window{
		TargetDayOfYear: targetDOY,
		HalfWidth:       halfWidth,
	}

	for _, rec := range series {
		year := rec.Year()
		if year < minYear {
			continue
		}
		if maxYear != 0 && year > maxYear {
			continue
		}
		if rec.TempMean == nil {
			continue
		}
		if CircularDayDistance(foldLeapDay(rec.DayOfYear), target) <= halfWidth {
			w.Records = append(w.Records, rec)
		}
	}

	if len(w.Records) == 0 {
		return Window{}, &EmptyWindowError{
			DayOfYear: targetDOY,
			HalfWidth: halfWidth,
			MinYear:   minYear,
		}
	}

	return w, nil
}
