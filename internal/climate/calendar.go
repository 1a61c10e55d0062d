package climate

import (
	"sync"
	"time"

	"climate-compare/internal/models"
)

// GridCell is one day of a calendar percentile grid.
type GridCell struct {
	DayOfYear      int              `json:"day_of_year"`
	Date           time.Time        `json:"date"`
	Percentile     PercentileResult `json:"percentile"`
	Classification Classification   `json:"classification"`
}

// CalendarGrid holds one PercentileResult per day of a target year, in
// day-of-year order. It is the input for a percentile heatmap.
type CalendarGrid struct {
	Year  int        `json:"year"`
	Cells []GridCell `json:"cells"`
}

// daysInYear returns 365, or 366 for leap years.
func daysInYear(year int) int {
	if time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}

// BuildCalendarGrid computes, for every day of targetYear, the percentile
// rank of that day's mean temperature against its own historical window and
// classifies it. The reference windows exclude the target year itself, so no
// day is compared against its own observation.
//
// Each cell matches what Compare would return for that single day. Cells are
// independent, so the loop is fanned out over a fixed worker pool; days with
// no observation or with insufficient history come back as unknown cells
// rather than errors.
func BuildCalendarGrid(series models.HistoricalSeries, targetYear int, cfg Config) (CalendarGrid, error) {
	if err := cfg.Validate(); err != nil {
		return CalendarGrid{}, err
	}

	days := daysInYear(targetYear)

	// Candidate values for the target year, keyed by day-of-year.
	candidates := make(map[int]*float64, days)
	for _, rec := range series {
		if rec.Year() == targetYear {
			candidates[rec.DayOfYear] = rec.TempMean
		}
	}

	grid := CalendarGrid{
		Year:  targetYear,
		Cells: make([]GridCell, days),
	}

	jan1 := time.Date(targetYear, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < cfg.workerCount(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doy := range jobs {
				// Disjoint index per job, no locking needed.
				grid.Cells[doy-1] = buildCell(series, targetYear, doy, jan1, candidates[doy], cfg)
			}
		}()
	}

	for doy := 1; doy <= days; doy++ {
		jobs <- doy
	}
	close(jobs)
	wg.Wait()

	return grid, nil
}

func buildCell(series models.HistoricalSeries, targetYear, doy int, jan1 time.Time, candidate *float64, cfg Config) GridCell {
	cell := GridCell{
		DayOfYear:      doy,
		Date:           jan1.AddDate(0, 0, doy-1),
		Classification: ClassUnknown,
	}

	window, err := ExtractWindow(series, doy, cfg.HalfWidth, cfg.MinYear, targetYear-1)
	if err != nil {
		// Insufficient history for this day: an unknown cell, not a failure.
		return cell
	}

	cell.Percentile = RankOf(candidate, window)
	cell.Classification = Classify(cell.Percentile, cfg)
	return cell
}
