package models

import (
	"time"
)

// DailyRecord is one daily observation for a station.
// Missing values are represented as nil pointers, never as sentinels.
type DailyRecord struct {
	Date      time.Time `json:"date" db:"date"`
	TempMin   *float64  `json:"temp_min,omitempty" db:"temp_min"`
	TempMax   *float64  `json:"temp_max,omitempty" db:"temp_max"`
	TempMean  *float64  `json:"temp_mean,omitempty" db:"temp_mean"`
	DayOfYear int       `json:"day_of_year" db:"doy"`
}

// NewDailyRecord builds a record for the given date. DayOfYear is always
// computed from the date. When tempMean is nil and both extremes are present,
// the mean is derived as (min+max)/2.
func NewDailyRecord(date time.Time, tempMin, tempMax, tempMean *float64) DailyRecord {
	if tempMean == nil && tempMin != nil && tempMax != nil {
		mean := (*tempMin + *tempMax) / 2
		tempMean = &mean
	}

	return DailyRecord{
		Date:      date,
		TempMin:   tempMin,
		TempMax:   tempMax,
		TempMean:  tempMean,
		DayOfYear: date.YearDay(),
	}
}

// NewDailyRecordWithDayOfYear builds a record from a source that carries its
// own day-of-year field (e.g. a database DOY column). The supplied value must
// agree with the date; a mismatch means the source data is corrupt.
func NewDailyRecordWithDayOfYear(date time.Time, tempMin, tempMax, tempMean *float64, dayOfYear int) (DailyRecord, error) {
	rec := NewDailyRecord(date, tempMin, tempMax, tempMean)
	if dayOfYear != rec.DayOfYear {
		return DailyRecord{}, &ValidationError{
			Field:   "day_of_year",
			Message: "day_of_year does not match the record date",
		}
	}
	return rec, nil
}

// Year returns the calendar year of the record.
func (r DailyRecord) Year() int {
	return r.Date.Year()
}

// HistoricalSeries is a date-ordered collection of daily records spanning
// multiple years for one location. The engine only ever reads it.
type HistoricalSeries []DailyRecord

// Years returns the first and last calendar year covered by the series.
// Both are zero for an empty series.
func (s HistoricalSeries) Years() (first, last int) {
	if len(s) == 0 {
		return 0, 0
	}
	return s[0].Year(), s[len(s)-1].Year()
}

// RawObservation is a single high-resolution reading from a station, before
// daily aggregation. Used for the current (incomplete) day only.
type RawObservation struct {
	ObservedAt time.Time `json:"observed_at" db:"observed_at"`
	TempMin    *float64  `json:"temp_min,omitempty" db:"temp_min"`
	TempMax    *float64  `json:"temp_max,omitempty" db:"temp_max"`
}
