package climate

import (
	"runtime"

	"climate-compare/internal/models"
)

// Default engine parameters, matching the station's public comparison display.
const (
	DefaultHalfWidth         = 7
	DefaultMinYear           = 1900
	DefaultLowPercentile     = 5
	DefaultMidLowPercentile  = 25
	DefaultMidHighPercentile = 75
	DefaultHighPercentile    = 95
	DefaultBinCount          = 30
)

// Config holds the tunable parameters of the comparison engine.
type Config struct {
	// HalfWidth is the day-of-year window half-width W. A window around a
	// target day contains records within W days of it, counted circularly.
	HalfWidth int `koanf:"half_width"`

	// MinYear excludes observations from before this year. Supports cutting
	// off unreliable early station records.
	MinYear int `koanf:"min_year"`

	// Percentile thresholds driving classification. Must satisfy
	// low < mid_low < 50 < mid_high < high.
	LowPercentile     float64 `koanf:"low_percentile"`
	MidLowPercentile  float64 `koanf:"mid_low_percentile"`
	MidHighPercentile float64 `koanf:"mid_high_percentile"`
	HighPercentile    float64 `koanf:"high_percentile"`

	// BinCount is the number of histogram bins in a distribution summary.
	BinCount int `koanf:"bin_count"`

	// Workers bounds the calendar grid worker pool. Zero means NumCPU.
	Workers int `koanf:"workers"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		HalfWidth:         DefaultHalfWidth,
		MinYear:           DefaultMinYear,
		LowPercentile:     DefaultLowPercentile,
		MidLowPercentile:  DefaultMidLowPercentile,
		MidHighPercentile: DefaultMidHighPercentile,
		HighPercentile:    DefaultHighPercentile,
		BinCount:          DefaultBinCount,
		Workers:           0,
	}
}

// Validate checks structural validity of the engine parameters.
func (c Config) Validate() error {
	if c.HalfWidth < 0 {
		return &models.ConfigurationError{
			Field:   "half_width",
			Message: "window half-width must not be negative",
		}
	}
	if c.MinYear <= 0 {
		return &models.ConfigurationError{
			Field:   "min_year",
			Message: "minimum year must be positive",
		}
	}
	if c.BinCount < 1 {
		return &models.ConfigurationError{
			Field:   "bin_count",
			Message: "histogram bin count must be at least 1",
		}
	}
	if c.Workers < 0 {
		return &models.ConfigurationError{
			Field:   "workers",
			Message: "worker count must not be negative",
		}
	}
	if !(c.LowPercentile < c.MidLowPercentile &&
		c.MidLowPercentile < 50 &&
		50 < c.MidHighPercentile &&
		c.MidHighPercentile < c.HighPercentile) {
		return &models.ConfigurationError{
			Field:   "percentile thresholds",
			Message: "thresholds must satisfy low < mid_low < 50 < mid_high < high",
		}
	}
	if c.LowPercentile < 0 || c.HighPercentile > 100 {
		return &models.ConfigurationError{
			Field:   "percentile thresholds",
			Message: "thresholds must lie within [0, 100]",
		}
	}
	return nil
}

// workerCount resolves the effective pool size.
func (c Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
