package provider

import (
	"errors"
	"io"
	"strings"
	"testing"

	"climate-compare/internal/models"
	"climate-compare/pkg/logging"
)

func testLogger() *logging.StructuredLogger {
	l := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	l.SetOutput(io.Discard)
	return l
}

func newTestProvider(t *testing.T, mapping models.ColumnMapping) *PostgresProvider {
	t.Helper()
	p, err := NewPostgresProvider("lmss", "LMSS", nil, testLogger(), mapping, "daily_records", "raw_observations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestQueriesFilterByStation(t *testing.T) {
	p := newTestProvider(t, models.DefaultColumnMapping())

	// The daily and raw tables are shared across stations; a provider that
	// reads without a station predicate merges foreign stations into its own
	// climate record.
	if !strings.Contains(p.dailyQuery, "station_id = $1") {
		t.Errorf("daily query has no station predicate:\n%s", p.dailyQuery)
	}
	if !strings.Contains(p.currentQuery, "station_id = $1") {
		t.Errorf("current query has no station predicate:\n%s", p.currentQuery)
	}
}

func TestDailyQuerySelectsExtremes(t *testing.T) {
	p := newTestProvider(t, models.DefaultColumnMapping())

	// Rows stored with extremes but no mean rely on the record constructor
	// deriving the mean, so both extremes must be selected.
	for _, alias := range []string{"AS temp_min", "AS temp_max", "AS temp_mean", "AS doy", "AS date"} {
		if !strings.Contains(p.dailyQuery, alias) {
			t.Errorf("daily query does not select %s:\n%s", alias, p.dailyQuery)
		}
	}
}

func TestQueriesApplyColumnMapping(t *testing.T) {
	mapping, err := models.NewColumnMapping("obs_date", "tavg", "tmax", "tmin", "yday")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := newTestProvider(t, mapping)

	for _, want := range []string{"obs_date AS date", "tmin AS temp_min", "tmax AS temp_max", "tavg AS temp_mean", "yday AS doy"} {
		if !strings.Contains(p.dailyQuery, want) {
			t.Errorf("daily query does not map %q:\n%s", want, p.dailyQuery)
		}
	}
	if !strings.Contains(p.currentQuery, "obs_date AS observed_at") {
		t.Errorf("current query does not map the datetime column:\n%s", p.currentQuery)
	}
}

func TestNewPostgresProviderInvalidMapping(t *testing.T) {
	mapping := models.DefaultColumnMapping()
	mapping.TempMean = ""

	_, err := NewPostgresProvider("lmss", "LMSS", nil, testLogger(), mapping, "daily_records", "raw_observations")
	var confErr *models.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestNewPostgresProviderEmptyTables(t *testing.T) {
	_, err := NewPostgresProvider("lmss", "LMSS", nil, testLogger(), models.DefaultColumnMapping(), "", "raw_observations")
	var confErr *models.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}
