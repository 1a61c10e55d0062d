package provider

import (
	"context"
	"fmt"
	"time"

	"climate-compare/internal/models"
	"climate-compare/pkg/database"
	"climate-compare/pkg/logging"
)

// PostgresProvider reads a station's observations from PostgreSQL. The
// column mapping translates the engine's canonical roles onto whatever the
// backing tables call their columns, so legacy station schemas work without
// migration.
type PostgresProvider struct {
	id       string
	name     string
	db       *database.PostgresDB
	logger   *logging.ContextLogger
	mapping  models.ColumnMapping
	table    string
	rawTable string

	dailyQuery   string
	currentQuery string
}

// NewPostgresProvider builds a provider for one station. The mapping must be
// valid; table and rawTable name the daily and raw observation tables.
func NewPostgresProvider(
	id, name string,
	db *database.PostgresDB,
	logger *logging.StructuredLogger,
	mapping models.ColumnMapping,
	table, rawTable string,
) (*PostgresProvider, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	if table == "" || rawTable == "" {
		return nil, &models.ConfigurationError{
			Field:   "provider." + id,
			Message: "daily and raw table names must not be empty",
		}
	}

	p := &PostgresProvider{
		id:       id,
		name:     name,
		db:       db,
		logger:   logger.WithFields(logging.Fields{"station": id}),
		mapping:  mapping,
		table:    table,
		rawTable: rawTable,
	}

	// Identifiers come from validated configuration, not request input. Both
	// tables are shared across stations, so every read filters on station_id.
	p.dailyQuery = fmt.Sprintf(`
		SELECT
			%s AS date,
			%s AS temp_min,
			%s AS temp_max,
			%s AS temp_mean,
			%s AS doy
		FROM %s
		WHERE station_id = $1 AND %s <= $2
		ORDER BY %s
	`, mapping.Datetime, mapping.TempMin, mapping.TempMax, mapping.TempMean, mapping.DayOfYear, table, mapping.Datetime, mapping.Datetime)

	p.currentQuery = fmt.Sprintf(`
		SELECT
			%s AS observed_at,
			%s AS temp_min,
			%s AS temp_max
		FROM %s
		WHERE station_id = $1 AND %s >= $2
		ORDER BY %s
	`, mapping.Datetime, mapping.TempMin, mapping.TempMax, rawTable, mapping.Datetime, mapping.Datetime)

	return p, nil
}

// ID returns the station identifier.
func (p *PostgresProvider) ID() string { return p.id }

// Name returns the station display name.
func (p *PostgresProvider) Name() string { return p.name }

// dailyRow is the scan target for the daily query.
type dailyRow struct {
	Date      time.Time `db:"date"`
	TempMin   *float64  `db:"temp_min"`
	TempMax   *float64  `db:"temp_max"`
	TempMean  *float64  `db:"temp_mean"`
	DayOfYear int       `db:"doy"`
}

// GetDailyData returns the full daily series up to and including d.
func (p *PostgresProvider) GetDailyData(ctx context.Context, d time.Time) (models.HistoricalSeries, error) {
	var rows []dailyRow
	if err := p.db.SelectContext(ctx, "get_daily_data", &rows, p.dailyQuery, p.id, d); err != nil {
		return nil, fmt.Errorf("failed to load daily series for %s: %w", p.id, err)
	}

	series := make(models.HistoricalSeries, 0, len(rows))
	for _, row := range rows {
		// The constructor derives a missing mean from the extremes.
		rec, err := models.NewDailyRecordWithDayOfYear(row.Date, row.TempMin, row.TempMax, row.TempMean, row.DayOfYear)
		if err != nil {
			p.logger.Warn(ctx, "[PROVIDER_BAD_ROW] Skipping inconsistent daily row", logging.Fields{
				"date": row.Date.Format("2006-01-02"),
				"doy":  row.DayOfYear,
			})
			continue
		}
		series = append(series, rec)
	}

	p.logger.Debug(ctx, "[PROVIDER_DAILY] Daily series loaded", logging.Fields{
		"records": len(series),
	})

	return series, nil
}

// GetCurrentData returns today's raw observations, recorded on or after d.
func (p *PostgresProvider) GetCurrentData(ctx context.Context, d time.Time) ([]models.RawObservation, error) {
	var rows []models.RawObservation
	if err := p.db.SelectContext(ctx, "get_current_data", &rows, p.currentQuery, p.id, d); err != nil {
		return nil, fmt.Errorf("failed to load current observations for %s: %w", p.id, err)
	}

	p.logger.Debug(ctx, "[PROVIDER_CURRENT] Current observations loaded", logging.Fields{
		"records": len(rows),
	})

	return rows, nil
}
