package repository

import (
	"context"
	"fmt"
	"time"

	"climate-compare/internal/models"
	"climate-compare/pkg/database"
	"climate-compare/pkg/logging"
	"climate-compare/pkg/metrics"
)

// DailyRepository is the write path for daily records, used by the loader.
// The read path lives in the provider package.
type DailyRepository interface {
	// UpsertDailyBatch writes a batch of daily records for a station in a
	// single transaction, replacing existing rows for the same date.
	UpsertDailyBatch(ctx context.Context, stationID string, records []models.DailyRecord) error

	HealthCheck(ctx context.Context) error
}

// dailyRepository implements DailyRepository over PostgreSQL.
type dailyRepository struct {
	db      *database.PostgresDB
	table   string
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewDailyRepository creates a repository writing to the given table.
func NewDailyRepository(db *database.PostgresDB, table string, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) DailyRepository {
	return &dailyRepository{
		db:      db,
		table:   table,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// upsertQuery returns the batched upsert statement. The table name comes from
// validated configuration. Every NOT NULL column of the schema must be bound
// here; day_of_year in particular carries no default.
func upsertQuery(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (station_id, date, temp_min, temp_max, temp_mean, day_of_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (station_id, date) DO UPDATE SET
			temp_min = EXCLUDED.temp_min,
			temp_max = EXCLUDED.temp_max,
			temp_mean = EXCLUDED.temp_mean,
			day_of_year = EXCLUDED.day_of_year
	`, table)
}

// UpsertDailyBatch writes the records in one transaction.
func (r *dailyRepository) UpsertDailyBatch(ctx context.Context, stationID string, records []models.DailyRecord) error {
	if len(records) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		r.metrics.LoaderBatchSize.Observe(float64(len(records)))
		r.logger.Debug(ctx, "[REPO_BATCH_UPSERT] Batch upsert completed", logging.Fields{
			"station_id":  stationID,
			"count":       len(records),
			"duration_ms": time.Since(timer).Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertQuery(r.table))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			stationID,
			rec.Date,
			rec.TempMin,
			rec.TempMax,
			rec.TempMean,
			rec.DayOfYear,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert daily record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.LoaderRecordsTotal.Add(float64(len(records)))

	return nil
}

// HealthCheck performs a repository health check.
func (r *dailyRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
