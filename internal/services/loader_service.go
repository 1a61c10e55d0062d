package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"climate-compare/internal/models"
	"climate-compare/internal/repository"
	"climate-compare/pkg/logging"
	"climate-compare/pkg/metrics"
)

// LoaderResult summarizes one CSV load run.
type LoaderResult struct {
	TotalRows   int
	LoadedRows  int
	SkippedRows int
	Duration    time.Duration
	Errors      []string
}

// LoaderService ingests daily records from CSV files into the database. The
// column mapping translates the file's header names onto the canonical roles,
// so exports from different station systems load without reformatting.
type LoaderService struct {
	repo    repository.DailyRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewLoaderService creates a loader service.
func NewLoaderService(repo repository.DailyRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *LoaderService {
	return &LoaderService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// LoadCSV reads daily records from r and upserts them in batches. The first
// row must be a header containing at least the mapped datetime column;
// temperature columns are optional per row (empty cells become nil).
func (s *LoaderService) LoadCSV(ctx context.Context, stationID string, r io.Reader, mapping models.ColumnMapping, batchSize int) (*LoaderResult, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	if batchSize < 1 {
		batchSize = 1000
	}

	start := time.Now()
	result := &LoaderResult{}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	dateIdx, ok := cols[mapping.Datetime]
	if !ok {
		return nil, &models.ConfigurationError{
			Field:   "datetime",
			Message: "CSV header has no column " + mapping.Datetime,
		}
	}
	minIdx, hasMin := cols[mapping.TempMin]
	maxIdx, hasMax := cols[mapping.TempMax]
	meanIdx, hasMean := cols[mapping.TempMean]

	batch := make([]models.DailyRecord, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.repo.UpsertDailyBatch(ctx, stationID, batch); err != nil {
			return err
		}
		result.LoadedRows += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.metrics.RecordLoaderError("read_error")
			result.Errors = append(result.Errors, err.Error())
			result.SkippedRows++
			continue
		}
		result.TotalRows++

		date, err := parseDate(row[dateIdx])
		if err != nil {
			s.metrics.RecordLoaderError("bad_date")
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", result.TotalRows, err))
			result.SkippedRows++
			continue
		}

		var tempMin, tempMax, tempMean *float64
		if hasMin {
			tempMin = parseOptionalFloat(row, minIdx)
		}
		if hasMax {
			tempMax = parseOptionalFloat(row, maxIdx)
		}
		if hasMean {
			tempMean = parseOptionalFloat(row, meanIdx)
		}

		batch = append(batch, models.NewDailyRecord(date, tempMin, tempMax, tempMean))
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)

	s.logger.Info(ctx, "[LOADER_DONE] CSV load completed", logging.Fields{
		"station_id":   stationID,
		"total_rows":   result.TotalRows,
		"loaded_rows":  result.LoadedRows,
		"skipped_rows": result.SkippedRows,
		"duration_ms":  result.Duration.Milliseconds(),
	})

	return result, nil
}

// parseDate accepts the two date shapes seen in station exports.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseOptionalFloat returns nil for absent or malformed cells.
func parseOptionalFloat(row []string, idx int) *float64 {
	if idx >= len(row) || row[idx] == "" {
		return nil
	}
	v, err := strconv.ParseFloat(row[idx], 64)
	if err != nil {
		return nil
	}
	return &v
}
