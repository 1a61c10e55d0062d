package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"climate-compare/internal/config"
	"climate-compare/internal/models"
	"climate-compare/internal/repository"
	"climate-compare/internal/services"
	"climate-compare/pkg/database"
	"climate-compare/pkg/logging"
	"climate-compare/pkg/metrics"
)

func main() {
	file := flag.String("file", "", "CSV file with daily records")
	station := flag.String("station", "", "Station id the records belong to")
	batchSize := flag.Int("batch-size", 1000, "Number of records per database batch")
	flag.Parse()

	if *file == "" || *station == "" {
		fmt.Fprintln(os.Stderr, "both -file and -station are required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("climate-loader", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[LOADER_START] Starting daily record load", logging.Fields{
		"file":       *file,
		"station_id": *station,
		"batch_size": *batchSize,
	})

	// The station's configured mapping names the CSV columns; a station that
	// is not configured loads with the canonical header names.
	mapping := models.DefaultColumnMapping()
	table := "daily_records"
	for _, st := range cfg.Stations {
		if st.ID == *station {
			mapping = st.Mapping
			table = st.Table
			break
		}
	}

	metricsCollector := metrics.NewCollector("climate_loader")

	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[LOADER_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	repo := repository.NewDailyRepository(db, table, logger, metricsCollector)
	loader := services.NewLoaderService(repo, logger, metricsCollector)

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal(ctx, "[LOADER_ERROR] Failed to open input file", logging.Fields{
			"file": *file,
		}, err)
	}
	defer f.Close()

	result, err := loader.LoadCSV(ctx, *station, f, mapping, *batchSize)
	if err != nil {
		logger.Fatal(ctx, "[LOADER_ERROR] Load failed", logging.Fields{
			"file": *file,
		}, err)
	}

	fmt.Println("LOAD COMPLETE")
	fmt.Printf("Total Rows:   %d\n", result.TotalRows)
	fmt.Printf("Loaded Rows:  %d\n", result.LoadedRows)
	fmt.Printf("Skipped Rows: %d\n", result.SkippedRows)
	fmt.Printf("Duration:     %v\n", result.Duration)

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for i, errMsg := range result.Errors {
			if i >= 10 {
				fmt.Printf("  ... and %d more errors\n", len(result.Errors)-10)
				break
			}
			fmt.Printf("  - %s\n", errMsg)
		}
	}
}
