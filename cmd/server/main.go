package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"climate-compare/internal/config"
	"climate-compare/internal/handlers"
	"climate-compare/internal/provider"
	"climate-compare/internal/services"
	"climate-compare/pkg/database"
	"climate-compare/pkg/logging"
	"climate-compare/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("climate-api", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting climate comparison API server", logging.Fields{
		"version":     "1.0.0",
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"db_host":     cfg.Database.Host,
		"db_name":     cfg.Database.Database,
		"stations":    len(cfg.Stations),
	})

	metricsCollector := metrics.NewCollector("climate_compare")

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
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// One provider per configured station
	registry := provider.NewRegistry()
	for _, st := range cfg.Stations {
		p, err := provider.NewPostgresProvider(st.ID, st.Name, db, logger, st.Mapping, st.Table, st.RawTable)
		if err != nil {
			logger.Fatal(ctx, "[STARTUP_ERROR] Failed to build station provider", logging.Fields{
				"station_id": st.ID,
			}, err)
		}
		if err := registry.Register(p); err != nil {
			logger.Fatal(ctx, "[STARTUP_ERROR] Failed to register station provider", logging.Fields{
				"station_id": st.ID,
			}, err)
		}
	}

	comparisonService := services.NewComparisonService(
		registry,
		cfg.Engine,
		cfg.Cache,
		clockwork.NewRealClock(),
		logger,
		metricsCollector,
	)

	climateHandler := handlers.NewClimateHandler(comparisonService, logger, metricsCollector)

	router := mux.NewRouter()
	router.Use(handlers.RequestIDMiddleware)
	climateHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.HandlerFor(metricsCollector.Registry(), promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
