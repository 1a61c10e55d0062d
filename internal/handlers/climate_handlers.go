package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"climate-compare/internal/climate"
	"climate-compare/internal/provider"
	"climate-compare/internal/services"
	"climate-compare/pkg/logging"
	"climate-compare/pkg/metrics"
)

// ComparisonAPI is the slice of the comparison service the handlers need.
type ComparisonAPI interface {
	Stations() []services.StationInfo
	CompareToday(ctx context.Context, stationID string) (*services.ComparisonReport, error)
	CalendarForYear(ctx context.Context, stationID string, year int) (*climate.CalendarGrid, error)
}

// ClimateHandler handles the comparison API endpoints
type ClimateHandler struct {
	service ComparisonAPI
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewClimateHandler creates a new climate handler
func NewClimateHandler(service ComparisonAPI, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ClimateHandler {
	return &ClimateHandler{
		service: service,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// GetStations handles GET /api/stations
func (h *ClimateHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordAPIRequest("/api/stations", "GET", "200")
	h.sendJSON(w, h.service.Stations(), http.StatusOK)
}

// GetComparison handles GET /api/isithot/{station}
func (h *ClimateHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/isithot").Observe(time.Since(startTime).Seconds())
	}()

	station := mux.Vars(r)["station"]

	report, err := h.service.CompareToday(ctx, station)
	if err != nil {
		h.handleServiceError(ctx, w, r, "/api/isithot", station, err)
		return
	}

	h.metrics.RecordAPIRequest("/api/isithot", "GET", "200")
	h.sendJSON(w, report, http.StatusOK)
}

// GetCalendar handles GET /api/isithot/{station}/calendar/{year}
func (h *ClimateHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/isithot/calendar").Observe(time.Since(startTime).Seconds())
	}()

	vars := mux.Vars(r)
	station := vars["station"]

	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		h.sendError(w, r, "invalid year, expected an integer", http.StatusBadRequest)
		return
	}

	grid, err := h.service.CalendarForYear(ctx, station, year)
	if err != nil {
		h.handleServiceError(ctx, w, r, "/api/isithot/calendar", station, err)
		return
	}

	h.metrics.RecordAPIRequest("/api/isithot/calendar", "GET", "200")
	h.sendJSON(w, grid, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *ClimateHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	h.sendJSON(w, status, http.StatusOK)
}

// handleServiceError maps service errors onto HTTP responses.
func (h *ClimateHandler) handleServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, endpoint, station string, err error) {
	var unknownStation *provider.UnknownStationError
	if errors.As(err, &unknownStation) {
		h.sendError(w, r, err.Error(), http.StatusNotFound)
		return
	}

	var yearRange *services.YearRangeError
	if errors.As(err, &yearRange) {
		h.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Error(ctx, "[API_ERROR] Request failed", logging.Fields{
		"endpoint": endpoint,
		"station":  station,
	}, err)
	h.metrics.RecordAPIError("internal_error", endpoint)
	h.sendError(w, r, "failed to compute comparison", http.StatusInternalServerError)
}

// sendJSON sends a JSON response
func (h *ClimateHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *ClimateHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all comparison API routes
func (h *ClimateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/stations", h.GetStations).Methods("GET")
	router.HandleFunc("/api/isithot/{station}", h.GetComparison).Methods("GET")
	router.HandleFunc("/api/isithot/{station}/calendar/{year}", h.GetCalendar).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
