package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"climate-compare/internal/climate"
	"climate-compare/internal/provider"
	"climate-compare/internal/services"
	"climate-compare/pkg/logging"
	"climate-compare/pkg/metrics"
)

// stubService is a canned ComparisonAPI for handler tests.
type stubService struct {
	stations []services.StationInfo
	report   *services.ComparisonReport
	grid     *climate.CalendarGrid
	err      error
}

func (s *stubService) Stations() []services.StationInfo {
	return s.stations
}

func (s *stubService) CompareToday(ctx context.Context, stationID string) (*services.ComparisonReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func (s *stubService) CalendarForYear(ctx context.Context, stationID string, year int) (*climate.CalendarGrid, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.grid, nil
}

func newTestHandler(service ComparisonAPI) *ClimateHandler {
	logger := logging.NewStructuredLogger("test", "test", logging.FatalLevel)
	logger.SetOutput(io.Discard)
	return NewClimateHandler(service, logger, metrics.NewCollector("test"))
}

func serve(h *ClimateHandler, method, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetStations(t *testing.T) {
	h := newTestHandler(&stubService{
		stations: []services.StationInfo{{ID: "lmss", Name: "LMSS"}},
	})

	rec := serve(h, "GET", "/api/stations")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var infos []services.StationInfo
	if err := json.NewDecoder(rec.Body).Decode(&infos); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "lmss" {
		t.Errorf("unexpected stations: %+v", infos)
	}
}

func TestGetComparison(t *testing.T) {
	h := newTestHandler(&stubService{
		report: &services.ComparisonReport{
			StationID:      "lmss",
			Date:           "2025-06-15",
			Verdict:        "Yup",
			Classification: climate.ClassWarm,
		},
	})

	rec := serve(h, "GET", "/api/isithot/lmss")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var report services.ComparisonReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.Verdict != "Yup" || report.Classification != climate.ClassWarm {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestGetComparisonUnknownStation(t *testing.T) {
	h := newTestHandler(&stubService{err: &provider.UnknownStationError{ID: "nowhere"}})

	rec := serve(h, "GET", "/api/isithot/nowhere")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Code != http.StatusNotFound {
		t.Errorf("error code = %d, want 404", resp.Code)
	}
}

func TestGetCalendar(t *testing.T) {
	h := newTestHandler(&stubService{
		grid: &climate.CalendarGrid{Year: 2024, Cells: make([]climate.GridCell, 366)},
	})

	rec := serve(h, "GET", "/api/isithot/lmss/calendar/2024")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var grid climate.CalendarGrid
	if err := json.NewDecoder(rec.Body).Decode(&grid); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if grid.Year != 2024 || len(grid.Cells) != 366 {
		t.Errorf("unexpected grid: year %d with %d cells", grid.Year, len(grid.Cells))
	}
}

func TestGetCalendarBadYear(t *testing.T) {
	h := newTestHandler(&stubService{})

	rec := serve(h, "GET", "/api/isithot/lmss/calendar/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetCalendarYearOutOfRange(t *testing.T) {
	h := newTestHandler(&stubService{err: &services.YearRangeError{Year: 1800, Min: 1900, Max: 2025}})

	rec := serve(h, "GET", "/api/isithot/lmss/calendar/1800")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetComparisonInternalError(t *testing.T) {
	h := newTestHandler(&stubService{err: io.ErrUnexpectedEOF})

	rec := serve(h, "GET", "/api/isithot/lmss")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(&stubService{})

	rec := serve(h, "GET", "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", status["status"])
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(logging.RequestIDKey).(string)
	})

	rec := httptest.NewRecorder()
	RequestIDMiddleware(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Error("no request id attached to the context")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Error("response header does not echo the request id")
	}
}

func TestRequestIDMiddlewareKeepsClientID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(logging.RequestIDKey).(string)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	RequestIDMiddleware(inner).ServeHTTP(httptest.NewRecorder(), req)

	if seen != "client-supplied" {
		t.Errorf("request id = %q, want client-supplied", seen)
	}
}
