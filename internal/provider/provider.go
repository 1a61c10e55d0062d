// Package provider defines the pluggable data-retrieval abstraction feeding
// the comparison engine, and a registry of named implementations keyed by
// station id. The engine depends only on the shape of the returned data, not
// on retrieval mechanics.
package provider

import (
	"context"
	"fmt"
	"sort"
	"time"

	"climate-compare/internal/models"
)

// DataProvider supplies observations for one monitored location.
type DataProvider interface {
	// ID returns the stable identifier used in URLs and cache keys.
	ID() string

	// Name returns the display name of the station.
	Name() string

	// GetDailyData returns the full historical daily series available as of
	// d, ordered by date, covering at minimum the configured minimum year
	// through the present.
	GetDailyData(ctx context.Context, d time.Time) (models.HistoricalSeries, error)

	// GetCurrentData returns the raw high-resolution observations recorded
	// on or after d. An empty slice means no data for the day yet.
	GetCurrentData(ctx context.Context, d time.Time) ([]models.RawObservation, error)
}

// UnknownStationError is returned when no provider is registered for an id.
type UnknownStationError struct {
	ID string
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown station: %s", e.ID)
}

// IsTransient returns false: the station set is fixed at startup.
func (e *UnknownStationError) IsTransient() bool {
	return false
}

// Registry holds the named DataProvider implementations. It is populated at
// startup and read-only afterwards, so no locking is needed.
type Registry struct {
	providers map[string]DataProvider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]DataProvider)}
}

// Register adds a provider under its id. Duplicate ids are a configuration
// error.
func (r *Registry) Register(p DataProvider) error {
	if p.ID() == "" {
		return &models.ConfigurationError{
			Field:   "provider",
			Message: "provider id must not be empty",
		}
	}
	if _, exists := r.providers[p.ID()]; exists {
		return &models.ConfigurationError{
			Field:   "provider",
			Message: "provider id " + p.ID() + " is already registered",
		}
	}
	r.providers[p.ID()] = p
	return nil
}

// Get returns the provider registered under id.
func (r *Registry) Get(id string) (DataProvider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, &UnknownStationError{ID: id}
	}
	return p, nil
}

// IDs returns the registered station ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
