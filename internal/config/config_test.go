package config

import (
	"errors"
	"testing"

	"climate-compare/internal/models"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Fatalf("default configuration failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"empty db host", func(c *Config) { c.Database.Host = "" }},
		{"negative compare ttl", func(c *Config) { c.Cache.CompareTTL = -1 }},
		{"bad engine thresholds", func(c *Config) { c.Engine.LowPercentile = 60 }},
		{"no stations", func(c *Config) { c.Stations = nil }},
		{"empty station id", func(c *Config) { c.Stations[0].ID = "" }},
		{"empty station table", func(c *Config) { c.Stations[0].Table = "" }},
		{"unbound mapping role", func(c *Config) { c.Stations[0].Mapping.Datetime = "" }},
		{"duplicate station id", func(c *Config) {
			c.Stations = append(c.Stations, c.Stations[0])
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)

			err := cfg.Validate()
			var confErr *models.ConfigurationError
			if !errors.As(err, &confErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
		})
	}
}

func TestDefaultStation(t *testing.T) {
	cfg := New()

	if len(cfg.Stations) != 1 {
		t.Fatalf("expected one default station, got %d", len(cfg.Stations))
	}
	st := cfg.Stations[0]
	if st.ID != "lmss" || st.Table != "daily_records" || st.RawTable != "raw_observations" {
		t.Errorf("unexpected default station: %+v", st)
	}
}
