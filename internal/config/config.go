// Package config defines service configuration and its loading.
//
// Precedence (low to high): built-in defaults, an optional YAML file named by
// CLIMATE_CONFIG, environment variables prefixed CLIMATE_.
package config

import (
	"time"

	"climate-compare/internal/climate"
	"climate-compare/internal/models"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Database        string        `koanf:"database"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

// CacheConfig configures response memoization.
type CacheConfig struct {
	// CompareTTL bounds how stale a served comparison may be.
	CompareTTL time.Duration `koanf:"compare_ttl"`

	// DailyTTL bounds how stale a cached daily series may be.
	DailyTTL time.Duration `koanf:"daily_ttl"`
}

// StationConfig describes one monitored location and the dataset behind it.
type StationConfig struct {
	ID       string               `koanf:"id"`
	Name     string               `koanf:"name"`
	Table    string               `koanf:"table"`
	RawTable string               `koanf:"raw_table"`
	Mapping  models.ColumnMapping `koanf:"mapping"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// Config contains the full process configuration.
type Config struct {
	Server   ServerConfig    `koanf:"server"`
	Database DatabaseConfig  `koanf:"database"`
	Logging  LoggingConfig   `koanf:"logging"`
	Cache    CacheConfig     `koanf:"cache"`
	Engine   climate.Config  `koanf:"engine"`
	Stations []StationConfig `koanf:"stations"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "climate",
			Password:        "climate",
			Database:        "climate",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Cache: CacheConfig{
			CompareTTL: 5 * time.Minute,
			DailyTTL:   5 * time.Minute,
		},
		Engine: climate.DefaultConfig(),
		Stations: []StationConfig{
			{
				ID:       "lmss",
				Name:     "LMSS",
				Table:    "daily_records",
				RawTable: "raw_observations",
				Mapping:  models.DefaultColumnMapping(),
			},
		},
	}
}

// Validate checks structural validity of the configuration. All failures are
// configuration errors: fatal at startup, never retried.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &models.ConfigurationError{Field: "server.port", Message: "port must be in (0, 65535]"}
	}
	if c.Database.Host == "" {
		return &models.ConfigurationError{Field: "database.host", Message: "database host must not be empty"}
	}
	if c.Cache.CompareTTL < 0 || c.Cache.DailyTTL < 0 {
		return &models.ConfigurationError{Field: "cache", Message: "cache TTLs must not be negative"}
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if len(c.Stations) == 0 {
		return &models.ConfigurationError{Field: "stations", Message: "at least one station must be configured"}
	}

	seen := make(map[string]bool, len(c.Stations))
	for _, st := range c.Stations {
		if st.ID == "" {
			return &models.ConfigurationError{Field: "stations.id", Message: "station id must not be empty"}
		}
		if seen[st.ID] {
			return &models.ConfigurationError{Field: "stations.id", Message: "station id " + st.ID + " is configured twice"}
		}
		seen[st.ID] = true
		if st.Table == "" || st.RawTable == "" {
			return &models.ConfigurationError{Field: "stations." + st.ID, Message: "station tables must not be empty"}
		}
		if err := st.Mapping.Validate(); err != nil {
			return err
		}
	}

	return nil
}
