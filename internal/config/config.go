// Package config loads and validates application configuration from
// defaults, an optional YAML file, and SALESPULSE_-prefixed
// environment variables, in that precedence order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces the environment variables, e.g.
// SALESPULSE_SERVER_PORT.
const envPrefix = "SALESPULSE"

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Ingest  IngestConfig  `yaml:"ingest" envconfig:"INGEST"`
	Geocode GeocodeConfig `yaml:"geocode" envconfig:"GEOCODE"`
	Dataset DatasetConfig `yaml:"dataset" envconfig:"DATASET"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" validate:"gt=0"`
}

// LoggingConfig configures the slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// IngestConfig configures report ingestion.
type IngestConfig struct {
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	// DefaultYear fills in the year for report filenames that carry a
	// month name but no year.
	DefaultYear string `yaml:"default_year" envconfig:"DEFAULT_YEAR" validate:"len=4,numeric"`
}

// GeocodeConfig configures the address geocoder.
type GeocodeConfig struct {
	CacheFile string `yaml:"cache_file" envconfig:"CACHE_FILE" validate:"required"`
	// Online enables Nominatim lookups for cache misses. Off by
	// default: the batch pipeline must work air-gapped.
	Online bool `yaml:"online" envconfig:"ONLINE"`
}

// DatasetConfig configures dataset output.
type DatasetConfig struct {
	OutputFile     string `yaml:"output_file" envconfig:"OUTPUT_FILE" validate:"required"`
	MaxConcurrency int    `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"min=1"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Ingest: IngestConfig{
			ReportsDir:  "dispodata",
			DefaultYear: "2025",
		},
		Geocode: GeocodeConfig{
			CacheFile: "geocoded_cache.json",
			Online:    false,
		},
		Dataset: DatasetConfig{
			OutputFile:     "dispensary_data.json",
			MaxConcurrency: 4,
		},
	}
}

// Load builds the configuration: defaults, overlaid by the YAML file
// at configFile (skipped when empty or missing), overlaid by
// environment variables, then validated.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration's field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
