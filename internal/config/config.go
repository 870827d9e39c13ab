package config

import (
	"time"

	"github.com/rickgao/airq-etl/internal/location"
	"github.com/rickgao/airq-etl/internal/model"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ETLConfig is the root configuration for an airjoin instance.
type ETLConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Database  DatabaseConfig  `yaml:"database"`
	Extract   ExtractConfig   `yaml:"extract"`
	Load      LoadConfig      `yaml:"load"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DatabaseConfig holds the upstream (source) and reconciled (target) databases.
type DatabaseConfig struct {
	Source DBConfig `yaml:"source"`
	Target DBConfig `yaml:"target"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Driver   string `yaml:"driver"` // "postgres" or "sqlite"
	Path     string `yaml:"path"`   // sqlite file path
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ExtractConfig bounds the snapshot read from the source tables.
type ExtractConfig struct {
	Schema       string `yaml:"schema"`
	SourceATable string `yaml:"source_a_table"`
	SourceBTable string `yaml:"source_b_table"`
	Limit        int    `yaml:"limit"`
	Since        string `yaml:"since"` // overrides the target watermark when set
}

// LoadConfig names the reconciled output table.
type LoadConfig struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
}

// PipelineConfig selects the locations in scope. At most one of Locations
// and Mapping may be set; neither means every registry location.
type PipelineConfig struct {
	Locations []string                   `yaml:"locations"`
	Mapping   map[string]location.IDPair `yaml:"mapping"`
}

// SchedulerConfig holds the periodic trigger settings.
type SchedulerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Retries    int           `yaml:"retries"` // negative disables retries
	RunOnStart bool          `yaml:"run_on_start"`
}

// ArchiveConfig holds the optional S3 export settings.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`

	// Static credentials; empty falls back to the default AWS chain.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// SinceTime parses the Since override. A zero time means no override.
func (e ExtractConfig) SinceTime() (time.Time, error) {
	if e.Since == "" {
		return time.Time{}, nil
	}
	return model.ParseTimestamp(e.Since)
}

// Selector converts the pipeline section into a location selector.
func (p PipelineConfig) Selector() location.Selector {
	switch {
	case len(p.Mapping) > 0:
		return location.ExplicitMapping(p.Mapping)
	case len(p.Locations) > 0:
		return location.NamedSubset(p.Locations...)
	default:
		return location.AllLocations()
	}
}
