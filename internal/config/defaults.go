package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDriver        = DriverPostgres
	DefaultDBPort        = 5432
	DefaultDBSSLMode     = "prefer"
	DefaultMaxConns      = 4
	DefaultMinConns      = 1
	DefaultSourceATable  = "PurpleAirData"
	DefaultSourceBTable  = "Registros"
	DefaultExtractLimit  = 100
	DefaultLoadTable     = "transformed"
	DefaultInterval      = 24 * time.Hour
	DefaultRetryDelay    = 1 * time.Minute
	DefaultRetries       = 1
	DefaultArchiveRegion = "us-east-1"
	DefaultMetricsPort   = 9090
	DefaultMetricsPath   = "/metrics"
)

func (c *ETLConfig) applyDefaults() {
	// Database defaults
	applyDBDefaults(&c.Database.Source)
	applyDBDefaults(&c.Database.Target)

	// Extract defaults
	if c.Extract.SourceATable == "" {
		c.Extract.SourceATable = DefaultSourceATable
	}
	if c.Extract.SourceBTable == "" {
		c.Extract.SourceBTable = DefaultSourceBTable
	}
	if c.Extract.Limit == 0 {
		c.Extract.Limit = DefaultExtractLimit
	}

	// Load defaults
	if c.Load.Table == "" {
		c.Load.Table = DefaultLoadTable
	}

	// Scheduler defaults
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = DefaultInterval
	}
	if c.Scheduler.RetryDelay == 0 {
		c.Scheduler.RetryDelay = DefaultRetryDelay
	}
	if c.Scheduler.Retries == 0 {
		c.Scheduler.Retries = DefaultRetries
	}

	// Archive defaults
	if c.Archive.Region == "" {
		c.Archive.Region = DefaultArchiveRegion
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Driver == "" {
		db.Driver = DefaultDriver
	}
	if db.Driver != DriverPostgres {
		return
	}
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
