package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *ETLConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.Source.validate("database.source"); err != nil {
		return err
	}
	if err := c.Database.Target.validate("database.target"); err != nil {
		return err
	}

	if c.Extract.Limit < 1 {
		return errors.New("extract.limit must be >= 1")
	}
	if c.Extract.Since != "" {
		if _, err := c.Extract.SinceTime(); err != nil {
			return fmt.Errorf("extract.since: %w", err)
		}
	}

	if len(c.Pipeline.Locations) > 0 && len(c.Pipeline.Mapping) > 0 {
		return errors.New("pipeline.locations and pipeline.mapping are mutually exclusive")
	}

	if c.Scheduler.Interval < time.Minute {
		return fmt.Errorf("scheduler.interval must be >= 1m, got %s", c.Scheduler.Interval)
	}
	if c.Scheduler.RetryDelay < 0 {
		return errors.New("scheduler.retry_delay must be >= 0")
	}

	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return errors.New("archive.bucket is required when archive is enabled")
	}
	if (c.Archive.AccessKeyID == "") != (c.Archive.SecretAccessKey == "") {
		return errors.New("archive.access_key_id and archive.secret_access_key must be set together")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	switch db.Driver {
	case DriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("%s.path is required for the sqlite driver", prefix)
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("%s.driver %q is not supported", prefix, db.Driver)
	}

	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
