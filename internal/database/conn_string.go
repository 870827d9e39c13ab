package database

import (
	"fmt"
	"net/url"

	"github.com/rickgao/airq-etl/internal/config"
)

// ApplicationName tags sessions opened by this service in pg_stat_activity.
const ApplicationName = "airjoin"

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("application_name", ApplicationName)

	// URL-encode password to handle special characters
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		cfg.Name,
		query.Encode(),
	)
}

// SQLiteDSN builds a modernc sqlite DSN that waits on locks instead of
// failing immediately.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}
