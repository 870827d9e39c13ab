package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/airq-etl/internal/model"
)

// undefinedTable is the PostgreSQL SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// PostgresWriter replaces the reconciled table in PostgreSQL.
type PostgresWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Database
	db *pgxpool.Pool

	// Metrics
	mu      sync.Mutex
	metrics WriterMetrics
}

// NewPostgresWriter creates a new PostgresWriter.
func NewPostgresWriter(cfg WriterConfig, db *pgxpool.Pool, logger *slog.Logger) *PostgresWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// Stats returns current metrics.
func (w *PostgresWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// LatestTimestamp returns MAX("Dia") of the output table.
func (w *PostgresWriter) LatestTimestamp(ctx context.Context) (time.Time, bool, error) {
	var latest *time.Time
	err := w.db.QueryRow(ctx, fmt.Sprintf(`SELECT MAX("Dia") FROM %s`, w.ident().Sanitize())).Scan(&latest)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("select latest: %w", err)
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return model.CanonicalTime(*latest), true, nil
}

// Replace drops, recreates and bulk-loads the table in one transaction.
func (w *PostgresWriter) Replace(ctx context.Context, records []model.UnifiedRecord) (int64, error) {
	start := time.Now()

	n, err := w.replace(ctx, records)
	if err != nil {
		w.logger.Error("replace failed", "error", err, "table", w.cfg.Table, "count", len(records))
		w.mu.Lock()
		w.metrics.Errors++
		w.mu.Unlock()
		return 0, err
	}

	w.mu.Lock()
	w.metrics.Replaces++
	w.metrics.Rows += n
	w.mu.Unlock()

	w.logger.Debug("replaced table",
		"table", w.cfg.Table,
		"count", n,
		"duration", time.Since(start),
	)
	return n, nil
}

func (w *PostgresWriter) replace(ctx context.Context, records []model.UnifiedRecord) (int64, error) {
	tx, err := w.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ident := w.ident()
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.Exec(ctx, w.createSQL()); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	n, err := tx.CopyFrom(ctx, ident, model.Columns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		return records[i].Values(), nil
	}))
	if err != nil {
		return 0, fmt.Errorf("copy rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func (w *PostgresWriter) ident() pgx.Identifier {
	if w.cfg.Schema != "" {
		return pgx.Identifier{w.cfg.Schema, w.cfg.Table}
	}
	return pgx.Identifier{w.cfg.Table}
}

func (w *PostgresWriter) createSQL() string {
	return createTableSQL(w.ident().Sanitize(), func(c columnDef) string { return c.postgres })
}
