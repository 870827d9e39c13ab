package writer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rickgao/airq-etl/internal/model"
)

// SQLiteWriter replaces the reconciled table in a sqlite database.
type SQLiteWriter struct {
	cfg    WriterConfig
	logger *slog.Logger
	db     *sql.DB

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewSQLiteWriter creates a new SQLiteWriter.
func NewSQLiteWriter(cfg WriterConfig, db *sql.DB, logger *slog.Logger) *SQLiteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// Stats returns current metrics.
func (w *SQLiteWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// LatestTimestamp returns MAX("Dia") of the output table.
func (w *SQLiteWriter) LatestTimestamp(ctx context.Context) (time.Time, bool, error) {
	var exists int
	err := w.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, w.cfg.Table,
	).Scan(&exists)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("lookup table: %w", err)
	}
	if exists == 0 {
		return time.Time{}, false, nil
	}

	var latest sql.NullString
	if err := w.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT MAX("Dia") FROM %s`, w.ident())).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("select latest: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}

	t, err := model.ParseTimestamp(latest.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Replace drops, recreates and fills the table in one transaction.
func (w *SQLiteWriter) Replace(ctx context.Context, records []model.UnifiedRecord) (int64, error) {
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

func (w *SQLiteWriter) replace(ctx context.Context, records []model.UnifiedRecord) (n int64, err error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ident := w.ident()
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createTableSQL(ident, func(c columnDef) string { return c.sqlite })); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(model.Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", ident, placeholders))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		values := r.Values()
		values[1] = r.Dia.UTC().Format(model.TextLayout)
		if _, err = stmt.ExecContext(ctx, values...); err != nil {
			return 0, fmt.Errorf("insert log %d: %w", r.LogID, err)
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func (w *SQLiteWriter) ident() string {
	return `"` + strings.ReplaceAll(w.cfg.Table, `"`, `""`) + `"`
}

var (
	_ Sink = (*PostgresWriter)(nil)
	_ Sink = (*SQLiteWriter)(nil)
)
