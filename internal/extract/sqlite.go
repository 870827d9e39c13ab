package extract

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/rickgao/airq-etl/internal/model"
)

// SQLiteSource reads both upstream tables from a sqlite database.
type SQLiteSource struct {
	db     *sql.DB
	tables Tables
	logger *slog.Logger
}

// NewSQLiteSource creates a SQLiteSource. Tables.Schema is ignored.
func NewSQLiteSource(db *sql.DB, tables Tables, logger *slog.Logger) *SQLiteSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteSource{db: db, tables: tables, logger: logger}
}

// Fetch reads both tables one after the other.
func (s *SQLiteSource) Fetch(ctx context.Context, w Window) (Snapshot, error) {
	after := w.After.UTC().Format(model.TextLayout)

	a, err := querySQL(ctx, s.db, s.query(s.tables.A, columnsA), after, w.Limit, scanChannel)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", s.tables.A, err)
	}

	b, err := querySQL(ctx, s.db, s.query(s.tables.B, columnsB), after, w.Limit, scanStation)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", s.tables.B, err)
	}

	s.logger.Debug("extracted snapshot",
		"after", after,
		"limit", w.Limit,
		"rows_a", len(a),
		"rows_b", len(b),
	)
	return Snapshot{A: a, B: b}, nil
}

func (s *SQLiteSource) query(table string, cols []string) string {
	return fmt.Sprintf(
		`SELECT %s FROM %s WHERE "Dia" > ? ORDER BY "Dia", %s LIMIT ?`,
		quoteColumns(cols), quoteIdent(table), quoteIdent(cols[0]),
	)
}

func querySQL[T any](ctx context.Context, db *sql.DB, query, after string, limit int, scan func(scanFunc) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		r, err := scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var (
	_ Source = (*PostgresSource)(nil)
	_ Source = (*SQLiteSource)(nil)
)
