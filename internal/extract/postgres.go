package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/airq-etl/internal/model"
)

// PostgresSource reads both upstream tables from PostgreSQL.
type PostgresSource struct {
	db     *pgxpool.Pool
	tables Tables
	logger *slog.Logger
}

// NewPostgresSource creates a PostgresSource.
func NewPostgresSource(db *pgxpool.Pool, tables Tables, logger *slog.Logger) *PostgresSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSource{db: db, tables: tables, logger: logger}
}

// Fetch reads both tables concurrently. Rows come back ordered by time and
// row id so duplicate removal downstream is deterministic.
func (s *PostgresSource) Fetch(ctx context.Context, w Window) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.db.Query(gctx, s.query(s.tables.A, columnsA), w.After, w.Limit)
		if err != nil {
			return fmt.Errorf("query %s: %w", s.tables.A, err)
		}
		snap.A, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ChannelReading, error) {
			return scanChannel(row.Scan)
		})
		if err != nil {
			return fmt.Errorf("scan %s: %w", s.tables.A, err)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.db.Query(gctx, s.query(s.tables.B, columnsB), w.After, w.Limit)
		if err != nil {
			return fmt.Errorf("query %s: %w", s.tables.B, err)
		}
		snap.B, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.StationReading, error) {
			return scanStation(row.Scan)
		})
		if err != nil {
			return fmt.Errorf("scan %s: %w", s.tables.B, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	s.logger.Debug("extracted snapshot",
		"after", w.After,
		"limit", w.Limit,
		"rows_a", len(snap.A),
		"rows_b", len(snap.B),
	)
	return snap, nil
}

func (s *PostgresSource) query(table string, cols []string) string {
	ident := pgx.Identifier{table}
	if s.tables.Schema != "" {
		ident = pgx.Identifier{s.tables.Schema, table}
	}
	return fmt.Sprintf(
		`SELECT %s FROM %s WHERE "Dia" > $1 ORDER BY "Dia", %s LIMIT $2`,
		quoteColumns(cols), ident.Sanitize(), quoteIdent(cols[0]),
	)
}
