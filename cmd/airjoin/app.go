package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rickgao/airq-etl/internal/archive"
	"github.com/rickgao/airq-etl/internal/config"
	"github.com/rickgao/airq-etl/internal/database"
	"github.com/rickgao/airq-etl/internal/etl"
	"github.com/rickgao/airq-etl/internal/extract"
	"github.com/rickgao/airq-etl/internal/location"
	"github.com/rickgao/airq-etl/internal/metrics"
	"github.com/rickgao/airq-etl/internal/pipeline"
	"github.com/rickgao/airq-etl/internal/writer"
)

// app holds everything a run needs, built from one config.
type app struct {
	cfg      *config.ETLConfig
	pools    *database.Pools
	job      *etl.Job
	registry *prometheus.Registry
	logger   *slog.Logger
}

func newApp(ctx context.Context, cfg *config.ETLConfig, logger *slog.Logger) (*app, error) {
	since, err := cfg.Extract.SinceTime()
	if err != nil {
		return nil, fmt.Errorf("extract.since: %w", err)
	}

	logger.Info("connecting to databases",
		"source_driver", cfg.Database.Source.Driver,
		"target_driver", cfg.Database.Target.Driver,
	)
	pools, err := database.NewPools(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	promReg := metrics.NewRegistry()
	m := metrics.New(promReg)

	p := pipeline.New(location.Default(), cfg.Pipeline.Selector(),
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(m),
	)

	opts := []etl.Option{etl.WithLogger(logger), etl.WithMetrics(m)}
	if cfg.Archive.Enabled {
		exp, err := archive.New(ctx, archive.Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			Prefix:          cfg.Archive.Prefix,
			PathStyle:       cfg.Archive.PathStyle,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		}, logger)
		if err != nil {
			pools.Close()
			return nil, fmt.Errorf("archive: %w", err)
		}
		opts = append(opts, etl.WithArchiver(exp))
	}

	job := etl.New(
		etl.Config{Limit: cfg.Extract.Limit, Since: since},
		newSource(pools.Source, cfg.Extract, logger),
		newSink(pools.Target, cfg.Load, logger),
		p,
		opts...,
	)

	return &app{
		cfg:      cfg,
		pools:    pools,
		job:      job,
		registry: promReg,
		logger:   logger,
	}, nil
}

func (a *app) Close() {
	a.pools.Close()
}

func newSource(h *database.Handle, cfg config.ExtractConfig, logger *slog.Logger) extract.Source {
	tables := extract.Tables{Schema: cfg.Schema, A: cfg.SourceATable, B: cfg.SourceBTable}
	if h.Pool != nil {
		return extract.NewPostgresSource(h.Pool, tables, logger)
	}
	return extract.NewSQLiteSource(h.DB, tables, logger)
}

func newSink(h *database.Handle, cfg config.LoadConfig, logger *slog.Logger) writer.Sink {
	wcfg := writer.WriterConfig{Schema: cfg.Schema, Table: cfg.Table}
	if h.Pool != nil {
		return writer.NewPostgresWriter(wcfg, h.Pool, logger)
	}
	return writer.NewSQLiteWriter(wcfg, h.DB, logger)
}
