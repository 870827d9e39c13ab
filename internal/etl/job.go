package etl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/airq-etl/internal/extract"
	"github.com/rickgao/airq-etl/internal/metrics"
	"github.com/rickgao/airq-etl/internal/model"
	"github.com/rickgao/airq-etl/internal/pipeline"
	"github.com/rickgao/airq-etl/internal/writer"
)

// Archiver receives a copy of every persisted table.
type Archiver interface {
	Export(ctx context.Context, runID string, at time.Time, records []model.UnifiedRecord) (string, error)
}

// Config holds per-run extraction settings.
type Config struct {
	// Limit caps the rows read from each source table.
	Limit int

	// Since overrides the watermark read from the sink. Zero means unset.
	Since time.Time
}

// Report summarizes one run.
type Report struct {
	RunID        string
	Watermark    time.Time
	HasWatermark bool
	FetchedA     int
	FetchedB     int
	Records      int
	Written      int64
	ArchiveURI   string
	ArchiveErr   error
	Duration     time.Duration
}

// Job runs extract, transform and load once per call to Run.
type Job struct {
	cfg      Config
	source   extract.Source
	sink     writer.Sink
	pipeline *pipeline.Pipeline
	archiver Archiver
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Job.
type Option func(*Job)

// WithArchiver exports each written table.
func WithArchiver(a Archiver) Option {
	return func(j *Job) {
		j.archiver = a
	}
}

// WithMetrics records run outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(j *Job) {
		j.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(j *Job) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// New creates a Job.
func New(cfg Config, source extract.Source, sink writer.Sink, p *pipeline.Pipeline, opts ...Option) *Job {
	j := &Job{
		cfg:      cfg,
		source:   source,
		sink:     sink,
		pipeline: p,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run executes one full run. The sink is only written after extraction and
// transformation succeed, so a failed run leaves the previous table in place.
// Archive failures are reported but do not fail the run, since the table has
// already been replaced by then.
func (j *Job) Run(ctx context.Context) (report Report, err error) {
	start := j.now()
	report.RunID = uuid.NewString()
	logger := j.logger.With("run_id", report.RunID)

	defer func() {
		report.Duration = j.now().Sub(start)
		j.metrics.ObserveRun(err, report.Duration, j.now())
		if err != nil {
			logger.Error("run failed", "error", err, "duration", report.Duration)
		}
	}()

	report.Watermark, report.HasWatermark, err = j.watermark(ctx)
	if err != nil {
		return report, fmt.Errorf("read watermark: %w", err)
	}
	logger.Info("run started",
		"watermark", report.Watermark,
		"has_watermark", report.HasWatermark,
		"limit", j.cfg.Limit,
	)

	snap, err := j.source.Fetch(ctx, extract.Window{After: report.Watermark, Limit: j.cfg.Limit})
	if err != nil {
		return report, fmt.Errorf("extract: %w", err)
	}
	report.FetchedA = len(snap.A)
	report.FetchedB = len(snap.B)

	res, err := j.pipeline.Run(snap.A, snap.B)
	if err != nil {
		return report, fmt.Errorf("transform: %w", err)
	}
	report.Records = len(res.Records)

	report.Written, err = j.sink.Replace(ctx, res.Records)
	if err != nil {
		return report, fmt.Errorf("load: %w", err)
	}
	j.metrics.AddRowsWritten(report.Written)

	if j.archiver != nil {
		report.ArchiveURI, report.ArchiveErr = j.archiver.Export(ctx, report.RunID, start, res.Records)
		if report.ArchiveErr != nil {
			logger.Warn("archive failed", "error", report.ArchiveErr)
		}
	}

	logger.Info("run complete",
		"fetched_a", report.FetchedA,
		"fetched_b", report.FetchedB,
		"records", report.Records,
		"written", report.Written,
		"duration", j.now().Sub(start),
	)
	return report, nil
}

func (j *Job) watermark(ctx context.Context) (time.Time, bool, error) {
	if !j.cfg.Since.IsZero() {
		return model.CanonicalTime(j.cfg.Since), true, nil
	}
	return j.sink.LatestTimestamp(ctx)
}
