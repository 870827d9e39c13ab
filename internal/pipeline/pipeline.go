package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/rickgao/airq-etl/internal/location"
	"github.com/rickgao/airq-etl/internal/metrics"
	"github.com/rickgao/airq-etl/internal/model"
	"github.com/rickgao/airq-etl/internal/normalize"
	"github.com/rickgao/airq-etl/internal/reconcile"
)

// Source labels used in logs and metrics.
const (
	SourceA = "a"
	SourceB = "b"
)

// Result is the outcome of a successful run.
type Result struct {
	Records []model.UnifiedRecord
	Scope   *location.InterestSet
	StatsA  normalize.Stats
	StatsB  normalize.Stats
}

// Pipeline sequences normalization and reconciliation over one snapshot.
// It holds no per-run state, so Run is idempotent for identical inputs.
type Pipeline struct {
	registry *location.Registry
	selector location.Selector
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New creates a Pipeline over registry, scoped by selector.
func New(registry *location.Registry, selector location.Selector, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: registry,
		selector: selector,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run cleans both series and joins them. Errors from any stage abort the run.
func (p *Pipeline) Run(a []model.ChannelReading, b []model.StationReading) (Result, error) {
	scope, err := p.registry.Resolve(p.selector)
	if err != nil {
		return Result{}, fmt.Errorf("resolve locations: %w", err)
	}
	if scope.Empty() {
		p.logger.Warn("no sensors in scope, every row will be dropped",
			"selector", p.selector.String(),
			"error", location.ErrEmptyInterestSet,
		)
		p.metrics.IncEmptyInterestSet()
	}

	cleanA, statsA := normalize.SourceA(a, scope)
	cleanB, statsB := normalize.SourceB(b, scope)
	p.observe(SourceA, statsA)
	p.observe(SourceB, statsB)

	records, err := reconcile.Join(cleanA, cleanB, scope)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: %w", err)
	}
	p.metrics.SetReconciled(len(records))

	p.logger.Info("pipeline complete",
		"locations", scope.Len(),
		"rows_a", len(a),
		"clean_a", len(cleanA),
		"rows_b", len(b),
		"clean_b", len(cleanB),
		"records", len(records),
	)

	return Result{
		Records: records,
		Scope:   scope,
		StatsA:  statsA,
		StatsB:  statsB,
	}, nil
}

func (p *Pipeline) observe(source string, stats normalize.Stats) {
	for _, c := range stats {
		p.metrics.SetStageRows(source, c.Stage, c.Rows)
		p.logger.Debug("stage complete", "source", source, "stage", c.Stage, "rows", c.Rows)
	}
}
