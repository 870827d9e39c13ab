package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Runner performs one unit of scheduled work.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc is a function adapter for Runner.
type RunnerFunc func(context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Notifier is told about runs that failed after all retries.
type Notifier interface {
	Notify(ctx context.Context, err error)
}

// NotifierFunc is a function adapter for Notifier.
type NotifierFunc func(context.Context, error)

func (f NotifierFunc) Notify(ctx context.Context, err error) {
	f(ctx, err)
}

// Config holds scheduler configuration.
type Config struct {
	Interval   time.Duration // Time between runs (default: 24h)
	RetryDelay time.Duration // Wait before retrying a failed run (default: 1m)
	Retries    int           // Retries per failed run; negative disables (default: 1)
	RunOnStart bool          // Run immediately instead of waiting one interval
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:   24 * time.Hour,
		RetryDelay: time.Minute,
		Retries:    1,
	}
}

// Status describes the most recent completed run.
type Status struct {
	Runs     int64
	Failures int64
	LastRun  time.Time
	LastErr  error
}

// Scheduler invokes a Runner on a fixed interval.
type Scheduler struct {
	cfg      Config
	runner   Runner
	notifier Notifier
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	status Status
}

// New creates a new Scheduler. A nil notifier logs final failures.
func New(cfg Config, runner Runner, notifier Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cfg:      cfg,
		runner:   runner,
		notifier: notifier,
		logger:   logger,
	}
	if s.notifier == nil {
		s.notifier = NotifierFunc(func(_ context.Context, err error) {
			logger.Error("scheduled run failed", "error", err, "retries", max(cfg.Retries, 0))
		})
	}
	return s
}

// Start begins the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Interval <= 0 {
		return errors.New("scheduler interval must be positive")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("scheduler started",
		"interval", s.cfg.Interval,
		"retry_delay", s.cfg.RetryDelay,
		"run_on_start", s.cfg.RunOnStart,
	)

	return nil
}

// Stop cancels any in-flight run and waits for the loop to exit.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of run counters.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	if s.cfg.RunOnStart {
		s.runWithRetry()
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runWithRetry()
		}
	}
}

// runWithRetry runs once, retrying after RetryDelay up to Retries times.
func (s *Scheduler) runWithRetry() {
	retries := max(s.cfg.Retries, 0)

	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			s.logger.Warn("run failed, retrying",
				"error", err,
				"attempt", attempt,
				"delay", s.cfg.RetryDelay,
			)
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(s.cfg.RetryDelay):
			}
		}

		err = s.runner.Run(s.ctx)
		if err == nil || s.ctx.Err() != nil {
			break
		}
	}

	s.record(err)
	if err != nil && s.ctx.Err() == nil {
		s.notifier.Notify(s.ctx, err)
	}
}

func (s *Scheduler) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Runs++
	s.status.LastRun = time.Now()
	s.status.LastErr = err
	if err != nil {
		s.status.Failures++
	}
}
