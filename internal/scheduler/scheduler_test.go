package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func stop(t *testing.T, s *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestScheduler_RunOnStart(t *testing.T) {
	var calls atomic.Int32
	runner := RunnerFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	})

	s := New(Config{Interval: time.Hour, RunOnStart: true}, runner, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, func() bool { return s.Status().Runs == 1 })
	stop(t, s)

	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if st := s.Status(); st.Failures != 0 || st.LastErr != nil {
		t.Errorf("status = %+v, want no failures", st)
	}
}

func TestScheduler_NoRunOnStart(t *testing.T) {
	var calls atomic.Int32
	runner := RunnerFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	})

	s := New(Config{Interval: time.Hour}, runner, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	stop(t, s)

	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0", got)
	}
}

func TestScheduler_Interval(t *testing.T) {
	var calls atomic.Int32
	runner := RunnerFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	})

	s := New(Config{Interval: 10 * time.Millisecond}, runner, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, func() bool { return calls.Load() >= 3 })
	stop(t, s)
}

func TestScheduler_RetrySucceeds(t *testing.T) {
	var calls atomic.Int32
	runner := RunnerFunc(func(context.Context) error {
		if calls.Add(1) == 1 {
			return errors.New("db unavailable")
		}
		return nil
	})

	var notified atomic.Int32
	notifier := NotifierFunc(func(context.Context, error) { notified.Add(1) })

	cfg := Config{Interval: time.Hour, RetryDelay: time.Millisecond, Retries: 1, RunOnStart: true}
	s := New(cfg, runner, notifier, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, func() bool { return s.Status().Runs == 1 })
	stop(t, s)

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
	if got := notified.Load(); got != 0 {
		t.Errorf("notified = %d, want 0", got)
	}
	if st := s.Status(); st.Failures != 0 {
		t.Errorf("Failures = %d, want 0", st.Failures)
	}
}

func TestScheduler_RetryExhausted(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	runner := RunnerFunc(func(context.Context) error {
		calls.Add(1)
		return boom
	})

	var mu sync.Mutex
	var got []error
	notifier := NotifierFunc(func(_ context.Context, err error) {
		mu.Lock()
		got = append(got, err)
		mu.Unlock()
	})

	cfg := Config{Interval: time.Hour, RetryDelay: time.Millisecond, Retries: 1, RunOnStart: true}
	s := New(cfg, runner, notifier, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, func() bool { return s.Status().Runs == 1 })
	stop(t, s)

	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", n)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || !errors.Is(got[0], boom) {
		t.Errorf("notified = %v, want [boom]", got)
	}
	if st := s.Status(); st.Failures != 1 || !errors.Is(st.LastErr, boom) {
		t.Errorf("status = %+v, want one failure", st)
	}
}

func TestScheduler_RetriesDisabled(t *testing.T) {
	var calls atomic.Int32
	runner := RunnerFunc(func(context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})

	cfg := Config{Interval: time.Hour, RetryDelay: time.Millisecond, Retries: -1, RunOnStart: true}
	s := New(cfg, runner, NotifierFunc(func(context.Context, error) {}), nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, func() bool { return s.Status().Runs == 1 })
	stop(t, s)

	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestScheduler_StopDuringRetryDelay(t *testing.T) {
	var calls atomic.Int32
	runner := RunnerFunc(func(context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})

	var notified atomic.Int32
	notifier := NotifierFunc(func(context.Context, error) { notified.Add(1) })

	cfg := Config{Interval: time.Hour, RetryDelay: time.Hour, Retries: 1, RunOnStart: true}
	s := New(cfg, runner, notifier, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, func() bool { return calls.Load() == 1 })
	stop(t, s)

	if n := notified.Load(); n != 0 {
		t.Errorf("notified = %d, want 0 after shutdown", n)
	}
}

func TestScheduler_InvalidInterval(t *testing.T) {
	s := New(Config{}, RunnerFunc(func(context.Context) error { return nil }), nil, nil)
	if err := s.Start(context.Background()); err == nil {
		t.Error("Start with zero interval: expected error")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Interval != 24*time.Hour {
		t.Errorf("Interval = %s, want 24h", cfg.Interval)
	}
	if cfg.RetryDelay != time.Minute {
		t.Errorf("RetryDelay = %s, want 1m", cfg.RetryDelay)
	}
	if cfg.Retries != 1 {
		t.Errorf("Retries = %d, want 1", cfg.Retries)
	}
}
