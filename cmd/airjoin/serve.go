package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/airq-etl/internal/metrics"
	"github.com/rickgao/airq-etl/internal/scheduler"
	"github.com/rickgao/airq-etl/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run on a schedule and expose health and metrics endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

func serve(ctx context.Context, opts *rootOptions) error {
	logger := opts.logger
	logger.Info("starting airjoin",
		"version", version.Version,
		"commit", version.Commit,
		"config", opts.configPath,
	)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.New(scheduler.Config{
		Interval:   cfg.Scheduler.Interval,
		RetryDelay: cfg.Scheduler.RetryDelay,
		Retries:    cfg.Scheduler.Retries,
		RunOnStart: cfg.Scheduler.RunOnStart,
	}, scheduler.RunnerFunc(func(ctx context.Context) error {
		_, err := a.job.Run(ctx)
		return err
	}), nil, logger)

	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           createHealthHandler(a.pools, sched, metrics.Handler(a.registry), cfg.Metrics.Path),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port, "metrics_path", cfg.Metrics.Path)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := sched.Start(ctx); err != nil {
		return err
	}

	logger.Info("airjoin running",
		"instance_id", cfg.Instance.ID,
		"interval", cfg.Scheduler.Interval,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler did not stop cleanly", "error", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("health server shutdown", "error", err)
	}

	logger.Info("airjoin stopped")
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

type statusSource interface {
	Status() scheduler.Status
}

// createHealthHandler creates the HTTP handler for health checks and metrics.
func createHealthHandler(db pinger, sched statusSource, metricsHandler http.Handler, metricsPath string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Version    version.Info   `json:"version"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Version:    version.Get(),
			Components: make(map[string]any),
		}

		if err := db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}

		st := sched.Status()
		last := map[string]any{
			"runs":     st.Runs,
			"failures": st.Failures,
		}
		if !st.LastRun.IsZero() {
			last["last_run"] = st.LastRun.UTC().Format(time.RFC3339)
		}
		if st.LastErr != nil {
			last["last_error"] = st.LastErr.Error()
			if health.Status == "healthy" {
				health.Status = "degraded"
			}
		}
		health.Components["scheduler"] = last

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(health); err != nil {
			slog.Default().Debug("encode health response", "error", err)
		}
	})

	mux.Handle(metricsPath, metricsHandler)

	return mux
}
