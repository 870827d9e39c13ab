// Package scheduler runs the ETL job on a fixed interval.
//
// Each tick triggers one run. A failed run is retried after RetryDelay, up
// to Retries times; if it still fails the Notifier is called and the
// scheduler waits for the next tick. Runs never overlap.
package scheduler
