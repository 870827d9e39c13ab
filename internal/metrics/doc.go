// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Run outcomes and durations
//   - Rows left after each normalization stage, per source
//   - Reconciled record count and rows written
//   - Empty interest set occurrences
//   - Time of the last successful run
package metrics
