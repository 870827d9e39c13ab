// Package model defines shared data types used across the air-quality ETL.
//
// Field and column names mirror the upstream tables (PurpleAirData for the
// dual-channel network, Registros for the reference stations) so rows can
// be traced back to their source.
//
// Conventions:
//   - Nullable measurements: *float64 (nil = SQL NULL)
//   - Timestamps: time.Time, canonicalised to UTC before comparison
//   - IDs: int64 for source row ids, string for sensor ids
package model
