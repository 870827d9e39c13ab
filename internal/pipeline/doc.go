// Package pipeline implements the Pipeline Orchestrator.
//
// A run:
//   - Resolves the location selector into an interest set
//   - Normalizes Source A (location, nulls, duplicates, zero minimum, channel agreement)
//   - Normalizes Source B (location, nulls, duplicates, non-positive readings)
//   - Joins both series on (timestamp, location)
//
// The run is a synchronous batch transform over an in-memory snapshot and
// produces either the full unified record set or an error.
package pipeline
