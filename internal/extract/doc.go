// Package extract reads raw sensor snapshots from the upstream database.
//
// Each run reads both tables once, bounded by a Window: rows later than the
// watermark, at most Limit rows per table. Window policy is decided by the
// caller; this package only applies it.
package extract
