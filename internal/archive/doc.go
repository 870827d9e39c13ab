// Package archive exports each run's reconciled table to S3-compatible
// object storage as CSV.
package archive
