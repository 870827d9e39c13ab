// Package etl wires extraction, the transform pipeline and persistence into
// a single run.
//
// A run reads the watermark (the newest Dia already persisted, or a
// configured override), fetches up to Limit newer rows from each source
// table, cleans and joins them, and replaces the output table with the
// result. Every run gets a UUID that tags its logs and archive object.
package etl
