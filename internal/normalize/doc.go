// Package normalize cleans the raw sensor and station series.
//
// Each step is a pure function: it takes a series and returns a new one,
// never touching its input. SourceA and SourceB run the steps in their fixed
// order; later steps rely on what earlier ones removed
// (for example, the zero-minimum filter assumes channels are non-null).
package normalize
