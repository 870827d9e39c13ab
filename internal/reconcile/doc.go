// Package reconcile implements the Reconciler: an inner join of the two
// normalized series on canonical timestamp and location identity.
//
// Sensor ids are never compared across networks directly; the Source A id
// is first translated through the run's interest set.
package reconcile
