// Package location implements the Location Registry.
//
// The registry maps human-readable location names to the pair of sensors
// that measure them, one per network:
//   - Source A: dual-channel PurpleAir sensors (ids like "P39497")
//   - Source B: AireNL reference stations (ids like "ANL8")
//
// A run resolves a Selector against the registry into an InterestSet: the
// ordered identifier lists used by the normalizer to filter rows, plus the
// bidirectional translator used by the reconciler to join them.
package location
