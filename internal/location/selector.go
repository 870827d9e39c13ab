package location

import (
	"fmt"
	"sort"
	"strings"
)

// SelectorKind tags the variant held by a Selector.
type SelectorKind int

const (
	KindAll     SelectorKind = iota // every registry location
	KindNamed                       // a subset of registry locations by name
	KindMapping                     // caller-supplied name -> IDPair entries
)

// Selector chooses the locations in scope for a run.
// Build one with AllLocations, NamedSubset or ExplicitMapping.
type Selector struct {
	kind    SelectorKind
	names   []string
	mapping map[string]IDPair
}

// AllLocations selects every registry location.
func AllLocations() Selector {
	return Selector{kind: KindAll}
}

// NamedSubset selects registry locations by name, in the given order.
// An empty subset selects every location.
func NamedSubset(names ...string) Selector {
	return Selector{kind: KindNamed, names: append([]string(nil), names...)}
}

// ExplicitMapping selects caller-supplied locations that need not exist in
// the registry. Entries are ordered by name. An empty mapping selects every
// registry location.
func ExplicitMapping(mapping map[string]IDPair) Selector {
	cp := make(map[string]IDPair, len(mapping))
	for name, ids := range mapping {
		cp[name] = ids
	}
	return Selector{kind: KindMapping, mapping: cp}
}

// Kind reports which variant s holds.
func (s Selector) Kind() SelectorKind {
	return s.kind
}

func (s Selector) String() string {
	switch s.kind {
	case KindAll:
		return "all"
	case KindNamed:
		if len(s.names) == 0 {
			return "all"
		}
		return "names(" + strings.Join(s.names, ", ") + ")"
	case KindMapping:
		if len(s.mapping) == 0 {
			return "all"
		}
		return fmt.Sprintf("mapping(%d)", len(s.mapping))
	default:
		return "unknown"
	}
}

func (s Selector) mappingLocations() []Location {
	names := make([]string, 0, len(s.mapping))
	for name := range s.mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	locs := make([]Location, 0, len(names))
	for _, name := range names {
		ids := s.mapping[name]
		locs = append(locs, Location{Name: name, SourceA: ids.SourceA, SourceB: ids.SourceB})
	}
	return locs
}
