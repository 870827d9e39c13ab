package location

import "fmt"

// InterestSet is the resolved scope of a run: per-network identifier lists
// whose i-th entries pair up, and a translator between the two spaces.
// It is immutable after construction.
type InterestSet struct {
	locations []Location
	sourceA   []string
	sourceB   []string
	inA       map[string]struct{}
	inB       map[string]struct{}

	// peer maps an identifier from either space to its counterpart.
	peer map[string]string
}

func newInterestSet(locs []Location) (*InterestSet, error) {
	s := &InterestSet{
		locations: make([]Location, 0, len(locs)),
		sourceA:   make([]string, 0, len(locs)),
		sourceB:   make([]string, 0, len(locs)),
		inA:       make(map[string]struct{}, len(locs)),
		inB:       make(map[string]struct{}, len(locs)),
		peer:      make(map[string]string, 2*len(locs)),
	}

	for _, loc := range locs {
		if loc.Name == "" {
			return nil, fmt.Errorf("%w: location name is empty", ErrInvalidMapping)
		}
		if loc.SourceA == "" || loc.SourceB == "" {
			return nil, fmt.Errorf("%w: location %q needs one sensor per network", ErrInvalidMapping, loc.Name)
		}
		for _, id := range []string{loc.SourceA, loc.SourceB} {
			if _, dup := s.peer[id]; dup {
				return nil, fmt.Errorf("%w: sensor %q appears in more than one entry", ErrInvalidMapping, id)
			}
		}
		if loc.SourceA == loc.SourceB {
			return nil, fmt.Errorf("%w: sensor %q used by both networks", ErrInvalidMapping, loc.SourceA)
		}

		s.locations = append(s.locations, loc)
		s.sourceA = append(s.sourceA, loc.SourceA)
		s.sourceB = append(s.sourceB, loc.SourceB)
		s.inA[loc.SourceA] = struct{}{}
		s.inB[loc.SourceB] = struct{}{}
		s.peer[loc.SourceA] = loc.SourceB
		s.peer[loc.SourceB] = loc.SourceA
	}

	return s, nil
}

// Locations returns the locations in scope, in resolution order.
func (s *InterestSet) Locations() []Location {
	return append([]Location(nil), s.locations...)
}

// SourceA returns the Source A identifiers of interest.
func (s *InterestSet) SourceA() []string {
	return append([]string(nil), s.sourceA...)
}

// SourceB returns the Source B identifiers of interest, paired by index
// with SourceA.
func (s *InterestSet) SourceB() []string {
	return append([]string(nil), s.sourceB...)
}

// ContainsA reports whether id is a Source A identifier of interest.
func (s *InterestSet) ContainsA(id string) bool {
	_, ok := s.inA[id]
	return ok
}

// ContainsB reports whether id is a Source B identifier of interest.
func (s *InterestSet) ContainsB(id string) bool {
	_, ok := s.inB[id]
	return ok
}

// Len returns the number of locations in scope.
func (s *InterestSet) Len() int {
	return len(s.locations)
}

// Empty reports whether the set holds no identifiers.
func (s *InterestSet) Empty() bool {
	return len(s.locations) == 0
}

// Translate maps an identifier from either network to the other one.
func (s *InterestSet) Translate(id string) (string, error) {
	if peer, ok := s.peer[id]; ok {
		return peer, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnmappedSensorIdentifier, id)
}
