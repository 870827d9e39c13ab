package location

import "errors"

var (
	// ErrUnknownLocation is returned when a location name has no registry entry.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrUnmappedSensorIdentifier is returned when a sensor id belongs to
	// neither identifier space of an interest set.
	ErrUnmappedSensorIdentifier = errors.New("unmapped sensor identifier")

	// ErrEmptyInterestSet flags a resolution that produced no identifiers.
	// Filtering with an empty set keeps nothing; it is reported, not raised.
	ErrEmptyInterestSet = errors.New("empty interest set")

	// ErrInvalidMapping is returned when a location list is not a bijection
	// between the two identifier spaces.
	ErrInvalidMapping = errors.New("invalid location mapping")
)
