package enums

import "fmt"

// EntityKind names a catalog entity type that can own images.
type EntityKind string

const (
	EntityKindUser      EntityKind = "users"
	EntityKindSeller    EntityKind = "sellers"
	EntityKindPromotion EntityKind = "promotions"
)

var validEntityKinds = []EntityKind{
	EntityKindUser,
	EntityKindSeller,
	EntityKindPromotion,
}

// EntityKinds lists every kind that can own images, for admin pickers.
func EntityKinds() []EntityKind {
	kinds := make([]EntityKind, len(validEntityKinds))
	copy(kinds, validEntityKinds)
	return kinds
}

// String implements fmt.Stringer.
func (e EntityKind) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EntityKind.
func (e EntityKind) IsValid() bool {
	for _, candidate := range validEntityKinds {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntityKind converts raw input into an EntityKind.
func ParseEntityKind(value string) (EntityKind, error) {
	for _, candidate := range validEntityKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity kind %q", value)
}
