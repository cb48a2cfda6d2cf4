package domain

import "github.com/paulmach/orb"

// Criteria is the caller's filter set. A nil bound means no constraint on that axis.
type Criteria struct {
	Search    *string // passed through, not used for filtering
	Origin    *orb.Point
	Distance  *float64 // km
	Price     FloatRange
	Surface   IntRange
	BedRooms  *int
	BathRooms *int
	Types     []string
}

type FloatRange struct{ Min, Max *float64 }

type IntRange struct{ Min, Max *int }

// WantsDistance reports whether both a query coordinate and a radius are set.
func (c Criteria) WantsDistance() bool {
	return c.Origin != nil && c.Distance != nil
}
