package app

import (
	"math"
	"slices"

	"hotel_listing/internal/domain"
)

// truncPrice drops the fractional part before any price comparison (100.9 compares as 100).
func truncPrice(p float64) float64 { return math.Trunc(p) }

// roomMatches ANDs every criterion that is present; absent ones never exclude.
func roomMatches(r domain.Room, c domain.Criteria) bool {
	if c.Surface.Min != nil && r.Surface < *c.Surface.Min {
		return false
	}
	if c.Surface.Max != nil && r.Surface > *c.Surface.Max {
		return false
	}
	price := truncPrice(r.Price)
	if c.Price.Min != nil && price < *c.Price.Min {
		return false
	}
	if c.Price.Max != nil && price > *c.Price.Max {
		return false
	}
	if c.BedRooms != nil && r.BedRooms < *c.BedRooms {
		return false
	}
	if c.BathRooms != nil && r.BathRooms < *c.BathRooms {
		return false
	}
	if len(c.Types) > 0 && !slices.Contains(c.Types, r.Type) {
		return false
	}
	return true
}

// cheapestMatching returns the lowest truncated price among matching rooms.
// Ties keep the first one encountered. ok is false when no room matches.
func cheapestMatching(rooms []domain.Room, c domain.Criteria) (cheapest domain.Room, ok bool) {
	for _, r := range rooms {
		if !roomMatches(r, c) {
			continue
		}
		if !ok || truncPrice(r.Price) < truncPrice(cheapest.Price) {
			cheapest, ok = r, true
		}
	}
	return cheapest, ok
}
