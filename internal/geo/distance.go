package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// KmPerDegree converts an arc in degrees into kilometres.
const KmPerDegree = 111.111

// Distance is the spherical law of cosines between two points, in km.
func Distance(from, to orb.Point) float64 {
	latFrom, latTo := deg2rad(from.Lat()), deg2rad(to.Lat())
	dLng := deg2rad(to.Lon() - from.Lon())

	c := math.Cos(latTo)*math.Cos(latFrom)*math.Cos(dLng) + math.Sin(latTo)*math.Sin(latFrom)
	// float overshoot past ±1 would make Acos return NaN
	c = math.Max(-1, math.Min(1, c))

	return KmPerDegree * rad2deg(math.Acos(c))
}

// Point builds an orb.Point from latitude/longitude in that order.
func Point(lat, lng float64) orb.Point { return orb.Point{lng, lat} }

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
