package spatial

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Direction is a compass quadrant relative to a reference point
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	default:
		return "West"
	}
}

// Offset is the planar displacement of a point from a reference point,
// measured in coordinate degrees (X = longitude delta, Y = latitude delta)
type Offset struct {
	r2.Point
}

// OffsetFrom returns the displacement of (lat, lon) from ref
func OffsetFrom(ref s2.LatLng, lat, lon float64) Offset {
	return Offset{r2.Point{
		X: lon - ref.Lng.Degrees(),
		Y: lat - ref.Lat.Degrees(),
	}}
}

// Degrees is the length of the offset in coordinate degrees
func (o Offset) Degrees() float64 {
	return o.Norm()
}

// Angle is the direction of the offset, counter-clockwise from east
func (o Offset) Angle() s1.Angle {
	return s1.Angle(math.Atan2(o.Y, o.X))
}

// Quadrant buckets the offset angle with boundaries at ±45° and ±135°:
// [45,135) North, [-45,45) East, [-135,-45) South, anything else West
func (o Offset) Quadrant() Direction {
	deg := o.Angle().Degrees()
	switch {
	case deg >= 45 && deg < 135:
		return North
	case deg >= -45 && deg < 45:
		return East
	case deg >= -135 && deg < -45:
		return South
	default:
		return West
	}
}

// ValidCoordinate reports whether lat/lon are finite and within range
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}
