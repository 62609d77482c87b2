package geo

import "math"

// slack widens the box so rounding never excludes a point on the circle edge.
const slack = 1e-6

// Box is a latitude/longitude window around a search circle. It may contain
// points outside the circle but never excludes one inside it.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	allLon         bool
	all            bool
}

// BoundingBox returns the box enclosing every point within radiusKm of center.
func BoundingBox(center Point, radiusKm float64) Box {
	if !inRange(center) || radiusKm < 0 || math.IsNaN(radiusKm) {
		return Box{all: true}
	}

	angular := radiusKm / EarthRadiusKm
	if angular >= math.Pi/2 {
		return Box{all: true}
	}
	dLat := degrees(angular) + slack
	box := Box{
		MinLat: center.Lat - dLat,
		MaxLat: center.Lat + dLat,
	}

	// The circle reaches a pole: every longitude is in range.
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		box.allLon = true
		return box
	}

	dLon := degrees(math.Asin(math.Sin(angular)/math.Cos(radians(center.Lat)))) + slack
	box.MinLon = center.Lon - dLon
	box.MaxLon = center.Lon + dLon
	if box.MinLon < -180 || box.MaxLon > 180 {
		box.allLon = true
	}
	return box
}

// Contains reports whether p may lie inside the search circle. Out-of-range
// points are always reported so the exact distance check decides.
func (b Box) Contains(p Point) bool {
	if b.all || !inRange(p) {
		return true
	}
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.allLon {
		return true
	}
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

func inRange(p Point) bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
