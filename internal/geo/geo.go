// Package geo holds the coordinate math shared by the fraud detectors and
// the aggregate store: great-circle distance, cell bucketing, and the key
// formats used for geographic grouping.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used for great-circle distance.
const earthRadiusKm = 6371.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the great-circle distance in kilometers between p and q.
func (p Point) Distance(q Point) float64 {
	return Haversine(p.Lat, p.Lon, q.Lat, q.Lon)
}

// Haversine returns the great-circle distance in kilometers between two
// coordinate pairs.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ValidCoordinates reports whether a latitude/longitude pair is on the globe.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// CellKey buckets a coordinate pair into a grid cell of roughly 11km per
// side by rounding to one decimal place. Aggregates at cell resolution are
// grouped by this key.
func CellKey(lat, lon float64) string {
	return fmt.Sprintf("%.1f,%.1f", roundTo(lat, 1), roundTo(lon, 1))
}

// ExactKey formats a coordinate pair at full submitted precision. The
// pattern tracker uses it to detect byte-identical coordinate repeats,
// which organic mobile traffic essentially never produces.
func ExactKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
