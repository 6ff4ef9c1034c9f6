package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusNmi is the mean radius of the Earth in nautical miles.
const EarthRadiusNmi = 3440.065

// Point is a WGS-84 latitude/longitude pair in signed decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Haversine returns the great-circle distance between a and b in nautical miles.
func Haversine(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon) - radians(a.Lon)

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * EarthRadiusNmi * math.Asin(math.Sqrt(h))
}

// Heading returns the navigational bearing in degrees (0 = north, clockwise)
// of travel from a to b. Tracks crossing the antimeridian take the short way.
func Heading(a, b Point) float64 {
	dLat := b.Lat - a.Lat
	dLon := b.Lon - a.Lon
	if math.Abs(dLon) >= 180 {
		if b.Lon < 0 {
			dLon = b.Lon + 360 - a.Lon
		} else {
			dLon = b.Lon - 360 - a.Lon
		}
	}
	deg := math.Atan2(dLon, dLat) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CardinalDirection converts a heading in degrees to a 16-point compass label.
func CardinalDirection(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// Each sector is 22.5 degrees wide, centred on its compass point.
	idx := int(math.Ceil((deg-11.25)/22.5)) % len(compassPoints)
	return compassPoints[idx]
}

// ParseCoordinate converts HURDAT2 hemisphere-suffixed strings ("28.0N", "94.8W")
// into a Point.
func ParseCoordinate(lat, lon string) (Point, error) {
	la, err := parseHemisphere(lat, 'N', 'S')
	if err != nil {
		return Point{}, fmt.Errorf("parse latitude %q: %w", lat, err)
	}
	lo, err := parseHemisphere(lon, 'E', 'W')
	if err != nil {
		return Point{}, fmt.Errorf("parse longitude %q: %w", lon, err)
	}
	if la < -90 || la > 90 {
		return Point{}, fmt.Errorf("latitude %q out of range", lat)
	}
	if lo < -360 || lo > 360 {
		return Point{}, fmt.Errorf("longitude %q out of range", lon)
	}
	return Point{Lat: la, Lon: lo}, nil
}

func parseHemisphere(s string, positive, negative byte) (float64, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, errors.New("too short")
	}
	hemi := s[len(s)-1]
	v, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, err
	}
	switch hemi {
	case positive:
		return v, nil
	case negative:
		return -v, nil
	}
	return 0, fmt.Errorf("unknown hemisphere %q", hemi)
}

// FormatLatitude renders a latitude in HURDAT2 form, e.g. "28.0N".
func FormatLatitude(lat float64) string {
	if lat < 0 {
		return strconv.FormatFloat(-lat, 'f', 1, 64) + "S"
	}
	return strconv.FormatFloat(lat, 'f', 1, 64) + "N"
}

// FormatLongitude renders a longitude in HURDAT2 form, e.g. "94.8W".
func FormatLongitude(lon float64) string {
	if lon < 0 {
		return strconv.FormatFloat(-lon, 'f', 1, 64) + "W"
	}
	return strconv.FormatFloat(lon, 'f', 1, 64) + "E"
}

// BoundingBox is an axis-aligned latitude/longitude box. Edges are inclusive.
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// Contains reports whether p lies inside the box.
func (b BoundingBox) Contains(p Point) bool {
	return b.South <= p.Lat && p.Lat <= b.North && b.West <= p.Lon && p.Lon <= b.East
}

func (b BoundingBox) validate() error {
	if b.South > b.North {
		return &ValidationError{Field: "box", Reason: "south edge is north of the north edge"}
	}
	if b.West > b.East {
		return &ValidationError{Field: "box", Reason: "west edge is east of the east edge"}
	}
	return nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
