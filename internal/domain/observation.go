package domain

import (
	"math"
	"time"
)

// Threshold selects one of the three wind-radii rings reported per observation.
type Threshold int

const (
	Threshold34kt Threshold = 34
	Threshold50kt Threshold = 50
	Threshold64kt Threshold = 64
)

// Radii holds quadrant radii in nautical miles, ordered NE, SE, SW, NW.
// A nil entry means the source has no value, which is distinct from zero.
type Radii [4]*int

// Observation is one time-stamped best-track sample of a storm.
type Observation struct {
	Time     time.Time `json:"time"`
	Marker   Marker    `json:"marker,omitempty"`
	Status   Status    `json:"status"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	Wind     int       `json:"wind"`
	Pressure *int      `json:"pressure,omitempty"`

	ExtentTS   Radii `json:"extent_34kt"`
	ExtentTS50 Radii `json:"extent_50kt"`
	ExtentHU   Radii `json:"extent_64kt"`
	RMW        *int  `json:"rmw,omitempty"`
}

// Location returns the observation position.
func (o Observation) Location() Point {
	return Point{Lat: o.Lat, Lon: o.Lon}
}

// IsTropical reports whether the system was a designated tropical cyclone.
func (o Observation) IsTropical() bool {
	return o.Status.IsTropical()
}

// IsSynoptic reports whether the observation falls exactly on 00, 06, 12 or 18 UTC.
func (o Observation) IsSynoptic() bool {
	h := o.Time.Hour()
	return h%6 == 0 && o.Time.Minute() == 0
}

// IsLandfall reports whether the observation carries the landfall marker.
func (o Observation) IsLandfall() bool {
	return o.Marker == MarkerLandfall
}

// IsMajor reports whether the observation is a hurricane at major strength.
func (o Observation) IsMajor() bool {
	return o.Status == StatusHurricane && o.Wind >= MajorHurricaneWind
}

// Category returns the Saffir-Simpson category for the observed wind.
func (o Observation) Category() int {
	return SaffirSimpson(o.Wind)
}

// StatusLabel returns the human readable status at the observed wind.
func (o Observation) StatusLabel() string {
	return FormatStatus(o.Status, o.Wind)
}

// MonthDay returns the calendar position of the observation ignoring the year.
func (o Observation) MonthDay() MonthDay {
	return MonthDay{Month: o.Time.Month(), Day: o.Time.Day()}
}

// Extent returns the radii ring for the given threshold.
func (o Observation) Extent(t Threshold) Radii {
	switch t {
	case Threshold50kt:
		return o.ExtentTS50
	case Threshold64kt:
		return o.ExtentHU
	default:
		return o.ExtentTS
	}
}

// ArealExtent returns the area in nmi² covered by winds at or above the
// threshold, treating each quadrant as a quarter disc. Unknown radii add nothing.
func (o Observation) ArealExtent(t Threshold) float64 {
	var area float64
	for _, r := range o.Extent(t) {
		if r == nil {
			continue
		}
		area += math.Pi * float64(*r) * float64(*r) / 4
	}
	return area
}

// AvgExtent returns the mean of the known quadrant radii for the threshold.
func (o Observation) AvgExtent(t Threshold) (float64, bool) {
	var sum, n int
	for _, r := range o.Extent(t) {
		if r == nil {
			continue
		}
		sum += *r
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// days converts a duration to fractional days.
func days(d time.Duration) float64 {
	return d.Hours() / 24
}
