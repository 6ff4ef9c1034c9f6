package domain

// Status is the two-letter HURDAT2 system classification of an observation.
type Status string

const (
	StatusDisturbance           Status = "DB"
	StatusLow                   Status = "LO"
	StatusWave                  Status = "WV"
	StatusSubtropicalDepression Status = "SD"
	StatusTropicalDepression    Status = "TD"
	StatusSubtropicalStorm      Status = "SS"
	StatusTropicalStorm         Status = "TS"
	StatusHurricane             Status = "HU"
	StatusExtratropical         Status = "EX"
)

// Wind thresholds in knots.
const (
	TropicalStormWind  = 34
	GaleWind           = 50
	HurricaneWind      = 64
	MajorHurricaneWind = 96

	// MissingWind is the source sentinel for an unknown wind. It is kept as
	// read and never reaches a wind threshold.
	MissingWind = -99
)

// statusOrder ranks statuses from most to least intense for StatusHighest.
var statusOrder = []Status{
	StatusHurricane,
	StatusTropicalStorm,
	StatusSubtropicalStorm,
	StatusTropicalDepression,
	StatusSubtropicalDepression,
	StatusExtratropical,
	StatusLow,
	StatusDisturbance,
	StatusWave,
}

// Valid reports whether s is a known HURDAT2 status code.
func (s Status) Valid() bool {
	for _, known := range statusOrder {
		if s == known {
			return true
		}
	}
	return false
}

// IsTropical reports whether s is one of the five tropical cyclone designations.
func (s Status) IsTropical() bool {
	switch s {
	case StatusSubtropicalDepression, StatusTropicalDepression,
		StatusSubtropicalStorm, StatusTropicalStorm, StatusHurricane:
		return true
	}
	return false
}

// IsStormStrength reports whether s is at least a (sub)tropical storm.
func (s Status) IsStormStrength() bool {
	return s == StatusSubtropicalStorm || s == StatusTropicalStorm || s == StatusHurricane
}

// IsDepression reports whether s is a tropical or subtropical depression.
func (s Status) IsDepression() bool {
	return s == StatusSubtropicalDepression || s == StatusTropicalDepression
}

// FormatStatus returns the human label for a status at the given wind speed.
func FormatStatus(s Status, wind int) string {
	switch s {
	case StatusDisturbance, StatusLow, StatusWave:
		return "Disturbance, Low, or Tropical Wave"
	case StatusSubtropicalDepression:
		return "Subtropical Depression"
	case StatusTropicalDepression:
		return "Tropical Depression"
	case StatusSubtropicalStorm:
		return "Subtropical Storm"
	case StatusTropicalStorm:
		return "Tropical Storm"
	case StatusExtratropical:
		return "Extratropical Cyclone"
	case StatusHurricane:
		if wind >= MajorHurricaneWind {
			return "Major Hurricane"
		}
		return "Hurricane"
	}
	return "Unknown"
}

// Marker is the optional one-letter record identifier of an observation.
type Marker string

const (
	MarkerNone      Marker = ""
	MarkerLandfall  Marker = "L"
	MarkerMaxWind   Marker = "W"
	MarkerMinPress  Marker = "P"
	MarkerIntensity Marker = "I"
	MarkerClosest   Marker = "C"
	MarkerStatus    Marker = "S"
	MarkerGenesis   Marker = "G"
	MarkerTrack     Marker = "T"
)

// Description explains a marker as documented in the HURDAT2 format notes.
func (m Marker) Description() string {
	switch m {
	case MarkerLandfall:
		return "Landfall"
	case MarkerMaxWind:
		return "Maximum sustained wind speed"
	case MarkerMinPress:
		return "Minimum in central pressure"
	case MarkerIntensity:
		return "An intensity peak in terms of both pressure and wind"
	case MarkerClosest:
		return "Closest approach to a coast, not followed by a landfall"
	case MarkerStatus:
		return "Change of status of the system"
	case MarkerGenesis:
		return "Genesis"
	case MarkerTrack:
		return "Provides additional detail on the track (position) of the cyclone"
	}
	return "No description available"
}

// Valid reports whether m is empty or a documented marker.
func (m Marker) Valid() bool {
	switch m {
	case MarkerNone, MarkerLandfall, MarkerMaxWind, MarkerMinPress, MarkerIntensity,
		MarkerClosest, MarkerStatus, MarkerGenesis, MarkerTrack:
		return true
	}
	return false
}

// SaffirSimpson returns the Saffir-Simpson category for a wind speed in knots.
// Tropical-storm strength returns 0 and anything weaker returns -1.
func SaffirSimpson(wind int) int {
	switch {
	case wind < TropicalStormWind:
		return -1
	case wind < HurricaneWind:
		return 0
	case wind < 83:
		return 1
	case wind < MajorHurricaneWind:
		return 2
	case wind < 114:
		return 3
	case wind < 136:
		return 4
	default:
		return 5
	}
}
