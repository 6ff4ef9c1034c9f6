package domain

import (
	"context"
	"log/slog"
	"time"
)

// Geocoding outcomes recorded on a landfall.
const (
	GeoSourceReverse = "reverse"
	GeoSourceNone    = "none"
	GeoSourceFailed  = "failed"
)

// LandfallSummary is one landfall of a storm, optionally named by a geocoder.
type LandfallSummary struct {
	Time     time.Time `json:"time"`
	Point    Point     `json:"point"`
	Status   Status    `json:"status"`
	Label    string    `json:"label"`
	Wind     int       `json:"wind"`
	Category int       `json:"category"`
	Pressure *int      `json:"pressure,omitempty"`

	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"`
}

// SummarizeLandfalls lists the storm's landfalls without place names.
func SummarizeLandfalls(st *Storm) []LandfallSummary {
	obs := st.Landfalls()
	out := make([]LandfallSummary, 0, len(obs))
	for _, o := range obs {
		out = append(out, LandfallSummary{
			Time:     o.Time,
			Point:    o.Location(),
			Status:   o.Status,
			Label:    o.StatusLabel(),
			Wind:     o.Wind,
			Category: o.Category(),
			Pressure: o.Pressure,
		})
	}
	return out
}

// EnrichLandfalls reverse geocodes each landfall. A nil geocoder returns the
// landfalls untouched; a failed lookup marks that landfall and moves on.
func EnrichLandfalls(ctx context.Context, stormID string, landfalls []LandfallSummary, geocoder Geocoder, logger *slog.Logger) []LandfallSummary {
	if geocoder == nil {
		return landfalls
	}
	out := make([]LandfallSummary, len(landfalls))
	for i, lf := range landfalls {
		out[i] = enrichLandfall(ctx, stormID, lf, geocoder, logger)
	}
	return out
}

func enrichLandfall(ctx context.Context, stormID string, lf LandfallSummary, geocoder Geocoder, logger *slog.Logger) LandfallSummary {
	result, err := geocoder.ReverseGeocode(ctx, lf.Point.Lat, lf.Point.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"storm_id", stormID,
			"lat", lf.Point.Lat,
			"lon", lf.Point.Lon,
			"error", err,
		)
		lf.GeoSource = GeoSourceFailed
		return lf
	}
	if result.FormattedAddress == "" {
		lf.GeoSource = GeoSourceNone
		return lf
	}
	lf.FormattedAddress = result.FormattedAddress
	lf.PlaceName = result.PlaceName
	lf.GeoConfidence = result.Confidence
	lf.GeoSource = GeoSourceReverse
	return lf
}
