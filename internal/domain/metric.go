package domain

import (
	"sort"
	"strings"
)

// Metric is a rankable statistic. Storm is nil when the metric only exists
// for seasons and Season is nil when it only exists for storms.
type Metric struct {
	Name        string
	Description string
	Unit        string

	// Ascending metrics rank lowest-first unless the caller overrides it.
	Ascending bool

	Storm  func(StormMetrics) (float64, bool)
	Season func(SeasonMetrics) float64
}

// Landfall reports whether the metric counts landfalls.
func (m Metric) Landfall() bool {
	return strings.HasPrefix(strings.ToLower(m.Name), "landfall")
}

// RanksStorms reports whether storms can be ranked by the metric.
func (m Metric) RanksStorms() bool { return m.Storm != nil }

// RanksSeasons reports whether seasons and eras can be ranked by the metric.
func (m Metric) RanksSeasons() bool { return m.Season != nil }

func known(f func(StormMetrics) float64) func(StormMetrics) (float64, bool) {
	return func(m StormMetrics) (float64, bool) { return f(m), true }
}

var registry = []Metric{
	{
		Name: "tracks", Description: "Tropical cyclones", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.Tracks) },
	},
	{
		Name: "landfalls", Description: "Landfalls made while tropical", Unit: "landfalls",
		Storm:  known(func(m StormMetrics) float64 { return float64(m.Landfalls) }),
		Season: func(m SeasonMetrics) float64 { return float64(m.Landfalls) },
	},
	{
		Name: "landfall_TC", Description: "Storms landfalling as a tropical cyclone", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.LandfallTC) },
	},
	{
		Name: "landfall_TD", Description: "Storms landfalling as a depression", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.LandfallTD) },
	},
	{
		Name: "landfall_TS", Description: "Storms landfalling as a tropical or subtropical storm", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.LandfallTS) },
	},
	{
		Name: "landfall_HU", Description: "Storms landfalling as a hurricane", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.LandfallHU) },
	},
	{
		Name: "landfall_MHU", Description: "Storms landfalling as a major hurricane", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.LandfallMHU) },
	},
	{
		Name: "TSreach", Description: "Storms reaching tropical storm strength", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.TSReach) },
	},
	{
		Name: "HUreach", Description: "Storms reaching hurricane strength", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.HUReach) },
	},
	{
		Name: "MHUreach", Description: "Storms reaching major hurricane strength", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.MHUReach) },
	},
	{
		Name: "cat45reach", Description: "Storms reaching category 4 or 5", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.Cat45Reach) },
	},
	{
		Name: "cat5reach", Description: "Storms reaching category 5", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.Cat5Reach) },
	},
	{
		Name: "TSonly", Description: "Storms peaking as tropical storms", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.TSOnly) },
	},
	{
		Name: "HUonly", Description: "Storms peaking as non-major hurricanes", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.HUOnly) },
	},
	{
		Name: "TDonly", Description: "Storms never exceeding depression strength", Unit: "storms",
		Season: func(m SeasonMetrics) float64 { return float64(m.TDOnly) },
	},
	{
		Name: "track_distance", Description: "Track distance", Unit: "nmi",
		Storm:  known(func(m StormMetrics) float64 { return m.TrackDistance }),
		Season: func(m SeasonMetrics) float64 { return m.TrackDistance },
	},
	{
		Name: "track_distance_TC", Description: "Track distance as a tropical cyclone", Unit: "nmi",
		Storm:  known(func(m StormMetrics) float64 { return m.TrackDistanceTC }),
		Season: func(m SeasonMetrics) float64 { return m.TrackDistanceTC },
	},
	{
		Name: "track_distance_TS", Description: "Track distance at tropical storm strength", Unit: "nmi",
		Storm:  known(func(m StormMetrics) float64 { return m.TrackDistanceTS }),
		Season: func(m SeasonMetrics) float64 { return m.TrackDistanceTS },
	},
	{
		Name: "track_distance_HU", Description: "Track distance as a hurricane", Unit: "nmi",
		Storm:  known(func(m StormMetrics) float64 { return m.TrackDistanceHU }),
		Season: func(m SeasonMetrics) float64 { return m.TrackDistanceHU },
	},
	{
		Name: "track_distance_MHU", Description: "Track distance as a major hurricane", Unit: "nmi",
		Storm:  known(func(m StormMetrics) float64 { return m.TrackDistanceMHU }),
		Season: func(m SeasonMetrics) float64 { return m.TrackDistanceMHU },
	},
	{
		Name: "ACE", Description: "Accumulated cyclone energy", Unit: "kt²",
		Storm:  known(func(m StormMetrics) float64 { return m.ACE }),
		Season: func(m SeasonMetrics) float64 { return m.ACE },
	},
	{
		Name: "HDP", Description: "Hurricane destruction potential", Unit: "kt²",
		Storm:  known(func(m StormMetrics) float64 { return m.HDP }),
		Season: func(m SeasonMetrics) float64 { return m.HDP },
	},
	{
		Name: "MHDP", Description: "Major hurricane destruction potential", Unit: "kt²",
		Storm:  known(func(m StormMetrics) float64 { return m.MHDP }),
		Season: func(m SeasonMetrics) float64 { return m.MHDP },
	},
	{
		Name: "duration_TC", Description: "Time as a tropical cyclone", Unit: "days",
		Storm:  known(func(m StormMetrics) float64 { return m.DurationTC }),
		Season: func(m SeasonMetrics) float64 { return m.DurationTC },
	},
	{
		Name: "duration_TS", Description: "Time at tropical storm strength", Unit: "days",
		Storm:  known(func(m StormMetrics) float64 { return m.DurationTS }),
		Season: func(m SeasonMetrics) float64 { return m.DurationTS },
	},
	{
		Name: "duration_HU", Description: "Time as a hurricane", Unit: "days",
		Storm:  known(func(m StormMetrics) float64 { return m.DurationHU }),
		Season: func(m SeasonMetrics) float64 { return m.DurationHU },
	},
	{
		Name: "duration_MHU", Description: "Time as a major hurricane", Unit: "days",
		Storm:  known(func(m StormMetrics) float64 { return m.DurationMHU }),
		Season: func(m SeasonMetrics) float64 { return m.DurationMHU },
	},
	{
		Name: "duration", Description: "Track lifetime", Unit: "days",
		Storm: known(func(m StormMetrics) float64 { return m.Duration }),
	},
	{
		Name: "maxwind", Description: "Peak sustained wind", Unit: "kt",
		Storm: known(func(m StormMetrics) float64 { return float64(m.MaxWind) }),
	},
	{
		Name: "minmslp", Description: "Minimum central pressure", Unit: "hPa", Ascending: true,
		Storm: func(m StormMetrics) (float64, bool) {
			if m.MinMSLP == nil {
				return 0, false
			}
			return float64(*m.MinMSLP), true
		},
	},
	{
		Name: "ACE_per_nmi", Description: "ACE per nautical mile at storm strength", Unit: "kt²/nmi",
		Storm: known(StormMetrics.ACEPerNmi),
	},
	{
		Name: "ACE_no_landfall", Description: "ACE accrued before the first landfall", Unit: "kt²",
		Storm: known(func(m StormMetrics) float64 { return m.ACENoLandfall }),
	},
	{
		Name: "HDP_perc_ACE", Description: "Share of ACE accrued as a hurricane", Unit: "fraction",
		Storm: known(StormMetrics.HDPPercentACE),
	},
}

var registryIndex = func() map[string]int {
	idx := make(map[string]int, len(registry))
	for i, m := range registry {
		idx[strings.ToLower(m.Name)] = i
	}
	return idx
}()

// LookupMetric finds a metric by name, ignoring case.
func LookupMetric(name string) (Metric, error) {
	i, ok := registryIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Metric{}, &ValidationError{Field: "metric", Reason: "unknown metric " + `"` + name + `"`}
	}
	return registry[i], nil
}

// Metrics lists every registered metric sorted by name.
func Metrics() []Metric {
	out := make([]Metric, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
