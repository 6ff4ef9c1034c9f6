package domain

import "time"

// Season groups the storms whose identifiers share a year.
type Season struct {
	year   int
	record *Record
	storms []*Storm
	index  map[string]*Storm
}

// Year returns the season year.
func (s *Season) Year() int { return s.year }

// Record returns the owning record.
func (s *Season) Record() *Record { return s.record }

// Storms returns the season's storms in file order.
func (s *Season) Storms() []*Storm {
	out := make([]*Storm, len(s.storms))
	copy(out, s.storms)
	return out
}

// Storm looks up a storm of this season by ATCF identifier.
func (s *Season) Storm(id string) (*Storm, bool) {
	st, ok := s.index[id]
	return st, ok
}

// Len returns the number of storms in the season.
func (s *Season) Len() int { return len(s.storms) }

// Start returns the earliest tropical cyclone start among the season's storms.
func (s *Season) Start() (time.Time, bool) {
	var first time.Time
	found := false
	for _, st := range s.storms {
		t, ok := st.Start()
		if ok && (!found || t.Before(first)) {
			first, found = t, true
		}
	}
	return first, found
}

// End returns the latest tropical cyclone end among the season's storms.
func (s *Season) End() (time.Time, bool) {
	var last time.Time
	found := false
	for _, st := range s.storms {
		t, ok := st.End()
		if ok && (!found || t.After(last)) {
			last, found = t, true
		}
	}
	return last, found
}

// Length returns the span between Start and End in fractional days.
func (s *Season) Length() float64 {
	start, ok1 := s.Start()
	end, ok2 := s.End()
	if !ok1 || !ok2 {
		return 0
	}
	return days(end.Sub(start))
}

// SeasonMetrics are storm metrics summed, or counted for per-storm booleans,
// across a season (or any group of storms).
type SeasonMetrics struct {
	Tracks    int `json:"tracks"`
	Landfalls int `json:"landfalls"`

	LandfallTC  int `json:"landfall_TC"`
	LandfallTD  int `json:"landfall_TD"`
	LandfallTS  int `json:"landfall_TS"`
	LandfallHU  int `json:"landfall_HU"`
	LandfallMHU int `json:"landfall_MHU"`

	TSReach    int `json:"TSreach"`
	HUReach    int `json:"HUreach"`
	MHUReach   int `json:"MHUreach"`
	Cat45Reach int `json:"cat45reach"`
	Cat5Reach  int `json:"cat5reach"`
	TSOnly     int `json:"TSonly"`
	HUOnly     int `json:"HUonly"`
	TDOnly     int `json:"TDonly"`

	TrackDistance    float64 `json:"track_distance"`
	TrackDistanceTC  float64 `json:"track_distance_TC"`
	TrackDistanceTS  float64 `json:"track_distance_TS"`
	TrackDistanceHU  float64 `json:"track_distance_HU"`
	TrackDistanceMHU float64 `json:"track_distance_MHU"`

	ACE  float64 `json:"ACE"`
	HDP  float64 `json:"HDP"`
	MHDP float64 `json:"MHDP"`

	DurationTC  float64 `json:"duration_TC"`
	DurationTS  float64 `json:"duration_TS"`
	DurationHU  float64 `json:"duration_HU"`
	DurationMHU float64 `json:"duration_MHU"`
}

// Metrics aggregates the full-track metrics of every storm in the season.
func (s *Season) Metrics() SeasonMetrics {
	var agg SeasonMetrics
	for _, st := range s.storms {
		agg.add(st.Metrics())
	}
	agg.finish()
	return agg
}

// MetricsWithin aggregates windowed storm metrics. Only storms with at least one
// observation inside the window are counted as tracks.
func (s *Season) MetricsWithin(w Window) SeasonMetrics {
	var agg SeasonMetrics
	for _, st := range s.storms {
		m, ok := st.MetricsWithin(w)
		if !ok {
			continue
		}
		agg.add(m)
	}
	agg.finish()
	return agg
}

func (a *SeasonMetrics) add(m StormMetrics) {
	a.Tracks++
	a.Landfalls += m.Landfalls
	a.LandfallTC += b2i(m.LandfallTC)
	a.LandfallTD += b2i(m.LandfallTD)
	a.LandfallTS += b2i(m.LandfallTS)
	a.LandfallHU += b2i(m.LandfallHU)
	a.LandfallMHU += b2i(m.LandfallMHU)
	a.TSReach += b2i(m.TSReach)
	a.HUReach += b2i(m.HUReach)
	a.MHUReach += b2i(m.MHUReach)
	a.Cat45Reach += b2i(m.Cat45Reach)
	a.Cat5Reach += b2i(m.Cat5Reach)
	a.TrackDistance += m.TrackDistance
	a.TrackDistanceTC += m.TrackDistanceTC
	a.TrackDistanceTS += m.TrackDistanceTS
	a.TrackDistanceHU += m.TrackDistanceHU
	a.TrackDistanceMHU += m.TrackDistanceMHU
	a.ACE += m.ACE
	a.HDP += m.HDP
	a.MHDP += m.MHDP
	a.DurationTC += m.DurationTC
	a.DurationTS += m.DurationTS
	a.DurationHU += m.DurationHU
	a.DurationMHU += m.DurationMHU
}

// merge adds another aggregate, used for multi-season totals.
func (a *SeasonMetrics) merge(o SeasonMetrics) {
	a.Tracks += o.Tracks
	a.Landfalls += o.Landfalls
	a.LandfallTC += o.LandfallTC
	a.LandfallTD += o.LandfallTD
	a.LandfallTS += o.LandfallTS
	a.LandfallHU += o.LandfallHU
	a.LandfallMHU += o.LandfallMHU
	a.TSReach += o.TSReach
	a.HUReach += o.HUReach
	a.MHUReach += o.MHUReach
	a.Cat45Reach += o.Cat45Reach
	a.Cat5Reach += o.Cat5Reach
	a.TrackDistance += o.TrackDistance
	a.TrackDistanceTC += o.TrackDistanceTC
	a.TrackDistanceTS += o.TrackDistanceTS
	a.TrackDistanceHU += o.TrackDistanceHU
	a.TrackDistanceMHU += o.TrackDistanceMHU
	a.ACE += o.ACE
	a.HDP += o.HDP
	a.MHDP += o.MHDP
	a.DurationTC += o.DurationTC
	a.DurationTS += o.DurationTS
	a.DurationHU += o.DurationHU
	a.DurationMHU += o.DurationMHU
}

// finish derives the subtraction counts from the reach counts.
func (a *SeasonMetrics) finish() {
	a.TSOnly = a.TSReach - a.HUReach
	a.HUOnly = a.HUReach - a.MHUReach
	a.TDOnly = a.Tracks - a.TSReach
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
