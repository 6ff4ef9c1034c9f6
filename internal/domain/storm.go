package domain

import "time"

// UnnamedStorm is the placeholder name HURDAT2 gives to storms without one.
const UnnamedStorm = "UNNAMED"

// Storm is one tracked system: an ATCF identifier, a name and its observations.
// A Storm is only reachable through a built Record and never changes afterwards.
type Storm struct {
	id     string
	name   string
	number int
	year   int
	season *Season
	obs    []Observation
}

// ID returns the ATCF identifier, e.g. "AL092005".
func (s *Storm) ID() string { return s.id }

// Name returns the issued name in upper case.
func (s *Storm) Name() string { return s.name }

// Named reports whether the storm has a real name.
func (s *Storm) Named() bool { return s.name != "" && s.name != UnnamedStorm }

// Number returns the storm's sequence number within its season and basin.
func (s *Storm) Number() int { return s.number }

// Year returns the season year encoded in the identifier.
func (s *Storm) Year() int { return s.year }

// BasinCode returns the two-letter ATCF basin prefix.
func (s *Storm) BasinCode() string { return s.id[:2] }

// Season returns the owning season.
func (s *Storm) Season() *Season { return s.season }

// Len returns the number of observations.
func (s *Storm) Len() int { return len(s.obs) }

// Observations returns a copy of the observation sequence.
func (s *Storm) Observations() []Observation {
	out := make([]Observation, len(s.obs))
	copy(out, s.obs)
	return out
}

// Observation returns the i-th observation.
func (s *Storm) Observation(i int) Observation { return s.obs[i] }

// Start returns the time of the first tropical cyclone observation.
func (s *Storm) Start() (time.Time, bool) {
	for _, o := range s.obs {
		if o.IsTropical() {
			return o.Time, true
		}
	}
	return time.Time{}, false
}

// End returns the time the storm stopped being a tropical cyclone: the
// observation following the last tropical one, or that one if it is last.
func (s *Storm) End() (time.Time, bool) {
	for i := len(s.obs) - 1; i >= 0; i-- {
		if !s.obs[i].IsTropical() {
			continue
		}
		if i+1 < len(s.obs) {
			return s.obs[i+1].Time, true
		}
		return s.obs[i].Time, true
	}
	return time.Time{}, false
}

// Landfalls returns the observations marked as landfall while tropical.
func (s *Storm) Landfalls() []Observation {
	var out []Observation
	for _, o := range s.obs {
		if o.IsLandfall() && o.IsTropical() {
			out = append(out, o)
		}
	}
	return out
}

// Motion describes the storm's forward movement into an observation.
type Motion struct {
	Heading  float64 `json:"heading"`
	Cardinal string  `json:"cardinal"`
	Speed    float64 `json:"speed_kt"`
}

// Motion returns heading and forward speed between observation i-1 and i.
// The first observation and zero-length intervals have no motion.
func (s *Storm) Motion(i int) (Motion, bool) {
	if i <= 0 || i >= len(s.obs) {
		return Motion{}, false
	}
	prev, cur := s.obs[i-1], s.obs[i]
	hours := cur.Time.Sub(prev.Time).Hours()
	if hours <= 0 {
		return Motion{}, false
	}
	heading := Heading(prev.Location(), cur.Location())
	return Motion{
		Heading:  heading,
		Cardinal: CardinalDirection(heading),
		Speed:    Haversine(prev.Location(), cur.Location()) / hours,
	}, true
}

// PercentSeasonACE returns the storm's share (0..1) of its season's ACE.
func (s *Storm) PercentSeasonACE() float64 {
	if s.season == nil {
		return 0
	}
	total := s.season.Metrics().ACE
	if total <= 0 {
		return 0
	}
	return s.Metrics().ACE / total
}

// StormMetrics are the derived statistics of one storm. ACE-family values are
// in kt²; divide by 10⁴ for the customary reporting unit.
type StormMetrics struct {
	TrackDistance    float64 `json:"track_distance"`
	TrackDistanceTC  float64 `json:"track_distance_TC"`
	TrackDistanceTS  float64 `json:"track_distance_TS"`
	TrackDistanceHU  float64 `json:"track_distance_HU"`
	TrackDistanceMHU float64 `json:"track_distance_MHU"`

	ACE           float64 `json:"ACE"`
	HDP           float64 `json:"HDP"`
	MHDP          float64 `json:"MHDP"`
	ACENoLandfall float64 `json:"ACE_no_landfall"`

	MaxWind   int  `json:"maxwind"`
	MinMSLP   *int `json:"minmslp,omitempty"`
	Landfalls int  `json:"landfalls"`

	LandfallTC  bool `json:"landfall_TC"`
	LandfallTD  bool `json:"landfall_TD"`
	LandfallTS  bool `json:"landfall_TS"`
	LandfallHU  bool `json:"landfall_HU"`
	LandfallMHU bool `json:"landfall_MHU"`

	TSReach    bool `json:"TSreach"`
	HUReach    bool `json:"HUreach"`
	MHUReach   bool `json:"MHUreach"`
	Cat45Reach bool `json:"cat45reach"`
	Cat5Reach  bool `json:"cat5reach"`

	Duration    float64 `json:"duration"`
	DurationTC  float64 `json:"duration_TC"`
	DurationTS  float64 `json:"duration_TS"`
	DurationHU  float64 `json:"duration_HU"`
	DurationMHU float64 `json:"duration_MHU"`

	StatusHighest string `json:"status_highest,omitempty"`
}

// ACEPerNmi returns ACE per nautical mile travelled at storm strength.
func (m StormMetrics) ACEPerNmi() float64 {
	if m.TrackDistanceTS <= 0 {
		return 0
	}
	return m.ACE / m.TrackDistanceTS
}

// HDPPercentACE returns the fraction of ACE accrued at hurricane strength.
func (m StormMetrics) HDPPercentACE() float64 {
	if m.ACE <= 0 {
		return 0
	}
	return m.HDP / m.ACE
}

// Metrics computes every derived statistic over the whole track.
func (s *Storm) Metrics() StormMetrics {
	m, _ := s.scan(func(Observation) bool { return true })
	return m
}

// MetricsWithin computes statistics using only observations whose month-day
// lies inside w. A track segment counts when its earlier point is inside the
// window. The boolean is false when no observation falls inside.
func (s *Storm) MetricsWithin(w Window) (StormMetrics, bool) {
	return s.scan(func(o Observation) bool { return w.Contains(o.MonthDay()) })
}

func (s *Storm) scan(in func(Observation) bool) (StormMetrics, bool) {
	var (
		m        StormMetrics
		dist     [len(tiers)]float64
		dur      [len(tiers)]time.Duration
		seen     = make(map[Status]bool)
		inWindow bool
		landed   bool
	)

	for i, o := range s.obs {
		if !in(o) {
			continue
		}
		inWindow = true
		seen[o.Status] = true

		if i+1 < len(s.obs) {
			next := s.obs[i+1]
			d := Haversine(o.Location(), next.Location())
			gap := next.Time.Sub(o.Time)
			for _, t := range tiers {
				if t.Holds(o) {
					dist[t] += d
					dur[t] += gap
				}
			}
		}

		if o.Wind > m.MaxWind {
			m.MaxWind = o.Wind
		}
		if o.Pressure != nil && (m.MinMSLP == nil || *o.Pressure < *m.MinMSLP) {
			p := *o.Pressure
			m.MinMSLP = &p
		}

		if o.IsLandfall() {
			landed = true
			if o.IsTropical() {
				m.Landfalls++
			}
			m.LandfallTD = m.LandfallTD || o.Status.IsDepression()
			m.LandfallTS = m.LandfallTS || o.Status == StatusSubtropicalStorm || o.Status == StatusTropicalStorm
			m.LandfallHU = m.LandfallHU || o.Status == StatusHurricane
			m.LandfallMHU = m.LandfallMHU || o.IsMajor()
		}

		energy := float64(o.Wind) * float64(o.Wind)
		if o.IsSynoptic() {
			if o.Wind >= TropicalStormWind && o.Status.IsStormStrength() {
				m.ACE += energy
				if !landed {
					m.ACENoLandfall += energy
				}
			}
			if o.Wind >= HurricaneWind && o.Status == StatusHurricane {
				m.HDP += energy
			}
			if o.Wind >= MajorHurricaneWind && o.Status == StatusHurricane {
				m.MHDP += energy
			}
		}

		m.TSReach = m.TSReach || o.Status.IsStormStrength()
		if o.Status == StatusHurricane {
			m.HUReach = true
			m.MHUReach = m.MHUReach || o.Wind >= MajorHurricaneWind
			m.Cat45Reach = m.Cat45Reach || o.Category() >= 4
			m.Cat5Reach = m.Cat5Reach || o.Category() == 5
		}
	}

	m.LandfallTC = m.Landfalls > 0

	m.TrackDistance = dist[TierAny]
	m.TrackDistanceTC = dist[TierTC]
	m.TrackDistanceTS = dist[TierTS]
	m.TrackDistanceHU = dist[TierHU]
	m.TrackDistanceMHU = dist[TierMHU]

	m.Duration = days(dur[TierAny])
	m.DurationTC = days(dur[TierTC])
	m.DurationTS = days(dur[TierTS])
	m.DurationHU = days(dur[TierHU])
	m.DurationMHU = days(dur[TierMHU])

	for _, st := range statusOrder {
		if seen[st] {
			m.StatusHighest = FormatStatus(st, m.MaxWind)
			break
		}
	}
	return m, inWindow
}
