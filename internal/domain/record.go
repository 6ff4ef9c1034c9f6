package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Builder errors. Ingestion stops at the first one.
var (
	ErrFrozen         = errors.New("record already built")
	ErrNoStorm        = errors.New("observation before any storm header")
	ErrNonMonotonic   = errors.New("observation earlier than the previous one")
	ErrDuplicateStorm = errors.New("duplicate storm identifier")
	ErrInvalidStormID = errors.New("invalid storm identifier")
	ErrEmptyRecord    = errors.New("record has no storms")
	ErrEmptyStorm     = errors.New("storm has no observations")
)

// basinNames maps ATCF basin prefixes to display names.
var basinNames = map[string]string{
	"AL": "Atlantic",
	"EP": "East Pacific",
	"CP": "Central Pacific",
}

// ParseStormID splits an ATCF identifier such as "AL092005" into basin,
// number and year.
func ParseStormID(id string) (basin string, number, year int, err error) {
	if len(id) != 8 {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidStormID, id)
	}
	basin = strings.ToUpper(id[:2])
	if basin[0] < 'A' || basin[0] > 'Z' || basin[1] < 'A' || basin[1] > 'Z' {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidStormID, id)
	}
	number, err = strconv.Atoi(id[2:4])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidStormID, id)
	}
	year, err = strconv.Atoi(id[4:8])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidStormID, id)
	}
	return basin, number, year, nil
}

// Builder assembles a Record from storm headers and observations in file
// order. Build freezes the result; the builder accepts nothing afterwards.
type Builder struct {
	storms  []*Storm
	index   map[string]*Storm
	current *Storm
	frozen  bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]*Storm)}
}

// StartStorm opens a new storm. Subsequent observations attach to it.
func (b *Builder) StartStorm(id, name string) error {
	if b.frozen {
		return ErrFrozen
	}
	if err := b.closeCurrent(); err != nil {
		return err
	}
	id = strings.ToUpper(strings.TrimSpace(id))
	_, number, year, err := ParseStormID(id)
	if err != nil {
		return err
	}
	if _, dup := b.index[id]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateStorm, id)
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		name = UnnamedStorm
	}
	st := &Storm{id: id, name: name, number: number, year: year}
	b.storms = append(b.storms, st)
	b.index[id] = st
	b.current = st
	return nil
}

// AddObservation appends an observation to the current storm.
func (b *Builder) AddObservation(o Observation) error {
	if b.frozen {
		return ErrFrozen
	}
	if b.current == nil {
		return ErrNoStorm
	}
	if n := len(b.current.obs); n > 0 && o.Time.Before(b.current.obs[n-1].Time) {
		return fmt.Errorf("%w: %s at %s", ErrNonMonotonic, b.current.id, o.Time.Format("2006-01-02 15:04"))
	}
	b.current.obs = append(b.current.obs, o)
	return nil
}

func (b *Builder) closeCurrent() error {
	if b.current != nil && len(b.current.obs) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyStorm, b.current.id)
	}
	return nil
}

// Build groups storms into seasons and returns the frozen Record.
func (b *Builder) Build() (*Record, error) {
	if b.frozen {
		return nil, ErrFrozen
	}
	if len(b.storms) == 0 {
		return nil, ErrEmptyRecord
	}
	if err := b.closeCurrent(); err != nil {
		return nil, err
	}
	b.frozen = true

	r := &Record{
		storms:  b.storms,
		index:   b.index,
		seasons: make(map[int]*Season),
	}
	for _, st := range b.storms {
		season, ok := r.seasons[st.year]
		if !ok {
			season = &Season{year: st.year, record: r, index: make(map[string]*Storm)}
			r.seasons[st.year] = season
			r.years = append(r.years, st.year)
		}
		st.season = season
		season.storms = append(season.storms, st)
		season.index[st.id] = st
	}
	sort.Ints(r.years)
	b.current = nil
	return r, nil
}

// Record is the frozen dataset: every storm by identifier and every season by
// year. All aggregates are recomputed from the storms on each call.
type Record struct {
	storms  []*Storm
	index   map[string]*Storm
	seasons map[int]*Season
	years   []int
}

// Storm looks up a storm by ATCF identifier, case-insensitively.
func (r *Record) Storm(id string) (*Storm, bool) {
	st, ok := r.index[strings.ToUpper(strings.TrimSpace(id))]
	return st, ok
}

// Season looks up a season by year.
func (r *Record) Season(year int) (*Season, bool) {
	s, ok := r.seasons[year]
	return s, ok
}

// Storms returns every storm in file order.
func (r *Record) Storms() []*Storm {
	out := make([]*Storm, len(r.storms))
	copy(out, r.storms)
	return out
}

// Seasons returns every season in ascending year order.
func (r *Record) Seasons() []*Season {
	out := make([]*Season, 0, len(r.years))
	for _, y := range r.years {
		out = append(out, r.seasons[y])
	}
	return out
}

// Len returns the number of storms.
func (r *Record) Len() int { return len(r.storms) }

// RecordRange returns the first and last season years present.
func (r *Record) RecordRange() (int, int) {
	return r.years[0], r.years[len(r.years)-1]
}

// Basin names the ocean basins covered by the record.
func (r *Record) Basin() string {
	seen := make(map[string]bool)
	var names []string
	for _, st := range r.storms {
		code := st.BasinCode()
		if seen[code] {
			continue
		}
		seen[code] = true
		name, ok := basinNames[code]
		if !ok {
			name = code
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "/")
}

// seasonMetrics returns the season's metrics, restricted to w when it is set,
// or zero values when the year has no storms.
func (r *Record) seasonMetrics(year int, w *Window) SeasonMetrics {
	s, ok := r.seasons[year]
	if !ok {
		return SeasonMetrics{}
	}
	if w == nil {
		return s.Metrics()
	}
	return s.MetricsWithin(*w)
}

// resolveYears validates an optional year pair (0 = unset) and clamps it to
// the record range.
func (r *Record) resolveYears(year1, year2 int) (int, int, error) {
	if year1 != 0 && year2 != 0 && year1 >= year2 {
		return 0, 0, &ValidationError{Field: "year1", Reason: "must be before year2"}
	}
	lo, hi := r.RecordRange()
	if year1 == 0 || year1 < lo {
		year1 = lo
	}
	if year2 == 0 || year2 > hi {
		year2 = hi
	}
	if year1 > year2 {
		return 0, 0, &ValidationError{Field: "year1", Reason: "range does not overlap the record"}
	}
	return year1, year2, nil
}

// MultiSeasonSummary totals season metrics over a span of years.
type MultiSeasonSummary struct {
	Year1   int            `json:"year1"`
	Year2   int            `json:"year2"`
	Seasons int            `json:"seasons"`
	Totals  SeasonMetrics  `json:"totals"`
	PerYear SeasonAverages `json:"per_year"`
}

// SeasonAverages are per-year means of the headline season metrics.
type SeasonAverages struct {
	Tracks           float64 `json:"tracks"`
	TSReach          float64 `json:"TSreach"`
	HUReach          float64 `json:"HUreach"`
	MHUReach         float64 `json:"MHUreach"`
	LandfallTC       float64 `json:"landfall_TC"`
	TrackDistanceTC  float64 `json:"track_distance_TC"`
	TrackDistanceTS  float64 `json:"track_distance_TS"`
	TrackDistanceHU  float64 `json:"track_distance_HU"`
	TrackDistanceMHU float64 `json:"track_distance_MHU"`
	ACE              float64 `json:"ACE"`
	HDP              float64 `json:"HDP"`
	MHDP             float64 `json:"MHDP"`
}

// MultiSeasonSummary totals every season in [year1, year2] (0 = record bound)
// and averages the totals per year. Years without storms count as empty seasons.
func (r *Record) MultiSeasonSummary(year1, year2 int) (MultiSeasonSummary, error) {
	y1, y2, err := r.resolveYears(year1, year2)
	if err != nil {
		return MultiSeasonSummary{}, err
	}
	sum := MultiSeasonSummary{Year1: y1, Year2: y2, Seasons: y2 - y1 + 1}
	for y := y1; y <= y2; y++ {
		sum.Totals.merge(r.seasonMetrics(y, nil))
	}
	sum.Totals.finish()

	n := float64(sum.Seasons)
	t := sum.Totals
	sum.PerYear = SeasonAverages{
		Tracks:           float64(t.Tracks) / n,
		TSReach:          float64(t.TSReach) / n,
		HUReach:          float64(t.HUReach) / n,
		MHUReach:         float64(t.MHUReach) / n,
		LandfallTC:       float64(t.LandfallTC) / n,
		TrackDistanceTC:  t.TrackDistanceTC / n,
		TrackDistanceTS:  t.TrackDistanceTS / n,
		TrackDistanceHU:  t.TrackDistanceHU / n,
		TrackDistanceMHU: t.TrackDistanceMHU / n,
		ACE:              t.ACE / n,
		HDP:              t.HDP / n,
		MHDP:             t.MHDP / n,
	}
	return sum, nil
}
