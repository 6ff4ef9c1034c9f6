package domain

import (
	"fmt"
	"sort"
	"strings"
)

// eraAnchor is the first year a climate era may start; eras begin every
// increment years from here.
const eraAnchor = 1801

// Order selects the ranking direction. The zero value uses the metric's
// natural order.
type Order string

const (
	OrderDefault    Order = ""
	OrderDescending Order = "desc"
	OrderAscending  Order = "asc"
)

func (o Order) descending(m Metric) (bool, error) {
	switch Order(strings.ToLower(string(o))) {
	case OrderDefault:
		return !m.Ascending, nil
	case OrderDescending:
		return true, nil
	case OrderAscending:
		return false, nil
	default:
		return false, &ValidationError{Field: "order", Reason: fmt.Sprintf("unknown order %q", string(o))}
	}
}

func orderOf(desc bool) Order {
	if desc {
		return OrderDescending
	}
	return OrderAscending
}

// ContainsMode decides which part of a track must fall inside a bounding box.
type ContainsMode string

const (
	ContainsAnywhere ContainsMode = "anywhere"
	ContainsStart    ContainsMode = "start"
)

func (c ContainsMode) normalize() (ContainsMode, error) {
	switch ContainsMode(strings.ToLower(string(c))) {
	case "", ContainsAnywhere:
		return ContainsAnywhere, nil
	case ContainsStart:
		return ContainsStart, nil
	default:
		return "", &ValidationError{Field: "contains", Reason: fmt.Sprintf("unknown contains mode %q", string(c))}
	}
}

// StormQuery ranks individual storms. Year bounds of 0 mean the record bound.
type StormQuery struct {
	Quantity int
	Metric   string
	Year1    int
	Year2    int
	Box      *BoundingBox
	Contains ContainsMode
	Order    Order
}

// SeasonQuery ranks seasons, optionally restricted to a month-day window.
type SeasonQuery struct {
	Quantity int
	Metric   string
	Year1    int
	Year2    int
	Window   *Window
	Order    Order
}

// ClimoQuery ranks multi-year climate eras. Zero Climatology or Increment
// takes the Ranker's limits.
type ClimoQuery struct {
	Quantity    int
	Metric      string
	Year1       int
	Year2       int
	Climatology int
	Increment   int
	Order       Order
}

// StandingQuery places one season among the seasons of [Year1, Year2].
type StandingQuery struct {
	Year   int
	Metric string
	Year1  int
	Year2  int
	Window *Window
	Order  Order
}

// StormEntry is a ranked storm with the metrics it was ranked on.
type StormEntry struct {
	Storm   *Storm
	Metrics StormMetrics
}

// SeasonEntry is a ranked season. Metrics are windowed when the query was.
type SeasonEntry struct {
	Year    int
	Metrics SeasonMetrics
}

// Era is a span of consecutive seasons with their summed metrics.
type Era struct {
	Start   int
	End     int
	Metrics SeasonMetrics
}

func (e Era) String() string { return fmt.Sprintf("%d-%d", e.Start, e.End) }

// Ranked is one row of a ranking. Rank is the dense rank; Competition counts
// every unit with a strictly better value. First marks the first row of a
// rank, Tied the rows after it, and Ties is how many other rows share it.
type Ranked[T any] struct {
	Unit        T
	Value       float64
	Rank        int
	Competition int
	First       bool
	Tied        bool
	Ties        int
}

// Ranking is the ordered result of a ranking query.
type Ranking[T any] struct {
	Metric Metric
	Order  Order
	Year1  int
	Year2  int
	Window *Window
	Rows   []Ranked[T]
	Caveat *Caveat
}

// Ranks returns the number of distinct ranks in the result.
func (r Ranking[T]) Ranks() int {
	if len(r.Rows) == 0 {
		return 0
	}
	return r.Rows[len(r.Rows)-1].Rank
}

type scored[T any] struct {
	unit  T
	value float64
}

func better(desc bool, a, b float64) bool {
	if desc {
		return a > b
	}
	return a < b
}

// rankWithTies orders units and keeps every unit whose value is among the
// first quantity distinct values. Descending rankings never list a zero.
func rankWithTies[T any](units []scored[T], desc bool, quantity int) []Ranked[T] {
	eligible := make([]scored[T], 0, len(units))
	for _, u := range units {
		if desc && u.value <= 0 {
			continue
		}
		eligible = append(eligible, u)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return better(desc, eligible[i].value, eligible[j].value)
	})

	var distinct []float64
	counts := make(map[float64]int)
	first := make(map[float64]int)
	for i, u := range eligible {
		if _, ok := counts[u.value]; !ok {
			first[u.value] = i
			distinct = append(distinct, u.value)
		}
		counts[u.value]++
	}
	if len(distinct) > quantity {
		distinct = distinct[:quantity]
	}
	rankOf := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		rankOf[v] = i + 1
	}

	rows := make([]Ranked[T], 0, len(distinct))
	prev := 0
	for i, u := range eligible {
		rank, ok := rankOf[u.value]
		if !ok {
			break
		}
		row := Ranked[T]{
			Unit:        u.unit,
			Value:       u.value,
			Rank:        rank,
			Competition: first[u.value] + 1,
			Ties:        counts[u.value] - 1,
		}
		if i == 0 || rank != prev {
			row.First = true
		} else {
			row.Tied = true
		}
		prev = rank
		rows = append(rows, row)
	}
	return rows
}

// Ranker answers ranking queries against a frozen Record.
type Ranker struct {
	record *Record
	limits Limits
}

// NewRanker returns a Ranker. Zero limits fall back to their defaults.
func NewRanker(r *Record, limits Limits) *Ranker {
	if limits.MinQuantity <= 0 {
		limits.MinQuantity = DefaultMinQuantity
	}
	if limits.MaxQuantity <= 0 {
		limits.MaxQuantity = DefaultMaxQuantity
	}
	if limits.Climatology <= 0 {
		limits.Climatology = DefaultClimatology
	}
	if limits.Increment <= 0 {
		limits.Increment = DefaultIncrement
	}
	return &Ranker{record: r, limits: limits}
}

// Record returns the ranked record.
func (rk *Ranker) Record() *Record { return rk.record }

// Limits returns the effective limits.
func (rk *Ranker) Limits() Limits { return rk.limits }

func (rk *Ranker) prepare(quantity int, name string) (Metric, error) {
	if err := rk.limits.checkQuantity(quantity); err != nil {
		return Metric{}, err
	}
	return LookupMetric(name)
}

// RankStorms ranks storms of [Year1, Year2] by a storm metric. Storms whose
// value is unknown are not eligible.
func (rk *Ranker) RankStorms(q StormQuery) (Ranking[StormEntry], error) {
	m, err := rk.prepare(q.Quantity, q.Metric)
	if err != nil {
		return Ranking[StormEntry]{}, err
	}
	if !m.RanksStorms() {
		return Ranking[StormEntry]{}, &ValidationError{Field: "metric", Reason: fmt.Sprintf("%s cannot rank storms", m.Name)}
	}
	desc, err := q.Order.descending(m)
	if err != nil {
		return Ranking[StormEntry]{}, err
	}
	mode, err := q.Contains.normalize()
	if err != nil {
		return Ranking[StormEntry]{}, err
	}
	if q.Box != nil {
		if err := q.Box.validate(); err != nil {
			return Ranking[StormEntry]{}, err
		}
	}
	y1, y2, err := rk.record.resolveYears(q.Year1, q.Year2)
	if err != nil {
		return Ranking[StormEntry]{}, err
	}

	var units []scored[StormEntry]
	for _, st := range rk.record.storms {
		if st.year < y1 || st.year > y2 {
			continue
		}
		if q.Box != nil && !inBox(st, *q.Box, mode) {
			continue
		}
		sm := st.Metrics()
		v, ok := m.Storm(sm)
		if !ok {
			continue
		}
		units = append(units, scored[StormEntry]{unit: StormEntry{Storm: st, Metrics: sm}, value: v})
	}

	return Ranking[StormEntry]{
		Metric: m,
		Order:  orderOf(desc),
		Year1:  y1,
		Year2:  y2,
		Rows:   rankWithTies(units, desc, q.Quantity),
		Caveat: rk.limits.caveatFor(m, y1, y2),
	}, nil
}

func inBox(st *Storm, box BoundingBox, mode ContainsMode) bool {
	if len(st.obs) == 0 {
		return false
	}
	if mode == ContainsStart {
		return box.Contains(st.obs[0].Location())
	}
	for _, o := range st.obs {
		if box.Contains(o.Location()) {
			return true
		}
	}
	return false
}

func (rk *Ranker) seasonMetric(name string) (Metric, error) {
	m, err := LookupMetric(name)
	if err != nil {
		return Metric{}, err
	}
	if !m.RanksSeasons() {
		return Metric{}, &ValidationError{Field: "metric", Reason: fmt.Sprintf("%s cannot rank seasons", m.Name)}
	}
	return m, nil
}

// RankSeasons ranks the seasons of [Year1, Year2]. With a Window, every
// metric is recomputed from the observations inside it, so a full-year window
// yields the same ranking as no window at all.
func (rk *Ranker) RankSeasons(q SeasonQuery) (Ranking[SeasonEntry], error) {
	if err := rk.limits.checkQuantity(q.Quantity); err != nil {
		return Ranking[SeasonEntry]{}, err
	}
	m, err := rk.seasonMetric(q.Metric)
	if err != nil {
		return Ranking[SeasonEntry]{}, err
	}
	desc, err := q.Order.descending(m)
	if err != nil {
		return Ranking[SeasonEntry]{}, err
	}
	if q.Window != nil {
		if err := q.Window.validate(); err != nil {
			return Ranking[SeasonEntry]{}, err
		}
	}
	y1, y2, err := rk.record.resolveYears(q.Year1, q.Year2)
	if err != nil {
		return Ranking[SeasonEntry]{}, err
	}

	var units []scored[SeasonEntry]
	for _, y := range rk.record.years {
		if y < y1 || y > y2 {
			continue
		}
		sm := rk.record.seasonMetrics(y, q.Window)
		units = append(units, scored[SeasonEntry]{unit: SeasonEntry{Year: y, Metrics: sm}, value: m.Season(sm)})
	}

	return Ranking[SeasonEntry]{
		Metric: m,
		Order:  orderOf(desc),
		Year1:  y1,
		Year2:  y2,
		Window: q.Window,
		Rows:   rankWithTies(units, desc, q.Quantity),
		Caveat: rk.limits.caveatFor(m, y1, y2),
	}, nil
}

// Eras lists the climate eras of length climatology, starting every
// increment years from 1801, that lie entirely inside [year1, year2].
func Eras(year1, year2, climatology, increment int) [][2]int {
	start := eraAnchor
	if year1 > start {
		start += (year1 - start + increment - 1) / increment * increment
	}
	var eras [][2]int
	for s := start; s+climatology-1 <= year2; s += increment {
		eras = append(eras, [2]int{s, s + climatology - 1})
	}
	return eras
}

// RankClimo ranks climate eras. An era's value is the sum of its seasons'
// values; years without storms contribute zero.
func (rk *Ranker) RankClimo(q ClimoQuery) (Ranking[Era], error) {
	if err := rk.limits.checkQuantity(q.Quantity); err != nil {
		return Ranking[Era]{}, err
	}
	m, err := rk.seasonMetric(q.Metric)
	if err != nil {
		return Ranking[Era]{}, err
	}
	desc, err := q.Order.descending(m)
	if err != nil {
		return Ranking[Era]{}, err
	}
	climo, incr := q.Climatology, q.Increment
	if climo == 0 {
		climo = rk.limits.Climatology
	}
	if incr == 0 {
		incr = rk.limits.Increment
	}
	if climo < 1 {
		return Ranking[Era]{}, &ValidationError{Field: "climatology", Reason: "must be at least 1"}
	}
	if incr < 1 {
		return Ranking[Era]{}, &ValidationError{Field: "increment", Reason: "must be at least 1"}
	}
	y1, y2, err := rk.record.resolveYears(q.Year1, q.Year2)
	if err != nil {
		return Ranking[Era]{}, err
	}

	var units []scored[Era]
	for _, span := range Eras(y1, y2, climo, incr) {
		era := Era{Start: span[0], End: span[1]}
		var value float64
		for y := era.Start; y <= era.End; y++ {
			sm := rk.record.seasonMetrics(y, nil)
			value += m.Season(sm)
			era.Metrics.merge(sm)
		}
		era.Metrics.finish()
		units = append(units, scored[Era]{unit: era, value: value})
	}

	return Ranking[Era]{
		Metric: m,
		Order:  orderOf(desc),
		Year1:  y1,
		Year2:  y2,
		Rows:   rankWithTies(units, desc, q.Quantity),
		Caveat: rk.limits.caveatFor(m, y1, y2),
	}, nil
}

// Standing is where one season falls among the seasons of a year range.
type Standing struct {
	Year   int
	Metric Metric
	Order  Order
	Year1  int
	Year2  int
	Window *Window

	Value float64
	// Rank is the dense rank among OutOf distinct values.
	Rank  int
	OutOf int
	// Tied counts the other seasons with the same value.
	Tied int
	// Competition is the rank counting every better season; CompetitionOutOf
	// is the competition rank of the last place.
	Competition      int
	CompetitionOutOf int

	Metrics SeasonMetrics
	Caveat  *Caveat
}

// SeasonStanding ranks one season against the seasons of [Year1, Year2].
// Unlike RankSeasons it keeps zero values, and a Year outside the range or
// without storms is still placed, the latter as an empty season.
func (rk *Ranker) SeasonStanding(q StandingQuery) (Standing, error) {
	if q.Year <= 0 {
		return Standing{}, &ValidationError{Field: "year", Reason: "must be positive"}
	}
	m, err := rk.seasonMetric(q.Metric)
	if err != nil {
		return Standing{}, err
	}
	desc, err := q.Order.descending(m)
	if err != nil {
		return Standing{}, err
	}
	if q.Window != nil {
		if err := q.Window.validate(); err != nil {
			return Standing{}, err
		}
	}
	y1, y2, err := rk.record.resolveYears(q.Year1, q.Year2)
	if err != nil {
		return Standing{}, err
	}

	target := rk.record.seasonMetrics(q.Year, q.Window)
	value := m.Season(target)

	var values []float64
	included := false
	for _, y := range rk.record.years {
		if y < y1 || y > y2 {
			continue
		}
		values = append(values, m.Season(rk.record.seasonMetrics(y, q.Window)))
		included = included || y == q.Year
	}
	if !included {
		values = append(values, value)
	}
	sort.SliceStable(values, func(i, j int) bool { return better(desc, values[i], values[j]) })

	st := Standing{
		Year:    q.Year,
		Metric:  m,
		Order:   orderOf(desc),
		Year1:   y1,
		Year2:   y2,
		Window:  q.Window,
		Value:   value,
		Metrics: target,
		Caveat:  rk.limits.caveatFor(m, y1, y2),
	}
	last := values[len(values)-1]
	lastCount := 0
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			st.OutOf++
			if v == value && st.Rank == 0 {
				st.Rank = st.OutOf
				st.Competition = i + 1
			}
		}
		if v == value {
			st.Tied++
		}
		if v == last {
			lastCount++
		}
	}
	st.Tied--
	st.CompetitionOutOf = len(values) - lastCount + 1
	return st, nil
}
