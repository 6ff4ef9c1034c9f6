package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RequestKind selects which ranking a RankRequest asks for.
type RequestKind string

const (
	KindStorms   RequestKind = "storms"
	KindSeasons  RequestKind = "seasons"
	KindClimo    RequestKind = "climo"
	KindStanding RequestKind = "standing"
)

// RankRequest is a ranking query as it arrives over the wire. Start and Thru
// are "MM-DD" month-days; leaving both empty ranks whole seasons.
type RankRequest struct {
	ID          string       `json:"id,omitempty"`
	Kind        RequestKind  `json:"kind"`
	Metric      string       `json:"metric"`
	Quantity    int          `json:"quantity,omitempty"`
	Year        int          `json:"year,omitempty"`
	Year1       int          `json:"year1,omitempty"`
	Year2       int          `json:"year2,omitempty"`
	Start       string       `json:"start,omitempty"`
	Thru        string       `json:"thru,omitempty"`
	Box         *BoundingBox `json:"box,omitempty"`
	Contains    ContainsMode `json:"contains,omitempty"`
	Climatology int          `json:"climatology,omitempty"`
	Increment   int          `json:"increment,omitempty"`
	Order       Order        `json:"order,omitempty"`
}

// ParseRankRequest decodes a JSON request.
func ParseRankRequest(data []byte) (RankRequest, error) {
	var req RankRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return RankRequest{}, fmt.Errorf("unmarshal rank request: %w", err)
	}
	req.Kind = RequestKind(strings.ToLower(strings.TrimSpace(string(req.Kind))))
	return req, nil
}

// Window resolves Start and Thru. Either may be omitted and defaults to the
// matching end of the calendar; both omitted means no window.
func (q RankRequest) Window() (*Window, error) {
	if q.Start == "" && q.Thru == "" {
		return nil, nil
	}
	w := FullYear
	if q.Start != "" {
		md, err := ParseMonthDay(q.Start)
		if err != nil {
			return nil, &ValidationError{Field: "start", Reason: err.Error()}
		}
		w.Start = md
	}
	if q.Thru != "" {
		md, err := ParseMonthDay(q.Thru)
		if err != nil {
			return nil, &ValidationError{Field: "thru", Reason: err.Error()}
		}
		w.Thru = md
	}
	return &w, nil
}

// StormSummary describes a storm and its full-track metrics.
type StormSummary struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Year         int               `json:"year"`
	Observations int               `json:"observations"`
	Start        *time.Time        `json:"start,omitempty"`
	End          *time.Time        `json:"end,omitempty"`
	Metrics      StormMetrics      `json:"metrics"`
	SeasonACE    float64           `json:"percent_season_ACE"`
	Landfalls    []LandfallSummary `json:"landfalls,omitempty"`
}

// SummarizeStorm builds the summary of one storm, landfalls included.
func SummarizeStorm(st *Storm) StormSummary {
	return summarizeStorm(st, st.Metrics())
}

func summarizeStorm(st *Storm, m StormMetrics) StormSummary {
	sum := StormSummary{
		ID:           st.ID(),
		Name:         st.Name(),
		Year:         st.Year(),
		Observations: st.Len(),
		Metrics:      m,
		SeasonACE:    st.PercentSeasonACE(),
		Landfalls:    SummarizeLandfalls(st),
	}
	if t, ok := st.Start(); ok {
		sum.Start = &t
	}
	if t, ok := st.End(); ok {
		sum.End = &t
	}
	return sum
}

// StormBrief is the one-line listing of a storm within a season.
type StormBrief struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	StatusHighest string  `json:"status_highest,omitempty"`
	MaxWind       int     `json:"maxwind"`
	MinMSLP       *int    `json:"minmslp,omitempty"`
	ACE           float64 `json:"ACE"`
	Landfalls     int     `json:"landfalls"`
}

// SeasonSummary describes a season and its aggregated metrics.
type SeasonSummary struct {
	Year    int           `json:"year"`
	Start   *time.Time    `json:"start,omitempty"`
	End     *time.Time    `json:"end,omitempty"`
	Length  float64       `json:"length_days"`
	Metrics SeasonMetrics `json:"metrics"`
	Storms  []StormBrief  `json:"storms"`
}

// SummarizeSeason builds the summary of one season.
func SummarizeSeason(s *Season) SeasonSummary {
	sum := SeasonSummary{
		Year:    s.Year(),
		Length:  s.Length(),
		Metrics: s.Metrics(),
		Storms:  make([]StormBrief, 0, s.Len()),
	}
	if t, ok := s.Start(); ok {
		sum.Start = &t
	}
	if t, ok := s.End(); ok {
		sum.End = &t
	}
	for _, st := range s.storms {
		m := st.Metrics()
		sum.Storms = append(sum.Storms, StormBrief{
			ID:            st.ID(),
			Name:          st.Name(),
			StatusHighest: m.StatusHighest,
			MaxWind:       m.MaxWind,
			MinMSLP:       m.MinMSLP,
			ACE:           m.ACE,
			Landfalls:     m.Landfalls,
		})
	}
	return sum
}

// EraSummary is a ranked climate era.
type EraSummary struct {
	Start   int           `json:"start"`
	End     int           `json:"end"`
	Metrics SeasonMetrics `json:"metrics"`
}

// SeasonRow is a ranked season.
type SeasonRow struct {
	Year    int           `json:"year"`
	Metrics SeasonMetrics `json:"metrics"`
}

// ReportRow is one ranked unit. Exactly one of Storm, Season or Era is set.
type ReportRow struct {
	Rank        int     `json:"rank"`
	Competition int     `json:"competition"`
	First       bool    `json:"first"`
	Ties        int     `json:"ties"`
	Value       float64 `json:"value"`

	Storm  *StormSummary `json:"storm,omitempty"`
	Season *SeasonRow    `json:"season,omitempty"`
	Era    *EraSummary   `json:"era,omitempty"`
}

// StandingReport is the placement of one season.
type StandingReport struct {
	Year             int           `json:"year"`
	Value            float64       `json:"value"`
	Rank             int           `json:"rank"`
	OutOf            int           `json:"out_of"`
	Tied             int           `json:"tied"`
	Competition      int           `json:"competition"`
	CompetitionOutOf int           `json:"competition_out_of"`
	Metrics          SeasonMetrics `json:"metrics"`
}

// Report is the serializable answer to a RankRequest.
type Report struct {
	ID          string          `json:"id,omitempty"`
	Kind        RequestKind     `json:"kind"`
	Metric      string          `json:"metric"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Order       Order           `json:"order"`
	Basin       string          `json:"basin"`
	Year1       int             `json:"year1"`
	Year2       int             `json:"year2"`
	Window      *Window         `json:"window,omitempty"`
	Climatology int             `json:"climatology,omitempty"`
	Increment   int             `json:"increment,omitempty"`
	Rows        []ReportRow     `json:"rows,omitempty"`
	Standing    *StandingReport `json:"standing,omitempty"`
	Caveat      *Caveat         `json:"caveat,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

func newReport(id string, kind RequestKind, m Metric, order Order, basin string, y1, y2 int, w *Window, c *Caveat) Report {
	return Report{
		ID:          id,
		Kind:        kind,
		Metric:      m.Name,
		Description: m.Description,
		Unit:        m.Unit,
		Order:       order,
		Basin:       basin,
		Year1:       y1,
		Year2:       y2,
		Window:      w,
		Caveat:      c,
		GeneratedAt: now(),
	}
}

func rows[T any](in []Ranked[T], unit func(*ReportRow, T)) []ReportRow {
	out := make([]ReportRow, 0, len(in))
	for _, r := range in {
		row := ReportRow{
			Rank:        r.Rank,
			Competition: r.Competition,
			First:       r.First,
			Ties:        r.Ties,
			Value:       r.Value,
		}
		unit(&row, r.Unit)
		out = append(out, row)
	}
	return out
}

// Report answers a request with the matching ranking.
func (rk *Ranker) Report(req RankRequest) (Report, error) {
	w, err := req.Window()
	if err != nil {
		return Report{}, err
	}
	basin := rk.record.Basin()

	switch req.Kind {
	case KindStorms:
		if w != nil {
			return Report{}, &ValidationError{Field: "thru", Reason: "storm rankings take no window"}
		}
		r, err := rk.RankStorms(StormQuery{
			Quantity: req.Quantity, Metric: req.Metric, Year1: req.Year1, Year2: req.Year2,
			Box: req.Box, Contains: req.Contains, Order: req.Order,
		})
		if err != nil {
			return Report{}, err
		}
		rep := newReport(req.ID, req.Kind, r.Metric, r.Order, basin, r.Year1, r.Year2, nil, r.Caveat)
		rep.Rows = rows(r.Rows, func(row *ReportRow, e StormEntry) {
			sum := summarizeStorm(e.Storm, e.Metrics)
			row.Storm = &sum
		})
		return rep, nil

	case KindSeasons:
		r, err := rk.RankSeasons(SeasonQuery{
			Quantity: req.Quantity, Metric: req.Metric, Year1: req.Year1, Year2: req.Year2,
			Window: w, Order: req.Order,
		})
		if err != nil {
			return Report{}, err
		}
		rep := newReport(req.ID, req.Kind, r.Metric, r.Order, basin, r.Year1, r.Year2, r.Window, r.Caveat)
		rep.Rows = rows(r.Rows, func(row *ReportRow, e SeasonEntry) {
			row.Season = &SeasonRow{Year: e.Year, Metrics: e.Metrics}
		})
		return rep, nil

	case KindClimo:
		if w != nil {
			return Report{}, &ValidationError{Field: "thru", Reason: "climate era rankings take no window"}
		}
		r, err := rk.RankClimo(ClimoQuery{
			Quantity: req.Quantity, Metric: req.Metric, Year1: req.Year1, Year2: req.Year2,
			Climatology: req.Climatology, Increment: req.Increment, Order: req.Order,
		})
		if err != nil {
			return Report{}, err
		}
		rep := newReport(req.ID, req.Kind, r.Metric, r.Order, basin, r.Year1, r.Year2, nil, r.Caveat)
		rep.Climatology, rep.Increment = req.Climatology, req.Increment
		if rep.Climatology == 0 {
			rep.Climatology = rk.limits.Climatology
		}
		if rep.Increment == 0 {
			rep.Increment = rk.limits.Increment
		}
		rep.Rows = rows(r.Rows, func(row *ReportRow, e Era) {
			row.Era = &EraSummary{Start: e.Start, End: e.End, Metrics: e.Metrics}
		})
		return rep, nil

	case KindStanding:
		s, err := rk.SeasonStanding(StandingQuery{
			Year: req.Year, Metric: req.Metric, Year1: req.Year1, Year2: req.Year2,
			Window: w, Order: req.Order,
		})
		if err != nil {
			return Report{}, err
		}
		rep := newReport(req.ID, req.Kind, s.Metric, s.Order, basin, s.Year1, s.Year2, s.Window, s.Caveat)
		rep.Standing = &StandingReport{
			Year:             s.Year,
			Value:            s.Value,
			Rank:             s.Rank,
			OutOf:            s.OutOf,
			Tied:             s.Tied,
			Competition:      s.Competition,
			CompetitionOutOf: s.CompetitionOutOf,
			Metrics:          s.Metrics,
		}
		return rep, nil
	}
	return Report{}, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown request kind %q", string(req.Kind))}
}

// SerializeReport converts a Report into an OutputEvent keyed by the request
// ID, falling back to the kind and metric.
func SerializeReport(r Report) (OutputEvent, error) {
	value, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("marshal report: %w", err)
	}
	key := r.ID
	if key == "" {
		key = string(r.Kind) + ":" + r.Metric
	}
	return OutputEvent{
		Key:   []byte(key),
		Value: value,
		Headers: map[string]string{
			"report_kind":  string(r.Kind),
			"metric":       r.Metric,
			"generated_at": r.GeneratedAt.Format(time.RFC3339),
		},
	}, nil
}
