package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

const maxRequestBody = 1 << 16

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type searchHit struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Year  int     `json:"year"`
	Score float64 `json:"score"`
}

type metricInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	Ascending   bool   `json:"ascending,omitempty"`
	Storms      bool   `json:"storms"`
	Seasons     bool   `json:"seasons"`
}

func (s *Server) handleStorm(w http.ResponseWriter, r *http.Request) {
	st, ok := s.ranker.Record().Storm(chi.URLParam(r, "id"))
	if !ok {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("storm %q not found", chi.URLParam(r, "id"))})
		return
	}
	sum := domain.SummarizeStorm(st)
	sum.Landfalls = domain.EnrichLandfalls(r.Context(), st.ID(), sum.Landfalls, s.geocoder, s.logger)
	sharedobs.WriteJSON(w, http.StatusOK, sum)
}

func (s *Server) handleLandfalls(w http.ResponseWriter, r *http.Request) {
	st, ok := s.ranker.Record().Storm(chi.URLParam(r, "id"))
	if !ok {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("storm %q not found", chi.URLParam(r, "id"))})
		return
	}
	landfalls := domain.EnrichLandfalls(r.Context(), st.ID(), domain.SummarizeLandfalls(st), s.geocoder, s.logger)
	sharedobs.WriteJSON(w, http.StatusOK, landfalls)
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		s.writeError(w, &domain.ValidationError{Field: "year", Reason: "must be an integer"})
		return
	}
	season, ok := s.ranker.Record().Season(year)
	if !ok {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("no season %d in the record", year)})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, domain.SummarizeSeason(season))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		s.writeError(w, &domain.ValidationError{Field: "name", Reason: "is required"})
		return
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		s.writeError(w, err)
		return
	}

	results := s.ranker.Record().SearchName(name, limit)
	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, searchHit{ID: res.Storm.ID(), Name: res.Storm.Name(), Year: res.Storm.Year(), Score: res.Score})
	}
	sharedobs.WriteJSON(w, http.StatusOK, hits)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	y1, err := intParam(q, "year1")
	if err != nil {
		s.writeError(w, err)
		return
	}
	y2, err := intParam(q, "year2")
	if err != nil {
		s.writeError(w, err)
		return
	}
	sum, err := s.ranker.Record().MultiSeasonSummary(y1, y2)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, sum)
}

func (s *Server) handleMetricList(w http.ResponseWriter, _ *http.Request) {
	all := domain.Metrics()
	out := make([]metricInfo, 0, len(all))
	for _, m := range all {
		out = append(out, metricInfo{
			Name:        m.Name,
			Description: m.Description,
			Unit:        m.Unit,
			Ascending:   m.Ascending,
			Storms:      m.RanksStorms(),
			Seasons:     m.RanksSeasons(),
		})
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	kind := domain.RequestKind(chi.URLParam(r, "kind"))
	if kind != domain.KindStorms && kind != domain.KindSeasons && kind != domain.KindClimo {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("unknown ranking %q", kind)})
		return
	}
	req, err := requestFromQuery(kind, r.URL.Query())
	if err != nil {
		s.metrics.ObserveRank(string(kind), 0, err)
		s.writeError(w, err)
		return
	}
	s.report(w, r, req)
}

func (s *Server) handleRankRequest(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: "request body must be a JSON rank request"})
		return
	}
	req, err := domain.ParseRankRequest(raw)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	s.report(w, r, req)
}

func (s *Server) handleStanding(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		err = &domain.ValidationError{Field: "year", Reason: "must be an integer"}
		s.metrics.ObserveRank(string(domain.KindStanding), 0, err)
		s.writeError(w, err)
		return
	}
	req, err := requestFromQuery(domain.KindStanding, r.URL.Query())
	if err != nil {
		s.metrics.ObserveRank(string(domain.KindStanding), 0, err)
		s.writeError(w, err)
		return
	}
	req.Year = year
	s.report(w, r, req)
}

// report runs a request through the ranker and writes the result.
func (s *Server) report(w http.ResponseWriter, r *http.Request, req domain.RankRequest) {
	start := time.Now()
	rep, err := s.ranker.Report(req)
	s.metrics.ObserveRank(string(req.Kind), time.Since(start), err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for i := range rep.Rows {
		if st := rep.Rows[i].Storm; st != nil && len(st.Landfalls) > 0 {
			st.Landfalls = domain.EnrichLandfalls(r.Context(), st.ID, st.Landfalls, s.geocoder, s.logger)
		}
	}
	sharedobs.WriteJSON(w, http.StatusOK, rep)
}

// requestFromQuery reads a RankRequest from URL parameters. The bounding
// box is given as north, south, west and east; all four or none.
func requestFromQuery(kind domain.RequestKind, q url.Values) (domain.RankRequest, error) {
	req := domain.RankRequest{
		ID:       q.Get("id"),
		Kind:     kind,
		Metric:   q.Get("metric"),
		Start:    q.Get("start"),
		Thru:     q.Get("thru"),
		Contains: domain.ContainsMode(q.Get("contains")),
		Order:    domain.Order(q.Get("order")),
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"quantity", &req.Quantity},
		{"year1", &req.Year1},
		{"year2", &req.Year2},
		{"climatology", &req.Climatology},
		{"increment", &req.Increment},
	}
	for _, p := range ints {
		v, err := intParam(q, p.name)
		if err != nil {
			return domain.RankRequest{}, err
		}
		*p.dst = v
	}

	box, err := boxParam(q)
	if err != nil {
		return domain.RankRequest{}, err
	}
	req.Box = box
	return req, nil
}

func boxParam(q url.Values) (*domain.BoundingBox, error) {
	edges := []string{"north", "south", "west", "east"}
	var vals [4]float64
	set := 0
	for i, name := range edges {
		s := q.Get(name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &domain.ValidationError{Field: "box", Reason: fmt.Sprintf("%s must be a number", name)}
		}
		vals[i] = v
		set++
	}
	switch set {
	case 0:
		return nil, nil
	case len(edges):
		return &domain.BoundingBox{North: vals[0], South: vals[1], West: vals[2], East: vals[3]}, nil
	}
	return nil, &domain.ValidationError{Field: "box", Reason: "north, south, west and east are all required"}
}

func intParam(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Reason: "must be an integer"}
	}
	return v, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Field: verr.Field})
		return
	}
	s.logger.Error("request failed", "error", err)
	sharedobs.WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}
