package main

import (
	"fmt"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

type yearRange struct {
	Year1 int `help:"First season (default: start of the record)."`
	Year2 int `help:"Last season (default: end of the record)."`
}

type window struct {
	Start string `help:"Window start as MM-DD."`
	Thru  string `help:"Window end as MM-DD, inclusive."`
}

type rankStormsCmd struct {
	Metric   string    `required:"" help:"Storm metric to rank by."`
	Quantity int       `short:"n" default:"10" help:"Number of distinct ranks to list."`
	Years    yearRange `embed:""`
	Box      []float64 `sep:"," placeholder:"N,S,W,E" help:"Bounding box as north,south,west,east."`
	Contains string    `enum:"anywhere,start" default:"anywhere" help:"Track part that must lie in the box (anywhere, start)."`
	Order    string    `help:"Override the metric's order (asc, desc)."`
}

func (c *rankStormsCmd) Run(e *env) error {
	req := domain.RankRequest{
		Kind:     domain.KindStorms,
		Metric:   c.Metric,
		Quantity: c.Quantity,
		Year1:    c.Years.Year1,
		Year2:    c.Years.Year2,
		Contains: domain.ContainsMode(c.Contains),
		Order:    domain.Order(c.Order),
	}
	if len(c.Box) > 0 {
		if len(c.Box) != 4 {
			return fmt.Errorf("--box takes four values, got %d", len(c.Box))
		}
		req.Box = &domain.BoundingBox{North: c.Box[0], South: c.Box[1], West: c.Box[2], East: c.Box[3]}
	}
	return e.report(req)
}

type rankSeasonsCmd struct {
	Metric   string    `required:"" help:"Season metric to rank by."`
	Quantity int       `short:"n" default:"10" help:"Number of distinct ranks to list."`
	Years    yearRange `embed:""`
	Window   window    `embed:""`
	Order    string    `help:"Override the metric's order (asc, desc)."`
}

func (c *rankSeasonsCmd) Run(e *env) error {
	return e.report(domain.RankRequest{
		Kind:     domain.KindSeasons,
		Metric:   c.Metric,
		Quantity: c.Quantity,
		Year1:    c.Years.Year1,
		Year2:    c.Years.Year2,
		Start:    c.Window.Start,
		Thru:     c.Window.Thru,
		Order:    domain.Order(c.Order),
	})
}

type rankClimoCmd struct {
	Metric      string    `required:"" help:"Season metric to rank by."`
	Quantity    int       `short:"n" default:"10" help:"Number of distinct ranks to list."`
	Years       yearRange `embed:""`
	Climatology int       `default:"30" help:"Era length in years."`
	Increment   int       `default:"5" help:"Years between era starts."`
	Order       string    `help:"Override the metric's order (asc, desc)."`
}

func (c *rankClimoCmd) Run(e *env) error {
	return e.report(domain.RankRequest{
		Kind:        domain.KindClimo,
		Metric:      c.Metric,
		Quantity:    c.Quantity,
		Year1:       c.Years.Year1,
		Year2:       c.Years.Year2,
		Climatology: c.Climatology,
		Increment:   c.Increment,
		Order:       domain.Order(c.Order),
	})
}

type standingCmd struct {
	Year   int       `arg:"" help:"Season to place."`
	Metric string    `required:"" help:"Season metric to rank by."`
	Years  yearRange `embed:""`
	Window window    `embed:""`
	Order  string    `help:"Override the metric's order (asc, desc)."`
}

func (c *standingCmd) Run(e *env) error {
	return e.report(domain.RankRequest{
		Kind:   domain.KindStanding,
		Metric: c.Metric,
		Year:   c.Year,
		Year1:  c.Years.Year1,
		Year2:  c.Years.Year2,
		Start:  c.Window.Start,
		Thru:   c.Window.Thru,
		Order:  domain.Order(c.Order),
	})
}

type stormCmd struct {
	ID string `arg:"" help:"ATCF identifier, e.g. AL122005."`
}

func (c *stormCmd) Run(e *env) error {
	st, ok := e.ranker.Record().Storm(c.ID)
	if !ok {
		return fmt.Errorf("storm %q not found", c.ID)
	}
	sum := domain.SummarizeStorm(st)
	if e.json {
		return writeJSON(e.out, sum)
	}
	return renderStorm(e.out, sum)
}

type seasonCmd struct {
	Year int `arg:"" help:"Season year."`
}

func (c *seasonCmd) Run(e *env) error {
	s, ok := e.ranker.Record().Season(c.Year)
	if !ok {
		return fmt.Errorf("no season %d in the record", c.Year)
	}
	sum := domain.SummarizeSeason(s)
	if e.json {
		return writeJSON(e.out, sum)
	}
	return renderSeason(e.out, sum)
}

type searchCmd struct {
	Name  string `arg:"" help:"Storm name, matched loosely."`
	Limit int    `default:"10" help:"Maximum number of matches."`
}

func (c *searchCmd) Run(e *env) error {
	results := e.ranker.Record().SearchName(c.Name, c.Limit)
	if e.json {
		type hit struct {
			ID    string  `json:"id"`
			Name  string  `json:"name"`
			Year  int     `json:"year"`
			Score float64 `json:"score"`
		}
		hits := make([]hit, 0, len(results))
		for _, r := range results {
			hits = append(hits, hit{ID: r.Storm.ID(), Name: r.Storm.Name(), Year: r.Storm.Year(), Score: r.Score})
		}
		return writeJSON(e.out, hits)
	}
	return renderSearch(e.out, results)
}

type summaryCmd struct {
	Years yearRange `embed:""`
}

func (c *summaryCmd) Run(e *env) error {
	sum, err := e.ranker.Record().MultiSeasonSummary(c.Years.Year1, c.Years.Year2)
	if err != nil {
		return err
	}
	if e.json {
		return writeJSON(e.out, sum)
	}
	return renderSummary(e.out, sum)
}

type metricsCmd struct{}

func (metricsCmd) Run(e *env) error {
	return renderMetrics(e.out, domain.Metrics())
}

func (e *env) report(req domain.RankRequest) error {
	rep, err := e.ranker.Report(req)
	if err != nil {
		return err
	}
	if e.json {
		return writeJSON(e.out, rep)
	}
	return renderReport(e.out, rep)
}
