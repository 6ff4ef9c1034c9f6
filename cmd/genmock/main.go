// Command genmock cuts a year range out of a full HURDAT2 file and generates
// test fixtures from it: the HURDAT2 subset itself and the JSON reports the
// service produces for a standard set of rank requests. It runs the real
// parser and ranker so the fixtures match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  --year1 2004 --year2 2005 \
//	  --hurdat-out data/mock/hurdat2_2004_2005.txt \
//	  --report-out data/mock/reports_2004_2005.json \
//	  data/hurdat2-1851-2024.txt
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-data-climo/internal/adapter/hurdat2"
	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

// generatedAt is the fixed report timestamp, for reproducible fixtures.
var generatedAt = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

type options struct {
	Source    string `arg:"" type:"existingfile" help:"Full HURDAT2 file."`
	Year1     int    `required:"" help:"First season to keep."`
	Year2     int    `required:"" help:"Last season to keep."`
	HurdatOut string `required:"" help:"Output path for the HURDAT2 subset."`
	ReportOut string `required:"" help:"Output path for the JSON report fixture."`
}

// requests is the standard request set rendered into the report fixture.
var requests = []domain.RankRequest{
	{ID: "mock-storms-ace", Kind: domain.KindStorms, Metric: "ACE", Quantity: 10},
	{ID: "mock-storms-minmslp", Kind: domain.KindStorms, Metric: "minmslp", Quantity: 10},
	{ID: "mock-seasons-ace", Kind: domain.KindSeasons, Metric: "ACE", Quantity: 5},
	{ID: "mock-seasons-aug-hureach", Kind: domain.KindSeasons, Metric: "HUreach", Quantity: 5, Start: "08-01", Thru: "08-31"},
	{ID: "mock-climo-tracks", Kind: domain.KindClimo, Metric: "tracks", Quantity: 5, Climatology: 1, Increment: 1},
}

func main() {
	var opts options
	kong.Parse(&opts,
		kong.Name("genmock"),
		kong.Description("Generate HURDAT2 and report fixtures from a year range."),
	)
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if opts.Year1 > opts.Year2 {
		return fmt.Errorf("--year1 %d is after --year2 %d", opts.Year1, opts.Year2)
	}

	domain.SetClock(clockwork.NewFakeClockAt(generatedAt))
	defer domain.SetClock(nil)

	full, err := hurdat2.LoadFile(opts.Source)
	if err != nil {
		return err
	}

	var storms []*domain.Storm //nolint:prealloc // size depends on the year range
	for _, st := range full.Storms() {
		if st.Year() >= opts.Year1 && st.Year() <= opts.Year2 {
			storms = append(storms, st)
		}
	}
	if len(storms) == 0 {
		return fmt.Errorf("no storms between %d and %d", opts.Year1, opts.Year2)
	}
	if err := writeHurdat(opts.HurdatOut, storms); err != nil {
		return err
	}
	log.Printf("%d-%d: %d storms", opts.Year1, opts.Year2, len(storms))

	// Rank over the written subset so the fixtures agree with what a
	// service loading that file would answer.
	subset, err := hurdat2.LoadFile(opts.HurdatOut)
	if err != nil {
		return fmt.Errorf("reload subset: %w", err)
	}
	limits := domain.DefaultLimits()
	limits.MinQuantity = 1
	ranker := domain.NewRanker(subset, limits)

	reports := make([]domain.Report, 0, len(requests))
	for _, req := range requests {
		rep, err := ranker.Report(req)
		if err != nil {
			return fmt.Errorf("request %s: %w", req.ID, err)
		}
		reports = append(reports, rep)
	}
	if err := writeJSON(opts.ReportOut, reports); err != nil {
		return err
	}
	log.Printf("wrote %d reports to %s", len(reports), opts.ReportOut)
	return nil
}

func writeHurdat(path string, storms []*domain.Storm) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return err
	}
	if err := hurdat2.Write(f, storms); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
