// Command validate performs integrity checks on a HURDAT2 best-track file:
// observation ranges, track ordering, the reach and tier decompositions,
// track-distance additivity, full-year window equivalence, metric
// idempotence, and a lossless write/read round trip.
//
// Usage:
//
//	go run ./cmd/validate data/hurdat2-1851-2024.txt
package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/storm-data-climo/internal/adapter/hurdat2"
	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

// tolerance absorbs floating-point drift between independently summed distances.
const tolerance = 1e-6

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var cli struct {
	File string `arg:"" type:"existingfile" help:"HURDAT2 file to validate."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("validate"),
		kong.Description("Integrity checks for a HURDAT2 best-track file."),
	)
	if code := run(cli.File, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(path string, w io.Writer) int {
	fmt.Fprintln(w, "=== HURDAT2 Integrity Validation ===")
	fmt.Fprintln(w)

	rec, err := hurdat2.LoadFile(path)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load %s: %v\n", path, err)
		return 1
	}

	phases := []*phase{
		validateObservations(rec),
		validateTrackOrdering(rec),
		validateTierDecomposition(rec),
		validateDistanceAdditivity(rec),
		validateFullYearWindow(rec),
		validateIdempotence(rec),
		validateRoundTrip(rec),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	y1, y2 := rec.RecordRange()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Record: %s basin, %d storms, %d seasons (%d-%d)\n", rec.Basin(), rec.Len(), len(rec.Seasons()), y1, y2)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateObservations(rec *domain.Record) *phase {
	p := &phase{name: "Observation ranges"}
	for _, st := range rec.Storms() {
		for i, o := range st.Observations() {
			if o.Lat < -90 || o.Lat > 90 || o.Lon < -180 || o.Lon > 180 {
				p.errorf("%s obs %d: position %.1f,%.1f out of range", st.ID(), i, o.Lat, o.Lon)
			}
			if o.Wind != domain.MissingWind && (o.Wind < 0 || o.Wind > 200) {
				p.errorf("%s obs %d: wind %d kt out of range", st.ID(), i, o.Wind)
			}
			if o.Pressure != nil && (*o.Pressure < 850 || *o.Pressure > 1050) {
				p.errorf("%s obs %d: pressure %d mb out of range", st.ID(), i, *o.Pressure)
			}
		}
	}
	return p
}

func validateTrackOrdering(rec *domain.Record) *phase {
	p := &phase{name: "Track ordering"}
	for _, st := range rec.Storms() {
		obs := st.Observations()
		if len(obs) == 0 {
			p.errorf("%s: no observations", st.ID())
			continue
		}
		if obs[0].Time.Year() != st.Year() {
			p.errorf("%s: first observation in %d, season %d", st.ID(), obs[0].Time.Year(), st.Year())
		}
		for i := 1; i < len(obs); i++ {
			if !obs[i].Time.After(obs[i-1].Time) {
				p.errorf("%s obs %d: %s does not follow %s", st.ID(), i,
					obs[i].Time.Format("2006-01-02 15:04"), obs[i-1].Time.Format("2006-01-02 15:04"))
			}
		}
	}
	return p
}

func validateTierDecomposition(rec *domain.Record) *phase {
	p := &phase{name: "Reach and tier decomposition"}
	for _, s := range rec.Seasons() {
		m := s.Metrics()
		if got := m.TSOnly + m.HUOnly + m.MHUReach; got != m.TSReach {
			p.errorf("%d: TSonly+HUonly+MHUreach = %d, TSreach = %d", s.Year(), got, m.TSReach)
		}
		if got := m.TDOnly + m.TSReach; got != m.Tracks {
			p.errorf("%d: TDonly+TSreach = %d, tracks = %d", s.Year(), got, m.Tracks)
		}
		if m.HUReach > m.TSReach || m.MHUReach > m.HUReach || m.Cat45Reach > m.MHUReach || m.Cat5Reach > m.Cat45Reach {
			p.errorf("%d: reach counts not nested: TS %d, HU %d, MHU %d, cat45 %d, cat5 %d",
				s.Year(), m.TSReach, m.HUReach, m.MHUReach, m.Cat45Reach, m.Cat5Reach)
		}
	}
	return p
}

func validateDistanceAdditivity(rec *domain.Record) *phase {
	p := &phase{name: "Track distance additivity"}
	for _, st := range rec.Storms() {
		m := st.Metrics()
		obs := st.Observations()

		var total, nonTC float64
		for i := 0; i+1 < len(obs); i++ {
			d := domain.Haversine(obs[i].Location(), obs[i+1].Location())
			total += d
			if !obs[i].IsTropical() {
				nonTC += d
			}
		}
		if math.Abs(total-m.TrackDistance) > tolerance {
			p.errorf("%s: segment sum %.3f nmi, track distance %.3f nmi", st.ID(), total, m.TrackDistance)
		}
		if math.Abs(m.TrackDistanceTC+nonTC-m.TrackDistance) > tolerance {
			p.errorf("%s: TC %.3f + non-TC %.3f != total %.3f nmi", st.ID(), m.TrackDistanceTC, nonTC, m.TrackDistance)
		}
		nested := []float64{m.TrackDistance, m.TrackDistanceTC, m.TrackDistanceTS, m.TrackDistanceHU, m.TrackDistanceMHU}
		for i := 1; i < len(nested); i++ {
			if nested[i] > nested[i-1]+tolerance {
				p.errorf("%s: tier distances not nested: %v", st.ID(), nested)
				break
			}
		}
	}
	return p
}

// validateFullYearWindow checks that ranking with a Jan 1 - Dec 31 window
// reproduces the unwindowed ranking for every season metric.
func validateFullYearWindow(rec *domain.Record) *phase {
	p := &phase{name: "Full-year window equivalence"}
	limits := domain.DefaultLimits()
	limits.MinQuantity = 1
	ranker := domain.NewRanker(rec, limits)
	full := domain.FullYear

	for _, m := range domain.Metrics() {
		if !m.RanksSeasons() {
			continue
		}
		whole, err := ranker.RankSeasons(domain.SeasonQuery{Quantity: limits.MaxQuantity, Metric: m.Name})
		if err != nil {
			p.errorf("%s: %v", m.Name, err)
			continue
		}
		windowed, err := ranker.RankSeasons(domain.SeasonQuery{Quantity: limits.MaxQuantity, Metric: m.Name, Window: &full})
		if err != nil {
			p.errorf("%s windowed: %v", m.Name, err)
			continue
		}
		if diff := cmp.Diff(whole.Rows, windowed.Rows); diff != "" {
			p.errorf("%s: windowed ranking differs (-full +windowed):\n%s", m.Name, diff)
		}
	}
	return p
}

func validateIdempotence(rec *domain.Record) *phase {
	p := &phase{name: "Metric idempotence"}
	for _, st := range rec.Storms() {
		if diff := cmp.Diff(st.Metrics(), st.Metrics()); diff != "" {
			p.errorf("%s: repeated computation differs:\n%s", st.ID(), diff)
		}
	}
	return p
}

func validateRoundTrip(rec *domain.Record) *phase {
	p := &phase{name: "Write/read round trip"}

	var buf bytes.Buffer
	if err := hurdat2.WriteRecord(&buf, rec); err != nil {
		p.errorf("write: %v", err)
		return p
	}
	again, err := hurdat2.Load(&buf)
	if err != nil {
		p.errorf("reload: %v", err)
		return p
	}
	if again.Len() != rec.Len() {
		p.errorf("storm count %d after round trip, want %d", again.Len(), rec.Len())
	}
	for _, st := range rec.Storms() {
		st2, ok := again.Storm(st.ID())
		if !ok {
			p.errorf("%s: missing after round trip", st.ID())
			continue
		}
		if st2.Name() != st.Name() {
			p.errorf("%s: name %q after round trip, want %q", st.ID(), st2.Name(), st.Name())
		}
		if diff := cmp.Diff(st.Observations(), st2.Observations()); diff != "" {
			p.errorf("%s: observations differ (-original +reloaded):\n%s", st.ID(), diff)
		}
	}
	return p
}
