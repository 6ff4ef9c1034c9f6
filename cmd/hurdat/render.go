package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// rankLabel prints the rank once per group of ties; later rows get a blank.
func rankLabel(row domain.ReportRow) string {
	if !row.First {
		return ""
	}
	if row.Ties > 0 {
		return fmt.Sprintf("%d (T)", row.Rank)
	}
	return strconv.Itoa(row.Rank)
}

func renderReport(w io.Writer, rep domain.Report) error {
	fmt.Fprintf(w, "%s, %s %d-%d, %s\n", rep.Description, rep.Basin, rep.Year1, rep.Year2, rep.Order)
	if rep.Window != nil {
		fmt.Fprintf(w, "window %s thru %s\n", rep.Window.Start, rep.Window.Thru)
	}
	if rep.Caveat != nil {
		fmt.Fprintf(w, "note: %s\n", rep.Caveat.Message)
	}

	if s := rep.Standing; s != nil {
		fmt.Fprintf(w, "%d: %s %s, rank %d of %d", s.Year, formatValue(s.Value), rep.Unit, s.Rank, s.OutOf)
		if s.Tied > 0 {
			fmt.Fprintf(w, ", tied with %d", s.Tied)
		}
		fmt.Fprintln(w)
		return nil
	}

	tw := newTable(w)
	switch rep.Kind {
	case domain.KindStorms:
		fmt.Fprintln(tw, "RANK\tID\tNAME\tVALUE")
		for _, row := range rep.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rankLabel(row), row.Storm.ID, row.Storm.Name, formatValue(row.Value))
		}
	case domain.KindSeasons:
		fmt.Fprintln(tw, "RANK\tYEAR\tVALUE")
		for _, row := range rep.Rows {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", rankLabel(row), row.Season.Year, formatValue(row.Value))
		}
	case domain.KindClimo:
		fmt.Fprintln(tw, "RANK\tERA\tVALUE")
		for _, row := range rep.Rows {
			fmt.Fprintf(tw, "%s\t%d-%d\t%s\n", rankLabel(row), row.Era.Start, row.Era.End, formatValue(row.Value))
		}
	}
	return tw.Flush()
}

func renderStorm(w io.Writer, s domain.StormSummary) error {
	fmt.Fprintf(w, "%s %s (%d), %s\n", s.ID, s.Name, s.Year, s.Metrics.StatusHighest)

	tw := newTable(w)
	fmt.Fprintf(tw, "observations\t%d\n", s.Observations)
	fmt.Fprintf(tw, "max wind\t%d kt\n", s.Metrics.MaxWind)
	if s.Metrics.MinMSLP != nil {
		fmt.Fprintf(tw, "min pressure\t%d mb\n", *s.Metrics.MinMSLP)
	}
	fmt.Fprintf(tw, "ACE\t%s\n", formatValue(s.Metrics.ACE))
	fmt.Fprintf(tw, "track distance\t%s nmi\n", formatValue(s.Metrics.TrackDistance))
	fmt.Fprintf(tw, "duration\t%s days\n", formatValue(s.Metrics.Duration))
	fmt.Fprintf(tw, "landfalls\t%d\n", s.Metrics.Landfalls)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.Landfalls) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "LANDFALL\tPOSITION\tSTATUS\tWIND")
	for _, lf := range s.Landfalls {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%d\n",
			lf.Time.Format("2006-01-02 15:04"),
			domain.FormatLatitude(lf.Point.Lat), domain.FormatLongitude(lf.Point.Lon),
			lf.Label, lf.Wind)
	}
	return tw.Flush()
}

func renderSeason(w io.Writer, s domain.SeasonSummary) error {
	fmt.Fprintf(w, "%d season: %d tracks, %d TS, %d HU, %d MHU, ACE %s\n",
		s.Year, s.Metrics.Tracks, s.Metrics.TSReach, s.Metrics.HUReach, s.Metrics.MHUReach, formatValue(s.Metrics.ACE))

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tWIND\tACE\tLANDFALLS")
	for _, st := range s.Storms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\n", st.ID, st.Name, st.StatusHighest, st.MaxWind, formatValue(st.ACE), st.Landfalls)
	}
	return tw.Flush()
}

func renderSearch(w io.Writer, results []domain.SearchResult) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tYEAR\tSCORE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", r.Storm.ID(), r.Storm.Name(), r.Storm.Year(), r.Score)
	}
	return tw.Flush()
}

func renderSummary(w io.Writer, s domain.MultiSeasonSummary) error {
	fmt.Fprintf(w, "%d-%d, %d seasons\n", s.Year1, s.Year2, s.Seasons)

	tw := newTable(w)
	fmt.Fprintln(tw, "\tTOTAL\tPER YEAR")
	fmt.Fprintf(tw, "tracks\t%d\t%.2f\n", s.Totals.Tracks, s.PerYear.Tracks)
	fmt.Fprintf(tw, "tropical storms\t%d\t%.2f\n", s.Totals.TSReach, s.PerYear.TSReach)
	fmt.Fprintf(tw, "hurricanes\t%d\t%.2f\n", s.Totals.HUReach, s.PerYear.HUReach)
	fmt.Fprintf(tw, "major hurricanes\t%d\t%.2f\n", s.Totals.MHUReach, s.PerYear.MHUReach)
	fmt.Fprintf(tw, "TC landfalls\t%d\t%.2f\n", s.Totals.LandfallTC, s.PerYear.LandfallTC)
	return tw.Flush()
}

func renderMetrics(w io.Writer, metrics []domain.Metric) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "METRIC\tRANKS\tDESCRIPTION")
	for _, m := range metrics {
		ranks := "storms, seasons"
		switch {
		case !m.RanksSeasons():
			ranks = "storms"
		case !m.RanksStorms():
			ranks = "seasons"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, ranks, m.Description)
	}
	return tw.Flush()
}
