package hurdat2

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

// Write encodes storms in HURDAT2 layout. Unknown values are written as -999
// and every observation carries the radius of maximum wind column.
func Write(w io.Writer, storms []*domain.Storm) error {
	bw := bufio.NewWriter(w)
	for _, st := range storms {
		if _, err := fmt.Fprintf(bw, "%s,%19s,%7d,\n", st.ID(), st.Name(), st.Len()); err != nil {
			return fmt.Errorf("write header %s: %w", st.ID(), err)
		}
		for _, o := range st.Observations() {
			if _, err := bw.WriteString(formatObservation(o)); err != nil {
				return fmt.Errorf("write observation %s: %w", st.ID(), err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush hurdat2: %w", err)
	}
	return nil
}

// WriteRecord encodes every storm of r.
func WriteRecord(w io.Writer, r *domain.Record) error {
	return Write(w, r.Storms())
}

func formatObservation(o domain.Observation) string {
	line := fmt.Sprintf("%8s,%5s,%2s,%3s,%6s,%7s,%4d,%5s,",
		o.Time.Format("20060102"),
		o.Time.Format("1504"),
		string(o.Marker),
		string(o.Status),
		domain.FormatLatitude(o.Lat),
		domain.FormatLongitude(o.Lon),
		o.Wind,
		optional(o.Pressure),
	)
	for _, ring := range []domain.Radii{o.ExtentTS, o.ExtentTS50, o.ExtentHU} {
		for _, r := range ring {
			line += fmt.Sprintf("%5s,", optional(r))
		}
	}
	return line + fmt.Sprintf("%5s,\n", optional(o.RMW))
}

func optional(v *int) string {
	if v == nil {
		return strconv.Itoa(Missing)
	}
	return strconv.Itoa(*v)
}
