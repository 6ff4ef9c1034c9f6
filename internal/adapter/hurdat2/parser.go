// Package hurdat2 reads and writes the HURDAT2 best-track text format.
package hurdat2

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

// Missing is the HURDAT2 sentinel for an unknown pressure, radius or RMW.
const Missing = -999

const (
	headerFields  = 3
	minDataFields = 8
	radiiFields   = 12
	timeLayout    = "20060102 1504"
)

// ParseError reports a malformed line with its 1-based line number.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hurdat2 line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load parses a complete HURDAT2 stream into a frozen Record.
func Load(r io.Reader) (*domain.Record, error) {
	b := domain.NewBuilder()
	if err := Parse(r, b); err != nil {
		return nil, err
	}
	rec, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build record: %w", err)
	}
	return rec, nil
}

// LoadFile opens and loads a HURDAT2 file.
func LoadFile(path string) (*domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hurdat2 file: %w", err)
	}
	defer f.Close()

	rec, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return rec, nil
}

// Parse feeds every storm header and observation line of r to b in file
// order. Blank lines are skipped. A header's observation count must match the
// lines that follow it.
func Parse(r io.Reader, b *domain.Builder) error {
	sc := bufio.NewScanner(r)
	var (
		lineNo   int
		header   int // line of the open header
		expected int
		seen     int
	)
	closeStorm := func() error {
		if header != 0 && seen != expected {
			return &ParseError{Line: header, Err: fmt.Errorf("header lists %d observations, found %d", expected, seen)}
		}
		return nil
	}

	for sc.Scan() {
		lineNo++
		text := sc.Text()
		fields := splitFields(text)
		if len(fields) == 0 {
			continue
		}

		if isHeader(fields[0]) {
			if err := closeStorm(); err != nil {
				return err
			}
			if len(fields) < headerFields {
				return &ParseError{Line: lineNo, Text: text, Err: fmt.Errorf("header has %d fields, want %d", len(fields), headerFields)}
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return &ParseError{Line: lineNo, Text: text, Err: fmt.Errorf("parse observation count: %w", err)}
			}
			if err := b.StartStorm(fields[0], fields[1]); err != nil {
				return &ParseError{Line: lineNo, Text: text, Err: err}
			}
			header, expected, seen = lineNo, n, 0
			continue
		}

		o, err := parseObservation(fields)
		if err != nil {
			return &ParseError{Line: lineNo, Text: text, Err: err}
		}
		if err := b.AddObservation(o); err != nil {
			return &ParseError{Line: lineNo, Text: text, Err: err}
		}
		seen++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read hurdat2: %w", err)
	}
	return closeStorm()
}

// splitFields splits on commas, trims each field and drops the empty field
// left by the trailing comma.
func splitFields(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	if strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isHeader(field string) bool {
	return len(field) == 8 && field[0] >= 'A' && field[0] <= 'Z' && field[1] >= 'A' && field[1] <= 'Z'
}

func parseObservation(fields []string) (domain.Observation, error) {
	if len(fields) < minDataFields {
		return domain.Observation{}, fmt.Errorf("observation has %d fields, want at least %d", len(fields), minDataFields)
	}

	hhmm := fields[1]
	if len(hhmm) < 4 {
		hhmm = strings.Repeat("0", 4-len(hhmm)) + hhmm
	}
	ts, err := time.ParseInLocation(timeLayout, fields[0]+" "+hhmm, time.UTC)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("parse time: %w", err)
	}

	marker := domain.Marker(fields[2])
	if !marker.Valid() {
		return domain.Observation{}, fmt.Errorf("unknown record identifier %q", fields[2])
	}
	status := domain.Status(fields[3])
	if !status.Valid() {
		return domain.Observation{}, fmt.Errorf("unknown status %q", fields[3])
	}
	loc, err := domain.ParseCoordinate(fields[4], fields[5])
	if err != nil {
		return domain.Observation{}, err
	}
	wind, err := strconv.Atoi(fields[6])
	if err != nil {
		return domain.Observation{}, fmt.Errorf("parse wind: %w", err)
	}
	pressure, err := optionalInt(fields[7])
	if err != nil {
		return domain.Observation{}, fmt.Errorf("parse pressure: %w", err)
	}

	o := domain.Observation{
		Time:     ts,
		Marker:   marker,
		Status:   status,
		Lat:      loc.Lat,
		Lon:      loc.Lon,
		Wind:     wind,
		Pressure: pressure,
	}

	rings := []*domain.Radii{&o.ExtentTS, &o.ExtentTS50, &o.ExtentHU}
	for i := 0; i < radiiFields && minDataFields+i < len(fields); i++ {
		v, err := optionalInt(fields[minDataFields+i])
		if err != nil {
			return domain.Observation{}, fmt.Errorf("parse wind radius %d: %w", i+1, err)
		}
		rings[i/4][i%4] = v
	}
	if rmw := minDataFields + radiiFields; rmw < len(fields) {
		o.RMW, err = optionalInt(fields[rmw])
		if err != nil {
			return domain.Observation{}, fmt.Errorf("parse radius of maximum wind: %w", err)
		}
	}
	return o, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	if v == Missing {
		return nil, nil
	}
	return &v, nil
}
