package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports a rejected query argument. Queries that fail
// validation return no result and leave the Record untouched.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Default ranking limits.
const (
	DefaultMinQuantity = 5
	DefaultMaxQuantity = 9999
	DefaultClimatology = 30
	DefaultIncrement   = 5
)

// YearSpan is an inclusive range of seasons.
type YearSpan struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Overlaps reports whether the span shares a year with [y1, y2].
func (s YearSpan) Overlaps(y1, y2 int) bool {
	return s.From <= y2 && y1 <= s.To
}

// ParseYearSpan parses "1971-1990".
func ParseYearSpan(v string) (YearSpan, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return YearSpan{}, fmt.Errorf("year span %q: want YYYY-YYYY", v)
	}
	y1, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return YearSpan{}, fmt.Errorf("year span %q: %w", v, err)
	}
	y2, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return YearSpan{}, fmt.Errorf("year span %q: %w", v, err)
	}
	if y2 < y1 {
		return YearSpan{}, fmt.Errorf("year span %q: end before start", v)
	}
	return YearSpan{From: y1, To: y2}, nil
}

// Limits bounds ranking queries and supplies era defaults.
type Limits struct {
	MinQuantity int
	MaxQuantity int
	Climatology int
	Increment   int

	// LandfallCaveat, when set, marks landfall rankings that overlap seasons
	// whose landfall data is known to be incomplete.
	LandfallCaveat *YearSpan
}

// DefaultLimits returns the stock ranking limits with no landfall caveat.
func DefaultLimits() Limits {
	return Limits{
		MinQuantity: DefaultMinQuantity,
		MaxQuantity: DefaultMaxQuantity,
		Climatology: DefaultClimatology,
		Increment:   DefaultIncrement,
	}
}

func (l Limits) checkQuantity(q int) error {
	if q < max(l.MinQuantity, 1) {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be at least %d", max(l.MinQuantity, 1))}
	}
	if q > l.MaxQuantity {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be at most %d", l.MaxQuantity)}
	}
	return nil
}

// Caveat annotates a ranking whose data is known to be incomplete.
type Caveat struct {
	Span    YearSpan `json:"span"`
	Message string   `json:"message"`
}

func (l Limits) caveatFor(m Metric, y1, y2 int) *Caveat {
	if l.LandfallCaveat == nil || !m.Landfall() || !l.LandfallCaveat.Overlaps(y1, y2) {
		return nil
	}
	span := *l.LandfallCaveat
	return &Caveat{
		Span:    span,
		Message: fmt.Sprintf("landfall data incomplete for seasons %d-%d", span.From, span.To),
	}
}
