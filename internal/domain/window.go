package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthDay is a calendar position independent of year.
type MonthDay struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// daysInMonth uses a leap year so February 29 is accepted.
var daysInMonth = [...]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Before reports whether m falls strictly before o in the calendar.
func (m MonthDay) Before(o MonthDay) bool {
	if m.Month != o.Month {
		return m.Month < o.Month
	}
	return m.Day < o.Day
}

// Valid reports whether m names a real calendar day.
func (m MonthDay) Valid() bool {
	if m.Month < time.January || m.Month > time.December {
		return false
	}
	return m.Day >= 1 && m.Day <= daysInMonth[m.Month]
}

func (m MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(m.Month), m.Day)
}

// ParseMonthDay accepts "MM-DD" or "M/D".
func ParseMonthDay(s string) (MonthDay, error) {
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) != 2 {
		return MonthDay{}, fmt.Errorf("month-day %q: want MM-DD", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthDay{}, fmt.Errorf("month-day %q: %w", s, err)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return MonthDay{}, fmt.Errorf("month-day %q: %w", s, err)
	}
	md := MonthDay{Month: time.Month(month), Day: day}
	if !md.Valid() {
		return MonthDay{}, fmt.Errorf("month-day %q: not a calendar day", s)
	}
	return md, nil
}

// Window is an inclusive month-day range applied to every season alike.
type Window struct {
	Start MonthDay `json:"start"`
	Thru  MonthDay `json:"thru"`
}

// FullYear is the window that covers every observation.
var FullYear = Window{
	Start: MonthDay{Month: time.January, Day: 1},
	Thru:  MonthDay{Month: time.December, Day: 31},
}

// IsFullYear reports whether w covers the whole calendar.
func (w Window) IsFullYear() bool {
	return w == FullYear
}

// Contains reports whether the month-day falls inside the window.
func (w Window) Contains(md MonthDay) bool {
	return !md.Before(w.Start) && !w.Thru.Before(md)
}

func (w Window) validate() error {
	if !w.Start.Valid() {
		return &ValidationError{Field: "start", Reason: "not a calendar day"}
	}
	if !w.Thru.Valid() {
		return &ValidationError{Field: "thru", Reason: "not a calendar day"}
	}
	if w.Thru.Before(w.Start) {
		return &ValidationError{Field: "thru", Reason: "must not be before start"}
	}
	return nil
}
