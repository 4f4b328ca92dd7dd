package service

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid report period")

// A business day (shift) starts at 02:00 UTC and runs for 24 hours, so late
// sales after midnight still count towards the previous day.
const shiftStartHour = 2

const (
	ModeDaily = "daily"
	ModeRange = "range"
	ModeMonth = "month"
)

// Window is a half-open reporting interval [Start, End).
type Window struct {
	Mode  string    `json:"mode"`
	Start time.Time `json:"start_ts"`
	End   time.Time `json:"end_ts"`
}

// Closed reports whether no more orders can fall into the window.
func (w Window) Closed(now time.Time) bool {
	return !now.Before(w.End)
}

func shiftStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), shiftStartHour, 0, 0, 0, time.UTC)
}

func parseDay(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidPeriod, s)
	}
	return d, nil
}

// DailyWindow covers the shift that starts on date (YYYY-MM-DD).
func DailyWindow(date string) (Window, error) {
	d, err := parseDay(date)
	if err != nil {
		return Window{}, err
	}
	start := shiftStart(d)
	return Window{Mode: ModeDaily, Start: start, End: start.AddDate(0, 0, 1)}, nil
}

// RangeWindow covers the shifts from start through end, both inclusive.
func RangeWindow(start, end string) (Window, error) {
	s, err := parseDay(start)
	if err != nil {
		return Window{}, err
	}
	e, err := parseDay(end)
	if err != nil {
		return Window{}, err
	}
	if e.Before(s) {
		return Window{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidPeriod, end, start)
	}
	return Window{Mode: ModeRange, Start: shiftStart(s), End: shiftStart(e).AddDate(0, 0, 1)}, nil
}

// MonthWindow covers every shift starting in month (YYYY-MM).
func MonthWindow(month string) (Window, error) {
	m, err := time.Parse("2006-01", month)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidPeriod, month)
	}
	start := shiftStart(m)
	return Window{Mode: ModeMonth, Start: start, End: start.AddDate(0, 1, 0)}, nil
}
