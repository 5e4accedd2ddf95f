// Package dateutil provides date parsing, week arithmetic and day label resolution.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrUnknownDayLabel    = errors.New("unknown day label")
)

// TodayLabel is the relative day label of the day view.
const TodayLabel = "Today"

// WeekdayNames lists the week columns, Monday first.
var WeekdayNames = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// weekdayMap maps lowercase weekday names to their Monday-based column.
var weekdayMap = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// DateRange is a validated, inclusive range of days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a new DateRange relative to now.
// start and end accept anything ParseRelativeDate does; an empty end defaults to start.
func NewDateRange(start, end string, now time.Time) (*DateRange, error) {
	s, err := ParseRelativeDate(start, now)
	if err != nil {
		return nil, err
	}

	e := s
	if end != "" {
		e, err = ParseRelativeDate(end, now)
		if err != nil {
			return nil, err
		}
	}

	if e.Before(s) {
		return nil, ErrEndDateBeforeStart
	}
	return &DateRange{Start: s, End: e}, nil
}

// Days returns the number of days covered, both ends included.
func (r *DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24+0.5) + 1
}

// Until returns the exclusive upper bound: midnight after End.
func (r *DateRange) Until() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// ParseDate parses a YYYY-MM-DD date in loc. Empty input returns today.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if s == "" {
		return TruncateToDay(time.Now().In(loc)), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	monday = t.AddDate(0, 0, -WeekdayIndex(t))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// WeekdayIndex returns the Monday-based column of t (Monday = 0, Sunday = 6).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ResolveDayLabel turns a grid day label into a date.
// "Today" resolves to now's day; a weekday name resolves to that day of now's
// Monday-based week, which may lie in the past.
func ResolveDayLabel(label string, now time.Time) (time.Time, error) {
	today := TruncateToDay(now)
	key := strings.ToLower(strings.TrimSpace(label))
	if key == strings.ToLower(TodayLabel) {
		return today, nil
	}
	target, ok := weekdayMap[key]
	if !ok {
		return time.Time{}, ErrUnknownDayLabel
	}
	return today.AddDate(0, 0, target-WeekdayIndex(today)), nil
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": relativeTo's day
//   - Keywords: "yesterday", "tomorrow", "next-week", "last-week"
//   - Weekday names: "monday" through "sunday" (day of the current week)
//   - Next prefixed: "next-monday" through "next-sunday" (day of the following week)
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//
// All inputs are case-insensitive. Returns ErrInvalidDateFormat for unrecognized input.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	case "last-week":
		return today.AddDate(0, 0, -7), nil
	}

	if name, ok := strings.CutPrefix(input, "next-"); ok {
		d, err := ResolveDayLabel(name, relativeTo)
		if err != nil {
			return time.Time{}, ErrInvalidDateFormat
		}
		return d.AddDate(0, 0, 7), nil
	}

	if _, ok := weekdayMap[input]; ok {
		return ResolveDayLabel(input, relativeTo)
	}

	result, err := time.ParseInLocation("2006-01-02", input, relativeTo.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// MonthGrid returns the Monday-started weeks covering t's month.
// Each week holds seven dates; days outside the month are zero.
func MonthGrid(t time.Time) [][7]time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	var weeks [][7]time.Time
	var week [7]time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		col := WeekdayIndex(d)
		if col == 0 && d.Day() != 1 {
			weeks = append(weeks, week)
			week = [7]time.Time{}
		}
		week[col] = d
	}
	return append(weeks, week)
}
