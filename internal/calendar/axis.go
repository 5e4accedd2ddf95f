// Package calendar implements the agenda grid engine: the time axis, the overlap
// layout, the pointer gesture state machine and the persistence adapter.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

// Axis errors.
var (
	ErrInvalidAxis    = errors.New("invalid time axis")
	ErrRowOutOfRange  = errors.New("row outside the visible window")
	ErrEmptySelection = errors.New("selection has no rows")
)

// Default axis values.
const (
	DefaultStartHour = 6
	DefaultEndHour   = 24
	DefaultInterval  = 15
)

// Axis maps grid rows to wall-clock times. Rows are Interval minutes long
// and row 0 starts at StartHour.
type Axis struct {
	StartHour int
	EndHour   int
	Interval  int // minutes
}

// DefaultAxis returns the 06:00-24:00 axis with quarter-hour rows.
func DefaultAxis() Axis {
	return Axis{StartHour: DefaultStartHour, EndHour: DefaultEndHour, Interval: DefaultInterval}
}

// NewAxis validates and returns an axis.
func NewAxis(startHour, endHour, interval int) (Axis, error) {
	a := Axis{StartHour: startHour, EndHour: endHour, Interval: interval}
	if err := a.Validate(); err != nil {
		return Axis{}, err
	}
	return a, nil
}

// Validate checks the hour bounds and that the window divides into whole rows.
func (a Axis) Validate() error {
	switch {
	case a.StartHour < 0 || a.EndHour > 24 || a.StartHour >= a.EndHour:
		return fmt.Errorf("%w: hours %d-%d", ErrInvalidAxis, a.StartHour, a.EndHour)
	case a.Interval <= 0:
		return fmt.Errorf("%w: interval %d", ErrInvalidAxis, a.Interval)
	case (a.EndHour-a.StartHour)*60%a.Interval != 0:
		return fmt.Errorf("%w: %d minute rows do not divide %02d:00-%02d:00",
			ErrInvalidAxis, a.Interval, a.StartHour, a.EndHour)
	}
	return nil
}

// Rows returns the number of rows in the grid.
func (a Axis) Rows() int {
	return (a.EndHour - a.StartHour) * 60 / a.Interval
}

// IntervalDuration returns the length of one row.
func (a Axis) IntervalDuration() time.Duration {
	return time.Duration(a.Interval) * time.Minute
}

// RowMinutes returns the minutes since midnight at which row starts.
func (a Axis) RowMinutes(row int) int {
	return a.StartHour*60 + row*a.Interval
}

// RowToTime returns the "HH:MM" start of row. Rows() itself is accepted and
// yields the end of the window.
func (a Axis) RowToTime(row int) (string, error) {
	if row < 0 || row > a.Rows() {
		return "", fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	return activity.MinutesToClock(a.RowMinutes(row)), nil
}

// Label returns the clock label of row, clamped into the window.
func (a Axis) Label(row int) string {
	s, _ := a.RowToTime(max(0, min(row, a.Rows())))
	return s
}

// offset returns minutes from the window start to t, counted from day's midnight.
// A t on a later day than day adds whole days, so a midnight end maps past the last row.
func (a Axis) offset(day, t time.Time) int {
	t = t.In(day.Location())
	dy, dm, dd := day.Date()
	ty, tm, td := t.Date()
	days := int(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Sub(time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	return days*24*60 + t.Hour()*60 + t.Minute() - a.StartHour*60
}

// TimeRangeToRows maps a time range to its row span. The start row is floored
// and the end row is ceiled, so any touched row is fully occupied.
func (a Axis) TimeRangeToRows(start, end time.Time) (startRow, endRow int) {
	s := a.offset(start, start)
	e := a.offset(start, end)
	startRow = floorDiv(s, a.Interval)
	endRow = int(math.Ceil(float64(e) / float64(a.Interval)))
	return startRow, endRow
}

// RowAt returns the row containing t.
func (a Axis) RowAt(t time.Time) int {
	return floorDiv(a.offset(t, t), a.Interval)
}

// Clamp forces row into [0, Rows()-1].
func (a Axis) Clamp(row int) int {
	return max(0, min(row, a.Rows()-1))
}

// PixelToRow maps a vertical offset in the grid body to a row.
func (a Axis) PixelToRow(offset, rowHeight int) int {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	return floorDiv(offset, rowHeight)
}

// TimeAt returns the instant at which row starts on day.
func (a Axis) TimeAt(day time.Time, row int) time.Time {
	return dateutil.TruncateToDay(day).Add(time.Duration(a.RowMinutes(row)) * time.Minute)
}

// Selection is an in-progress range pick on one day column.
// Start and End are inclusive rows with Start <= End.
type Selection struct {
	Day    string // "Today" or a weekday name
	Column int
	Start  int
	End    int
}

// Rows returns the number of selected rows.
func (s Selection) Rows() int {
	return s.End - s.Start + 1
}

// Contains reports whether the cell is selected.
func (s Selection) Contains(column, row int) bool {
	return column == s.Column && row >= s.Start && row <= s.End
}

// DateRange is a selection resolved to a concrete date and clock times.
type DateRange struct {
	Date      time.Time
	StartTime string
	EndTime   string
}

// Start returns the start instant.
func (r DateRange) Start() time.Time {
	t, _ := activity.At(r.Date, r.StartTime, r.Date.Location())
	return t
}

// End returns the end instant.
func (r DateRange) End() time.Time {
	t, _ := activity.At(r.Date, r.EndTime, r.Date.Location())
	return t
}

// SelectionToDateRange resolves the selection's day label against now and
// converts its rows to clock times. The end row is exclusive: End+1.
func (a Axis) SelectionToDateRange(sel Selection, now time.Time) (DateRange, error) {
	if sel.End < sel.Start {
		return DateRange{}, ErrEmptySelection
	}
	date, err := dateutil.ResolveDayLabel(sel.Day, now)
	if err != nil {
		return DateRange{}, fmt.Errorf("resolving %q: %w", sel.Day, err)
	}
	start, err := a.RowToTime(sel.Start)
	if err != nil {
		return DateRange{}, err
	}
	end, err := a.RowToTime(sel.End + 1)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Date: date, StartTime: start, EndTime: end}, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
