package calendar

import (
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

// Gesture errors.
var (
	ErrGestureBusy = errors.New("another gesture is in progress")
	ErrNoActivity  = errors.New("no activity to manipulate")
)

// DefaultThrottle bounds the rate of applied drag and resize steps.
const DefaultThrottle = 80 * time.Millisecond

// State is the gesture machine state.
type State int

const (
	Idle State = iota
	Selecting
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Cell addresses a grid cell.
type Cell struct {
	Column int
	Row    int
}

// Point is a pointer position in grid units (pixels or terminal cells).
type Point struct {
	X int
	Y int
}

// StepKind tells a move step from a resize step.
type StepKind int

const (
	StepMove StepKind = iota
	StepResize
)

// Step is one applied drag or resize increment, ready to persist.
type Step struct {
	Kind     StepKind
	Activity *activity.Activity // the updated copy
	Update   activity.Update
	Rows     int
	Days     int
}

// Gestures is the pointer gesture state machine for one grid.
// It is synchronous and is owned by the UI loop.
type Gestures struct {
	axis        Axis
	rowHeight   int
	columnWidth int // 0 disables horizontal steps
	columns     int
	dayLabel    func(column int) string
	limiter     *rate.Limiter

	state State

	// Selecting
	anchor  Cell
	current Cell

	// Dragging and Resizing
	target *activity.Activity
	origin Point
}

// GestureOption configures Gestures.
type GestureOption func(*Gestures)

// WithGeometry sets the size of a row and of a day column in pointer units.
// A zero columnWidth keeps drags within their day.
func WithGeometry(rowHeight, columnWidth int) GestureOption {
	return func(g *Gestures) {
		g.rowHeight = max(1, rowHeight)
		g.columnWidth = max(0, columnWidth)
	}
}

// WithThrottle sets the minimum interval between applied steps. Zero disables it.
func WithThrottle(d time.Duration) GestureOption {
	return func(g *Gestures) {
		if d <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		g.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithDayView makes every selection resolve to today in a single column.
func WithDayView() GestureOption {
	return func(g *Gestures) {
		g.columns = 1
		g.columnWidth = 0
		g.dayLabel = func(int) string { return dateutil.TodayLabel }
	}
}

// NewGestures creates an idle gesture machine for a seven-column week grid.
func NewGestures(axis Axis, opts ...GestureOption) *Gestures {
	g := &Gestures{
		axis:      axis,
		rowHeight: 1,
		columns:   7,
		dayLabel: func(column int) string {
			return dateutil.WeekdayNames[column%7]
		},
	}
	WithThrottle(DefaultThrottle)(g)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current state.
func (g *Gestures) State() State {
	return g.state
}

// Target returns the activity being dragged or resized, or nil.
func (g *Gestures) Target() *activity.Activity {
	return g.target
}

// BeginSelect starts a drag-to-create gesture anchored at c.
func (g *Gestures) BeginSelect(c Cell) error {
	if g.state != Idle {
		return ErrGestureBusy
	}
	c = g.clampCell(c)
	g.state = Selecting
	g.anchor = c
	g.current = c
	return nil
}

// Enter extends the selection to c. Cells in other columns are ignored.
func (g *Gestures) Enter(c Cell) {
	if g.state != Selecting || c.Column != g.anchor.Column {
		return
	}
	g.current = g.clampCell(c)
}

// Selection returns the range currently selected.
func (g *Gestures) Selection() (Selection, bool) {
	if g.state != Selecting {
		return Selection{}, false
	}
	return Selection{
		Day:    g.dayLabel(g.anchor.Column),
		Column: g.anchor.Column,
		Start:  min(g.anchor.Row, g.current.Row),
		End:    max(g.anchor.Row, g.current.Row),
	}, true
}

// BeginDrag starts moving a.
func (g *Gestures) BeginDrag(a *activity.Activity, at Point) error {
	return g.beginEdit(Dragging, a, at)
}

// BeginResize starts moving the end of a.
func (g *Gestures) BeginResize(a *activity.Activity, at Point) error {
	return g.beginEdit(Resizing, a, at)
}

func (g *Gestures) beginEdit(s State, a *activity.Activity, at Point) error {
	if g.state != Idle {
		return ErrGestureBusy
	}
	if a == nil {
		return ErrNoActivity
	}
	g.state = s
	g.target = a.Clone()
	g.origin = at
	return nil
}

// Move feeds pointer motion while dragging or resizing. It returns the applied
// step when the displacement crosses a whole row or column and the throttle allows it.
func (g *Gestures) Move(at Point, now time.Time) (Step, bool) {
	if g.state != Dragging && g.state != Resizing {
		return Step{}, false
	}

	rows := g.axis.PixelToRow(at.Y-g.origin.Y, g.rowHeight)
	days := 0
	if g.state == Dragging && g.columnWidth > 0 {
		days = roundDiv(at.X-g.origin.X, g.columnWidth)
	}
	if rows == 0 && days == 0 {
		return Step{}, false
	}

	shift := time.Duration(rows) * g.axis.IntervalDuration()
	next := g.target.Clone()
	kind := StepMove
	if g.state == Dragging {
		next.StartAt = next.StartAt.AddDate(0, 0, days).Add(shift)
		next.EndAt = next.EndAt.AddDate(0, 0, days).Add(shift)
	} else {
		kind = StepResize
		next.EndAt = next.EndAt.Add(shift)
		if next.Duration() < g.axis.IntervalDuration() {
			return Step{}, false
		}
	}
	// Rejected steps above leave the throttle budget untouched.
	if !g.limiter.AllowN(now, 1) {
		return Step{}, false
	}

	g.origin.Y += rows * g.rowHeight
	g.origin.X += days * g.columnWidth
	g.target = next

	u := activity.NewUpdate().WithStart(next.StartAt).WithEnd(next.EndAt)
	if kind == StepResize {
		u = activity.NewUpdate().WithEnd(next.EndAt)
	}
	return Step{Kind: kind, Activity: next.Clone(), Update: u, Rows: rows, Days: days}, true
}

// Release ends the current gesture. A selection is returned when one was in progress.
func (g *Gestures) Release() (Selection, bool) {
	sel, ok := g.Selection()
	g.reset()
	return sel, ok
}

// ReleaseAt ends a selection over c. A release outside the anchor's column
// discards the selection.
func (g *Gestures) ReleaseAt(c Cell) (Selection, bool) {
	if g.state == Selecting && c.Column != g.anchor.Column {
		g.reset()
		return Selection{}, false
	}
	g.Enter(c)
	return g.Release()
}

// Cancel abandons the current gesture without side effects.
func (g *Gestures) Cancel() {
	g.reset()
}

func (g *Gestures) reset() {
	g.state = Idle
	g.target = nil
	g.anchor = Cell{}
	g.current = Cell{}
	g.origin = Point{}
}

func (g *Gestures) clampCell(c Cell) Cell {
	return Cell{
		Column: max(0, min(c.Column, g.columns-1)),
		Row:    g.axis.Clamp(c.Row),
	}
}

func roundDiv(a, b int) int {
	if a < 0 {
		return -roundDiv(-a, b)
	}
	return (a + b/2) / b
}
