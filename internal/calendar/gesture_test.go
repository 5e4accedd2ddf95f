package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

var t0 = time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)

func TestSelectGesture(t *testing.T) {
	g := NewGestures(DefaultAxis())

	if err := g.BeginSelect(Cell{Column: 1, Row: 7}); err != nil {
		t.Fatalf("BeginSelect() error: %v", err)
	}
	if g.State() != Selecting {
		t.Fatalf("state = %v, want selecting", g.State())
	}

	g.Enter(Cell{Column: 1, Row: 4})
	g.Enter(Cell{Column: 2, Row: 12}) // other column, ignored

	sel, ok := g.Selection()
	if !ok || sel.Start != 4 || sel.End != 7 {
		t.Fatalf("Selection() = %+v, %v", sel, ok)
	}

	sel, ok = g.Release()
	if !ok {
		t.Fatal("Release() returned no selection")
	}
	want := Selection{Day: "Tuesday", Column: 1, Start: 4, End: 7}
	if sel != want {
		t.Errorf("Release() = %+v, want %+v", sel, want)
	}
	if g.State() != Idle {
		t.Errorf("state after release = %v", g.State())
	}
}

func TestSelectGestureClampsRows(t *testing.T) {
	g := NewGestures(DefaultAxis())
	_ = g.BeginSelect(Cell{Column: 0, Row: 70})
	g.Enter(Cell{Column: 0, Row: 90})
	sel, _ := g.Release()
	if sel.Start != 70 || sel.End != 71 {
		t.Errorf("selection = %d-%d, want 70-71", sel.Start, sel.End)
	}
}

func TestSelectGestureReleaseInOtherColumn(t *testing.T) {
	g := NewGestures(DefaultAxis())
	_ = g.BeginSelect(Cell{Column: 3, Row: 5})
	if _, ok := g.ReleaseAt(Cell{Column: 4, Row: 8}); ok {
		t.Error("release in another column should discard the selection")
	}
	if g.State() != Idle {
		t.Errorf("state = %v, want idle", g.State())
	}

	_ = g.BeginSelect(Cell{Column: 3, Row: 5})
	sel, ok := g.ReleaseAt(Cell{Column: 3, Row: 8})
	if !ok || sel.End != 8 {
		t.Errorf("ReleaseAt() = %+v, %v", sel, ok)
	}
}

func TestSelectGestureCancel(t *testing.T) {
	g := NewGestures(DefaultAxis())
	_ = g.BeginSelect(Cell{Column: 0, Row: 1})
	g.Cancel()
	if g.State() != Idle {
		t.Fatalf("state = %v, want idle", g.State())
	}
	if _, ok := g.Release(); ok {
		t.Error("Release() after Cancel should return nothing")
	}
}

func TestDayViewSelection(t *testing.T) {
	g := NewGestures(DefaultAxis(), WithDayView())
	_ = g.BeginSelect(Cell{Column: 4, Row: 2})
	sel, _ := g.Release()
	if sel.Day != dateutil.TodayLabel || sel.Column != 0 {
		t.Errorf("selection = %+v", sel)
	}
}

func TestGestureBusy(t *testing.T) {
	g := NewGestures(DefaultAxis())
	_ = g.BeginSelect(Cell{})
	a := act(1, clock(9, 0), clock(10, 0))
	if err := g.BeginDrag(a, Point{}); !errors.Is(err, ErrGestureBusy) {
		t.Errorf("BeginDrag() error = %v, want ErrGestureBusy", err)
	}
	g.Cancel()
	if err := g.BeginResize(nil, Point{}); !errors.Is(err, ErrNoActivity) {
		t.Errorf("BeginResize(nil) error = %v, want ErrNoActivity", err)
	}
}

func TestDragGesture(t *testing.T) {
	g := NewGestures(DefaultAxis(), WithGeometry(1, 10))
	a := act(5, clock(9, 0), clock(10, 0))

	if err := g.BeginDrag(a, Point{X: 5, Y: 10}); err != nil {
		t.Fatalf("BeginDrag() error: %v", err)
	}

	if _, ok := g.Move(Point{X: 7, Y: 10}, t0); ok {
		t.Error("sub-step motion should not apply")
	}

	step, ok := g.Move(Point{X: 5, Y: 12}, t0)
	if !ok {
		t.Fatal("two-row motion should apply")
	}
	if step.Kind != StepMove || step.Rows != 2 || step.Days != 0 {
		t.Errorf("step = %+v", step)
	}
	if !step.Activity.StartAt.Equal(clock(9, 30)) || !step.Activity.EndAt.Equal(clock(10, 30)) {
		t.Errorf("moved to %v-%v", step.Activity.StartAt, step.Activity.EndAt)
	}
	if !step.Update.Has(activity.FieldStartAt) || !step.Update.Has(activity.FieldEndAt) || len(step.Update.Changed()) != 2 {
		t.Errorf("update fields = %v", step.Update.Changed())
	}

	// Within the throttle window the motion is dropped and the origin kept.
	if _, ok := g.Move(Point{X: 5, Y: 13}, t0.Add(20*time.Millisecond)); ok {
		t.Error("throttled motion should not apply")
	}

	step, ok = g.Move(Point{X: 5, Y: 13}, t0.Add(200*time.Millisecond))
	if !ok || step.Rows != 1 {
		t.Fatalf("step after throttle = %+v, %v", step, ok)
	}

	step, ok = g.Move(Point{X: 16, Y: 13}, t0.Add(400*time.Millisecond))
	if !ok || step.Days != 1 || step.Rows != 0 {
		t.Fatalf("horizontal step = %+v, %v", step, ok)
	}
	wantStart := clock(9, 45).AddDate(0, 0, 1)
	if !step.Activity.StartAt.Equal(wantStart) || step.Activity.Duration() != time.Hour {
		t.Errorf("after day step = %v (%v)", step.Activity.StartAt, step.Activity.Duration())
	}

	if !a.StartAt.Equal(clock(9, 0)) {
		t.Error("gesture mutated the caller's activity")
	}

	g.Release()
	if g.State() != Idle || g.Target() != nil {
		t.Errorf("state after release = %v", g.State())
	}
	if _, ok := g.Move(Point{X: 5, Y: 30}, t0.Add(time.Second)); ok {
		t.Error("motion after release should not apply")
	}
}

func TestDragUpwards(t *testing.T) {
	g := NewGestures(DefaultAxis(), WithThrottle(0))
	a := act(5, clock(9, 0), clock(10, 0))
	_ = g.BeginDrag(a, Point{Y: 10})

	step, ok := g.Move(Point{Y: 9}, t0)
	if !ok || step.Rows != -1 {
		t.Fatalf("step = %+v, %v", step, ok)
	}
	if !step.Activity.StartAt.Equal(clock(8, 45)) {
		t.Errorf("StartAt = %v", step.Activity.StartAt)
	}
}

func TestDayViewDragIgnoresColumns(t *testing.T) {
	g := NewGestures(DefaultAxis(), WithGeometry(1, 10), WithDayView(), WithThrottle(0))
	_ = g.BeginDrag(act(1, clock(9, 0), clock(10, 0)), Point{})
	if _, ok := g.Move(Point{X: 40}, t0); ok {
		t.Error("horizontal motion in day view should not apply")
	}
}

func TestResizeGesture(t *testing.T) {
	g := NewGestures(DefaultAxis(), WithThrottle(0))
	a := act(8, clock(9, 0), clock(9, 30))
	_ = g.BeginResize(a, Point{Y: 20})

	step, ok := g.Move(Point{Y: 22}, t0)
	if !ok || step.Kind != StepResize {
		t.Fatalf("grow step = %+v, %v", step, ok)
	}
	if !step.Activity.StartAt.Equal(clock(9, 0)) || !step.Activity.EndAt.Equal(clock(10, 0)) {
		t.Errorf("resized to %v-%v", step.Activity.StartAt, step.Activity.EndAt)
	}
	if step.Update.Has(activity.FieldStartAt) || !step.Update.Has(activity.FieldEndAt) {
		t.Errorf("resize update fields = %v", step.Update.Changed())
	}

	step, ok = g.Move(Point{Y: 19}, t0.Add(time.Second))
	if !ok || step.Activity.Duration() != 15*time.Minute {
		t.Fatalf("shrink to one interval = %+v, %v", step, ok)
	}
}

func TestResizeBelowOneIntervalIsRejected(t *testing.T) {
	g := NewGestures(DefaultAxis(), WithThrottle(0))
	a := act(8, clock(9, 0), clock(9, 15))
	_ = g.BeginResize(a, Point{Y: 20})

	if _, ok := g.Move(Point{Y: 19}, t0); ok {
		t.Fatal("shrinking below one interval should be rejected")
	}
	if got := g.Target(); !got.EndAt.Equal(clock(9, 15)) || !got.StartAt.Equal(clock(9, 0)) {
		t.Errorf("target changed to %v-%v", got.StartAt, got.EndAt)
	}
	if g.State() != Resizing {
		t.Errorf("state = %v, want resizing", g.State())
	}

	// Growing again from the unchanged origin still works.
	step, ok := g.Move(Point{Y: 21}, t0.Add(time.Second))
	if !ok || !step.Activity.EndAt.Equal(clock(9, 30)) {
		t.Errorf("grow after rejection = %+v, %v", step, ok)
	}
}

func TestRejectedResizeKeepsThrottleBudget(t *testing.T) {
	g := NewGestures(DefaultAxis())
	_ = g.BeginResize(act(8, clock(9, 0), clock(9, 15)), Point{Y: 20})

	if _, ok := g.Move(Point{Y: 19}, t0); ok {
		t.Fatal("shrinking below one interval should be rejected")
	}
	step, ok := g.Move(Point{Y: 21}, t0.Add(10*time.Millisecond))
	if !ok || !step.Activity.EndAt.Equal(clock(9, 30)) {
		t.Fatalf("grow right after a rejected shrink = %+v, %v", step, ok)
	}

	// The applied grow does consume the budget.
	if _, ok := g.Move(Point{Y: 22}, t0.Add(20*time.Millisecond)); ok {
		t.Error("second step inside the throttle window should be dropped")
	}
}

func TestResizeIgnoresHorizontalMotion(t *testing.T) {
	g := NewGestures(DefaultAxis(), WithGeometry(1, 10), WithThrottle(0))
	_ = g.BeginResize(act(1, clock(9, 0), clock(10, 0)), Point{})
	if _, ok := g.Move(Point{X: 30}, t0); ok {
		t.Error("horizontal motion should not resize")
	}
}
