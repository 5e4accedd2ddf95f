package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
)

const wheelRows = 3

// handleMouseMsg drives the gesture machine from terminal mouse events.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal {
		return m, nil
	}

	col, row, offset, inGrid := m.geometry().CellAt(msg.X, msg.Y)
	m.logMouse(msg, col, row, inGrid)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-wheelRows)
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(wheelRows)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inGrid {
			return m, nil
		}
		return m.pointerDown(msg, col, row, offset)

	case tea.MouseActionMotion:
		return m.pointerMove(msg, col, row, inGrid)

	case tea.MouseActionRelease:
		return m.pointerUp(col, row, inGrid)
	}
	return m, nil
}

// pointerDown starts a drag, a resize or a selection depending on what is
// under the pointer.
func (m Model) pointerDown(msg tea.MouseMsg, col, row, offset int) (tea.Model, tea.Cmd) {
	if m.gestures.State() != calendar.Idle {
		m.gestures.Cancel()
	}
	m.cursor = Position{Col: col, Row: row}
	m.gestureMoved = false
	at := calendar.Point{X: msg.X, Y: msg.Y}

	if slot, ok := m.slotAt(col, row, offset); ok {
		var err error
		event := "GESTURE_DRAG"
		if m.onResizeHandle(slot, row, offset) {
			event = "GESTURE_RESIZE"
			err = m.gestures.BeginResize(slot.Activity, at)
		} else {
			err = m.gestures.BeginDrag(slot.Activity, at)
		}
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.logGesture(event, applog.Fields{"id": slot.Activity.ID, "col": col, "row": row})
		return m, nil
	}

	if err := m.gestures.BeginSelect(calendar.Cell{Column: col, Row: row}); err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	m.logGesture("GESTURE_SELECT", applog.Fields{"col": col, "row": row})
	return m, nil
}

// onResizeHandle reports whether a press grabs the bottom edge of s: the last
// row of a multi-row block or the rightmost cell of a one-row block.
func (m Model) onResizeHandle(s calendar.Slot, row, offset int) bool {
	if s.Rows() > 1 {
		return row == s.EndRow-1
	}
	left, width := m.blockSpan(s)
	return width > 1 && offset == left+width-1
}

func (m Model) pointerMove(msg tea.MouseMsg, col, row int, inGrid bool) (tea.Model, tea.Cmd) {
	switch m.gestures.State() {
	case calendar.Selecting:
		if inGrid {
			m.gestures.Enter(calendar.Cell{Column: col, Row: row})
		}
	case calendar.Dragging, calendar.Resizing:
		if step, ok := m.gestures.Move(calendar.Point{X: msg.X, Y: msg.Y}, m.now()); ok {
			m.applyStep(step)
		}
	}
	return m, nil
}

func (m Model) pointerUp(col, row int, inGrid bool) (tea.Model, tea.Cmd) {
	switch m.gestures.State() {
	case calendar.Selecting:
		var (
			sel calendar.Selection
			ok  bool
		)
		if inGrid {
			sel, ok = m.gestures.ReleaseAt(calendar.Cell{Column: col, Row: row})
		} else {
			m.gestures.Cancel()
		}
		m.logGesture("GESTURE_RELEASE", applog.Fields{"selected": ok})
		if !ok {
			return m, nil
		}
		return m.openSelectionForm(sel)

	case calendar.Dragging, calendar.Resizing:
		target := m.gestures.Target()
		moved := m.gestureMoved
		m.gestures.Release()
		m.gestureMoved = false
		m.logGesture("GESTURE_RELEASE", applog.Fields{"moved": moved})
		if moved || target == nil {
			return m, nil
		}
		if a := m.findActivity(target.ID); a != nil {
			return m.openDetail(a)
		}
	}
	return m, nil
}

// applyStep shows a drag or resize step at once and writes it in the
// background.
func (m *Model) applyStep(step calendar.Step) {
	m.gestureMoved = true
	m.replaceActivity(step.Activity.Clone())
	if step.Kind == calendar.StepMove {
		if col := m.columnOf(step.Activity.StartAt); col >= 0 {
			m.cursor.Col = col
		}
		m.cursor.Row = m.axis.Clamp(m.axis.RowAt(step.Activity.StartAt))
	} else {
		_, end := m.axis.TimeRangeToRows(step.Activity.StartAt, step.Activity.EndAt)
		m.cursor.Row = m.axis.Clamp(end - 1)
	}
	m.logStep(step)
	m.persister.Submit(step)
}

// openSelectionForm opens the create form for a selected range.
func (m Model) openSelectionForm(sel calendar.Selection) (tea.Model, tea.Cmd) {
	dr, err := m.axis.SelectionToDateRange(sel, m.anchorDate())
	if err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	f := activity.NewForm(dr.Date, dr.Start(), m.currentUserID)
	f.Start = dr.StartTime
	f.End = dr.EndTime
	return m.openForm(f, nil)
}

// findActivity returns the cached activity with id.
func (m Model) findActivity(id int64) *activity.Activity {
	for _, a := range m.activities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// scrollBy moves the viewport by delta rows, keeping the cursor on screen.
func (m *Model) scrollBy(delta int) {
	visible := m.visibleRows()
	m.scroll = max(0, min(m.scroll+delta, m.axis.Rows()-visible))
	if m.cursor.Row < m.scroll {
		m.cursor.Row = m.scroll
	}
	if visible > 0 && m.cursor.Row >= m.scroll+visible {
		m.cursor.Row = m.scroll + visible - 1
	}
}
