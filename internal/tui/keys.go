package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
	"github.com/hawkeyecrm/hawkeye/internal/tui/commands"
	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == ModeModal {
		return m.handleModalKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.gestures.Cancel()
		m.gestureMoved = false

	// Navigation
	case "h", "left":
		if m.cursor.Col > 0 {
			m.cursor.Col--
			return m, nil
		}
		m.cursor.Col = m.days() - 1
		return m.shiftRange(-1)
	case "l", "right":
		if m.cursor.Col < m.days()-1 {
			m.cursor.Col++
			return m, nil
		}
		m.cursor.Col = 0
		return m.shiftRange(1)
	case "j", "down":
		m.cursor.Row = m.axis.Clamp(m.cursor.Row + 1)
		m.ensureCursorVisible()
	case "k", "up":
		m.cursor.Row = m.axis.Clamp(m.cursor.Row - 1)
		m.ensureCursorVisible()
	case "pgdown", "ctrl+d":
		m.cursor.Row = m.axis.Clamp(m.cursor.Row + max(1, m.visibleRows()))
		m.ensureCursorVisible()
	case "pgup", "ctrl+u":
		m.cursor.Row = m.axis.Clamp(m.cursor.Row - max(1, m.visibleRows()))
		m.ensureCursorVisible()
	case "[":
		return m.shiftRange(-1)
	case "]":
		return m.shiftRange(1)
	case "t":
		return m.goToday()
	case "v":
		return m.toggleView()
	case "r":
		m.loading = true
		return m, commands.LoadRange(m.store, m.rangeFilter(), m.timeout)

	// Activities
	case "n":
		f := activity.NewForm(m.columnDate(m.cursor.Col), m.now().In(m.loc), m.currentUserID)
		return m.openForm(f, nil)
	case "enter":
		if a := m.activityAtCursor(); a != nil {
			return m.openDetail(a)
		}
		if err := m.gestures.BeginSelect(calendar.Cell{Column: m.cursor.Col, Row: m.cursor.Row}); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		sel, _ := m.gestures.Release()
		return m.openSelectionForm(sel)
	case "e":
		if a := m.activityAtCursor(); a != nil {
			return m.openEdit(a)
		}
	case "y":
		if a := m.activityAtCursor(); a != nil {
			return m, commands.Copy("activity", view.Summary(a))
		}
	case "J", "shift+down":
		return m.keyboardStep(calendar.StepMove, 0, 1)
	case "K", "shift+up":
		return m.keyboardStep(calendar.StepMove, 0, -1)
	case "H", "shift+left":
		return m.keyboardStep(calendar.StepMove, -1, 0)
	case "L", "shift+right":
		return m.keyboardStep(calendar.StepMove, 1, 0)
	case "+", "=":
		return m.keyboardStep(calendar.StepResize, 0, 1)
	case "-":
		return m.keyboardStep(calendar.StepResize, 0, -1)

	// Settings
	case "u":
		m.userCursor = 0
		m.openModal(ModalUserFilter)
	case "T":
		return m.toggleTheme()
	}
	return m, nil
}

// keyboardStep moves or resizes the activity under the cursor by whole rows
// and days through an unthrottled gesture.
func (m Model) keyboardStep(kind calendar.StepKind, days, rows int) (tea.Model, tea.Cmd) {
	a := m.activityAtCursor()
	if a == nil {
		return m, nil
	}
	g := calendar.NewGestures(m.axis, calendar.WithGeometry(1, 1), calendar.WithThrottle(0))
	begin := g.BeginDrag
	if kind == calendar.StepResize {
		begin = g.BeginResize
	}
	if err := begin(a, calendar.Point{}); err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	step, ok := g.Move(calendar.Point{X: days, Y: rows}, m.now())
	g.Release()
	if !ok {
		return m, nil
	}

	m.applyStep(step)
	status := m.setStatus(describeStep(step), false)
	if col := m.columnOf(step.Activity.StartAt); col < 0 {
		next, load := m.followActivity(step.Activity)
		return next, tea.Batch(status, load)
	}
	m.ensureCursorVisible()
	return m, status
}

// followActivity moves the visible range to the day of a.
func (m Model) followActivity(a *activity.Activity) (tea.Model, tea.Cmd) {
	day := dateutil.TruncateToDay(a.StartAt.In(m.loc))
	m.day = day
	m.weekStart, _ = dateutil.WeekRange(day)
	if m.viewKind == ViewWeek {
		m.cursor.Col = dateutil.WeekdayIndex(day)
	}
	return m.reload()
}

// shiftRange moves the visible range by delta weeks or days.
func (m Model) shiftRange(delta int) (tea.Model, tea.Cmd) {
	if m.viewKind == ViewDay {
		m.day = m.day.AddDate(0, 0, delta)
		m.weekStart, _ = dateutil.WeekRange(m.day)
	} else {
		m.weekStart = m.weekStart.AddDate(0, 0, 7*delta)
		m.day = m.weekStart.AddDate(0, 0, m.cursor.Col)
	}
	return m.reload()
}

// goToday shows the range containing today with the cursor on the current time.
func (m Model) goToday() (tea.Model, tea.Cmd) {
	now := m.now().In(m.loc)
	m.day = dateutil.TruncateToDay(now)
	m.weekStart, _ = dateutil.WeekRange(m.day)
	m.cursor.Col = 0
	if m.viewKind == ViewWeek {
		m.cursor.Col = dateutil.WeekdayIndex(now)
	}
	m.cursor.Row = m.axis.Clamp(m.axis.RowAt(now))
	m.ensureCursorVisible()
	return m.reload()
}

// toggleView switches between the week and the day of the cursor.
func (m Model) toggleView() (tea.Model, tea.Cmd) {
	if m.viewKind == ViewWeek {
		m.day = m.columnDate(m.cursor.Col)
		m.viewKind = ViewDay
		m.cursor.Col = 0
	} else {
		m.weekStart, _ = dateutil.WeekRange(m.day)
		m.viewKind = ViewWeek
		m.cursor.Col = dateutil.WeekdayIndex(m.day)
	}
	m.gestures.Cancel()
	m.colWidth = m.calculateColWidth()
	m.rebuildGestures()
	m.log.Debug("VIEW_TOGGLE", applog.Fields{"day_view": m.viewKind == ViewDay})
	return m.reload()
}

// reload fetches the visible range.
func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.relayout()
	return m, commands.LoadRange(m.store, m.rangeFilter(), m.timeout)
}

// openForm opens the activity form.
func (m Model) openForm(f activity.Form, editing *activity.Activity) (tea.Model, tea.Cmd) {
	m.form = newActivityForm(f, editing, m.directory, m.axis.Interval, m.loc, m.styles)
	m.form.syncFocus()
	m.openModal(ModalActivityForm)
	return m, nil
}

// openEdit opens the form pre-filled from a.
func (m Model) openEdit(a *activity.Activity) (tea.Model, tea.Cmd) {
	return m.openForm(activity.FormFor(a), a)
}

// openDetail shows a read-only view of a.
func (m Model) openDetail(a *activity.Activity) (tea.Model, tea.Cmd) {
	m.modalAct = a
	m.openModal(ModalActivityDetail)
	return m, nil
}

// handleModalKeys handles keys when a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalActivityForm:
		return m.handleFormKeys(msg)
	case ModalActivityDetail:
		return m.handleDetailKeys(msg)
	case ModalUserFilter:
		return m.handleUserFilterKeys(msg)
	case ModalSessionExpired:
		if msg.String() == "q" || msg.String() == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}
	m.closeModal("unknown")
	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.closeModal("close")
	case "e":
		a := m.modalAct
		m.closeModal("edit")
		if a != nil {
			return m.openEdit(a)
		}
	case "y":
		if m.modalAct != nil {
			return m, commands.Copy("activity", view.Summary(m.modalAct))
		}
	}
	return m, nil
}

func (m Model) handleUserFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter", "u":
		m.closeModal("close")
	case "j", "down":
		m.userCursor = min(m.userCursor+1, max(0, len(m.directory)-1))
	case "k", "up":
		m.userCursor = max(0, m.userCursor-1)
	case " ", "x":
		m.toggleUser()
	case "a":
		m.selectAllUsers()
	case "n":
		m.selectNoUsers()
	}
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.closeModal("no form")
		return m, nil
	}
	if f.pending && msg.String() != "esc" {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.closeModal("cancel")
		return m.reload()
	case "tab", "down":
		f.focusNext(1)
		return m, nil
	case "shift+tab", "up":
		f.focusNext(-1)
		return m, nil
	case "left":
		if f.adjust(-1) {
			return m, nil
		}
	case "right":
		if f.adjust(1) {
			return m, nil
		}
	case "enter":
		a, ok := f.Build(m.loc)
		if !ok {
			return m, nil
		}
		f.pending = true
		m.log.Info("FORM_SUBMIT", applog.Fields{
			"id":    a.ID,
			"kind":  string(a.Kind),
			"start": a.StartAt.Format(time.RFC3339),
		})
		return m, commands.SaveForm(m.persister, f.editing, a, m.timeout)
	}

	if f.focus == fieldPublic && !f.publicEnabled() {
		return m, nil
	}
	return m, f.Update(msg)
}

// describeStep returns a short status line for a keyboard step.
func describeStep(step calendar.Step) string {
	a := step.Activity
	return fmt.Sprintf("%s %s", a.StartAt.Format("Mon Jan 2"), view.FormatTimeRange(a))
}
