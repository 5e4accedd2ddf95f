package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
)

// logKeyPress logs a key press event.
func (m Model) logKeyPress(msg tea.KeyMsg) {
	if !m.log.Enabled(applog.LevelDebug) {
		return
	}
	m.log.Debug("KEY_PRESS", applog.Fields{
		"key":  msg.String(),
		"mode": modeString(m.mode),
	})
}

// logMouse logs a mouse event that reached the grid.
func (m Model) logMouse(msg tea.MouseMsg, col, row int, inGrid bool) {
	if !m.log.Enabled(applog.LevelDebug) || msg.Action == tea.MouseActionMotion && m.gestures.State() == calendar.Idle {
		return
	}
	m.log.Debug("MOUSE", applog.Fields{
		"mouse":   msg.String(),
		"x":       msg.X,
		"y":       msg.Y,
		"col":     col,
		"row":     row,
		"in_grid": inGrid,
	})
}

// logModeChange logs a mode change.
func (m Model) logModeChange(from, to Mode, reason string) {
	m.log.Debug("MODE_CHANGE", applog.Fields{
		"from":   modeString(from),
		"to":     modeString(to),
		"reason": reason,
	})
}

// logGesture logs a gesture transition.
func (m Model) logGesture(event string, f applog.Fields) {
	if f == nil {
		f = applog.Fields{}
	}
	f["state"] = m.gestures.State().String()
	m.log.Debug(event, f)
}

// logStep logs an applied drag or resize step.
func (m Model) logStep(step calendar.Step) {
	kind := calendar.OpMove
	if step.Kind == calendar.StepResize {
		kind = calendar.OpResize
	}
	m.log.Info("GESTURE_STEP", applog.Fields{
		"kind":  kind,
		"id":    step.Activity.ID,
		"rows":  step.Rows,
		"days":  step.Days,
		"start": step.Activity.StartAt.Format("2006-01-02 15:04"),
		"end":   step.Activity.EndAt.Format("2006-01-02 15:04"),
	})
}

// modeString returns a string representation of a Mode.
func modeString(m Mode) string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeModal:
		return "Modal"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}
