package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
	"github.com/hawkeyecrm/hawkeye/internal/session"
	"github.com/hawkeyecrm/hawkeye/internal/tui/commands"
	"github.com/hawkeyecrm/hawkeye/internal/tui/theme"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case commands.InitialLoadMsg:
		m.directory = msg.Users
		m.applyRange(msg.RangeLoadedMsg)
		return m, nil

	case commands.RangeLoadedMsg:
		m.applyRange(msg)
		return m, nil

	case commands.PersistedMsg:
		cmds := []tea.Cmd{commands.WaitPersisted(m.results)}
		res := msg.Result
		switch {
		case res.Superseded:
		case res.Err != nil:
			// The optimistic position is kept; a reload shows the stored one.
			cmds = append(cmds, m.setStatus(fmt.Sprintf("Could not save %s of #%d: %v", res.Op, res.ActivityID, res.Err), true))
			if errors.Is(res.Err, session.ErrExpired) {
				cmds = append(cmds, func() tea.Msg { return commands.SessionExpiredMsg{} })
			}
		}
		return m, tea.Batch(cmds...)

	case commands.FormSavedMsg:
		m.replaceActivity(msg.Activity)
		m.closeModal("saved")
		verb := "Updated"
		if msg.Created {
			verb = "Created"
		}
		status := m.setStatus(fmt.Sprintf("%s %s on %s", verb, msg.Activity.Kind.Label(), msg.Activity.StartAt.Format("Mon Jan 2 15:04")), false)
		return m, tea.Batch(status, commands.LoadRange(m.store, m.rangeFilter(), m.timeout))

	case commands.FormErrorMsg:
		if m.form != nil {
			m.form.pending = false
			m.form.SetError(msg.Err)
		}
		m.log.Error("FORM_REJECTED", msg.Err, nil)
		if errors.Is(msg.Err, session.ErrExpired) {
			return m.openSessionExpired()
		}
		return m, nil

	case commands.SessionExpiredMsg:
		return m.openSessionExpired()

	case commands.ThemeSavedMsg:
		return m, m.setStatus("Theme: "+msg.Name, false)

	case commands.CopiedMsg:
		return m, m.setStatus("Copied "+msg.What, false)

	case commands.ErrMsg:
		m.loading = false
		m.log.Error("TUI_ERROR", msg.Err, nil)
		if errors.Is(msg.Err, session.ErrExpired) {
			return m.openSessionExpired()
		}
		return m, m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg, false)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	return m, nil
}

// applyRange stores a loaded range when it still matches the visible one.
func (m *Model) applyRange(msg commands.RangeLoadedMsg) {
	f := m.rangeFilter()
	if !msg.From.Equal(f.From) || !msg.To.Equal(f.To) {
		return
	}
	m.loading = false
	m.activities = msg.Activities
	m.relayout()
	m.log.Debug("RANGE_LOADED", applog.Fields{
		"from":  msg.From.Format("2006-01-02"),
		"to":    msg.To.Format("2006-01-02"),
		"count": len(msg.Activities),
	})
}

// resize recomputes the column width and the gesture geometry.
func (m *Model) resize() {
	m.colWidth = m.calculateColWidth()
	if m.gestures.State() == calendar.Idle {
		m.rebuildGestures()
	}
	m.ensureCursorVisible()
	m.relayout()
}

// openModal switches to modal mode.
func (m *Model) openModal(t ModalType) {
	m.gestures.Cancel()
	if m.mode != ModeModal {
		m.logModeChange(m.mode, ModeModal, "modal")
	}
	m.mode = ModeModal
	m.modalType = t
}

// closeModal returns to normal mode.
func (m *Model) closeModal(reason string) {
	if m.mode != ModeNormal {
		m.logModeChange(m.mode, ModeNormal, reason)
	}
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.modalAct = nil
	m.form = nil
}

func (m Model) openSessionExpired() (tea.Model, tea.Cmd) {
	if m.expired {
		return m, nil
	}
	m.expired = true
	m.form = nil
	m.modalAct = nil
	m.openModal(ModalSessionExpired)
	m.log.Warn("SESSION_EXPIRED", nil)
	return m, nil
}

// toggleTheme switches between the bundled themes and persists the choice.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	next := theme.Toggle(m.theme.Name)
	t, err := theme.Load(next)
	if err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err), true)
	}
	m.theme = t
	m.styles = NewStyles(t)
	m.overlay.SetBackground(m.styles.ModalBgColor)
	if err := m.config.Set("ui.theme", next); err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err), true)
	}
	return m, commands.SaveTheme(m.config, m.configPath)
}
