package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

// View renders the calendar and, on top of it, the open modal.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	showModal := m.mode == ModeModal && m.modalType != ModalNone
	overlay := m.overlay
	overlay.SetActive(showModal)
	overlay.SetBackground(m.styles.ModalBgColor)

	modal := ""
	if showModal {
		modal = m.renderModal()
	}

	return view.ViewState{
		Width:        m.width,
		Height:       m.height,
		BaseContent:  m.renderAppContent(),
		ModalContent: modal,
		ShowModal:    showModal,
		Overlay:      overlay,
		Placeholder:  "Loading calendar...",
	}
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.visibleRows() <= 0 {
		return "Terminal too small"
	}

	title := m.renderTitle()
	grid := view.RenderGrid(m.gridModel())
	gridBox := view.PadLinesWithBackground(grid, m.width, view.GridHeaderLines+m.visibleRows(), m.styles.Bg)
	footer := view.RenderFooter(m.footerModel())

	content := lipgloss.JoinVertical(lipgloss.Left, title, gridBox, footer)
	app := m.styles.AppStyle.Render(content)
	return view.PadLinesWithBackground(app, m.width, m.height, m.styles.Bg)
}

func (m Model) renderTitle() string {
	kind := "Week"
	if m.viewKind == ViewDay {
		kind = "Day"
	}
	text := fmt.Sprintf(" %s · %s", view.RangeTitle(m.firstDay(), m.days()), kind)
	if m.loading {
		text += " · loading"
	}
	return view.PadLinesWithBackground(m.styles.TitleStyle.Render(text), m.width, titleLines, m.styles.Bg)
}

func (m Model) footerModel() view.FooterModel {
	statusStyle := m.styles.StatusStyle
	if m.statusErr {
		statusStyle = m.styles.ErrorStyle
	}
	return view.FooterModel{
		InnerW:      m.width,
		FooterH:     view.FooterHeight,
		FilterText:  " Users: " + m.userFilterSummary(),
		StatusText:  " " + m.statusMsgOrDefault(),
		HelpText:    " " + m.renderHelp(),
		FooterStyle: m.styles.FooterStyle,
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		VAlign:      lipgloss.Bottom,
		Bg:          m.styles.Bg,
	}
}

func (m Model) statusMsgOrDefault() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if slots := m.slotsAt(m.cursor.Col, m.cursor.Row); len(slots) > 0 {
		a := slots[0].Activity
		parts := []string{a.Kind.Label(), view.FormatTimeRange(a)}
		if subj := view.Subject(a); subj != "" {
			parts = append(parts, subj)
		}
		// Slots past the cap share the last column.
		if hidden := len(slots) - m.layout.MaxColumns(); hidden > 0 {
			parts = append(parts, fmt.Sprintf("+%d stacked", hidden))
		}
		return strings.Join(parts, " · ")
	}
	return fmt.Sprintf("%s %s", m.columnDate(m.cursor.Col).Format("Mon Jan 2"), m.axis.Label(m.cursor.Row))
}

func (m Model) renderHelp() string {
	return "hjkl move · [ ] range · t today · v view · n new · enter open · J/K/H/L shift · +/- resize · u users · T theme · q quit"
}

func (m Model) renderModal() string {
	frame := m.styles.ModalFrameStyles()
	set := m.styles.ModalStyleSet()

	switch m.modalType {
	case ModalActivityForm:
		if m.form == nil {
			return ""
		}
		body := view.RenderActivityFormBody(m.form.Model(), set.ActivityFormStyles())
		return view.RenderModalFrame(m.form.Title(), body, view.ActivityFormFooter(frame), frame)

	case ModalActivityDetail:
		if m.modalAct == nil {
			return ""
		}
		body := view.RenderActivityDetailBody(view.NewActivityDetailModel(m.modalAct), set.ActivityDetailStyles())
		return view.RenderModalFrame("Activity", body, view.ActivityDetailFooter(frame), frame)

	case ModalUserFilter:
		body := view.RenderUserFilterBody(m.userFilterModel(), set.UserFilterStyles())
		return view.RenderModalFrame("Responsible users", body, view.UserFilterFooter(frame), frame)

	case ModalSessionExpired:
		body := m.styles.ModalBodyStyle.Render(" Your session has expired. Run `hawkeye login` and restart.")
		return view.RenderModalFrame("Session expired", body, view.SessionExpiredFooter(frame), frame)
	}
	return ""
}
