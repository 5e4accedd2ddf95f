package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/tui/theme"
	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Title style
	TitleStyle lipgloss.Style

	// Header styles
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style

	// Grid
	TimeColumnStyle lipgloss.Style
	BorderStyle     lipgloss.Style
	EmptyCellStyle  lipgloss.Style
	HourCellStyle   lipgloss.Style // empty cell on a full hour
	CursorStyle     lipgloss.Style
	SelectionStyle  lipgloss.Style
	NowStyle        lipgloss.Style

	// Footer
	FooterStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalSectionTitleStyle lipgloss.Style
	ModalTagStyle          lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalHintStyle         lipgloss.Style
	ModalErrorStyle        lipgloss.Style
	OptionActiveStyle      lipgloss.Style
	OptionInactiveStyle    lipgloss.Style

	// App container
	AppStyle lipgloss.Style
	Bg       lipgloss.Color
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p, Bg: p.Bg}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.Bg)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.Bg)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(p.Accent)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	s.BorderStyle = lipgloss.NewStyle().
		Foreground(p.BgSelection).
		Background(p.Bg)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	s.HourCellStyle = lipgloss.NewStyle().
		Foreground(p.BgSelection).
		Background(p.BgHighlight)

	s.CursorStyle = lipgloss.NewStyle().
		Background(p.BgSelection).
		Foreground(p.Accent).
		Bold(true)

	s.SelectionStyle = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextOnAccent).
		Bold(true)

	s.NowStyle = lipgloss.NewStyle().
		Foreground(p.Current).
		Background(p.Bg)

	s.FooterStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.Bg).
		Bold(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Background(p.Bg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.Bg)

	modal := p.Modal
	s.ModalBgColor = modal.Bg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 1).
		Width(72).
		Align(lipgloss.Left)

	s.ModalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg).
		Padding(0, 1)

	s.ModalFooterStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(modal.Bg)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalSectionTitleStyle = lipgloss.NewStyle().
		Foreground(modal.Highlight).
		Bold(true).
		Background(modal.Bg)

	s.ModalTagStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel).
		Bold(true).
		Padding(0, 1)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(modal.Highlight).
		Background(modal.Bg)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Panel).
		Padding(0, 1)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Foreground(modal.ReverseText).
		Background(modal.Highlight).
		Bold(true).
		Padding(0, 1)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg).
		Italic(true)

	s.ModalErrorStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Background(modal.Bg).
		Bold(true)

	s.OptionActiveStyle = lipgloss.NewStyle().
		Foreground(modal.ReverseText).
		Background(modal.Highlight).
		Bold(true).
		Padding(0, 1)

	s.OptionInactiveStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg).
		Padding(0, 1)

	s.AppStyle = lipgloss.NewStyle().
		Background(p.Bg)

	return s
}

// Block returns the style of an activity block.
func (s *Styles) Block(a *activity.Activity, alt bool) lipgloss.Style {
	shades := s.palette.Kind(a.Kind)
	bg := shades.Bg
	switch {
	case a.IsDone():
		bg = shades.DoneBg
	case alt:
		bg = shades.BgAlt
	}
	style := lipgloss.NewStyle().Background(bg).Foreground(shades.Text)
	if !a.IsDone() {
		style = style.Bold(true)
	}
	return style
}

// ModalFrameStyles returns the styles used by view.RenderModalFrame.
func (s *Styles) ModalFrameStyles() view.ModalStyles {
	return view.ModalStyles{
		ModalHeaderStyle:       s.ModalHeaderStyle,
		ModalTitleStyle:        s.ModalTitleStyle,
		ModalFooterStyle:       s.ModalFooterStyle,
		ModalStyle:             s.ModalStyle,
		ModalButtonStyle:       s.ModalButtonStyle,
		ModalButtonActiveStyle: s.ModalButtonActiveStyle,
		ModalBodyStyle:         s.ModalBodyStyle,
	}
}

// ModalStyleSet returns the styles used by the modal bodies.
func (s *Styles) ModalStyleSet() view.ModalStyleSet {
	return view.ModalStyleSet{
		BodyStyle:           s.ModalBodyStyle,
		MetaStyle:           s.ModalMetaStyle,
		SectionTitleStyle:   s.ModalSectionTitleStyle,
		TagStyle:            s.ModalTagStyle,
		LabelStyle:          s.ModalLabelStyle,
		HintStyle:           s.ModalHintStyle,
		ErrorStyle:          s.ModalErrorStyle,
		OptionActiveStyle:   s.OptionActiveStyle,
		OptionInactiveStyle: s.OptionInactiveStyle,
	}
}
