package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW      int
	FooterH     int
	FilterText  string
	StatusText  string
	HelpText    string
	FooterStyle lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	VAlign      lipgloss.Position
	Bg          lipgloss.Color
}

// FooterHeight is the number of lines RenderFooter draws.
const FooterHeight = 3

// RenderFooter renders the filter, status and help lines.
func RenderFooter(model FooterModel) string {
	if model.FooterH <= 0 {
		return ""
	}

	s := footerLine(model.InnerW, model.FooterStyle, model.FilterText) + "\n"
	s += footerLine(model.InnerW, model.StatusStyle, model.StatusText) + "\n"
	s += footerLine(model.InnerW, model.HelpStyle, model.HelpText)

	return PlaceBox(model.InnerW, model.FooterH, model.VAlign, s, model.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := max(0, width-frameW)
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
