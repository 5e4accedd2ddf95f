package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// GridHeaderLines is the number of lines drawn above the first time row.
const GridHeaderLines = 2

// Segment is a styled run of text inside a grid cell.
type Segment struct {
	Text  string
	Width int
	Style lipgloss.Style
}

// GridRow is one rendered time row.
type GridRow struct {
	Label string      // time label, empty between hours
	Cells [][]Segment // one entry per day column
}

// GridModel holds the pre-computed content of the calendar grid.
type GridModel struct {
	Geometry     Geometry
	Headers      []string
	HeaderStyles []lipgloss.Style
	Rows         []GridRow
	LabelStyle   lipgloss.Style
	BorderStyle  lipgloss.Style
	FillStyle    lipgloss.Style
}

// Geometry locates grid cells on screen. Top is the screen line of the
// header; time rows start GridHeaderLines below it.
type Geometry struct {
	Left    int
	Top     int
	TimeW   int
	ColW    int
	Columns int
	Rows    int // visible time rows
	Scroll  int // first visible axis row
}

// ColumnLeft returns the screen x of the first cell of column col.
func (g Geometry) ColumnLeft(col int) int {
	return g.Left + g.TimeW + 1 + col*(g.ColW+1)
}

// RowTop returns the screen y of axis row row.
func (g Geometry) RowTop(row int) int {
	return g.Top + GridHeaderLines + row - g.Scroll
}

// CellAt maps a screen position to a day column, an axis row and the x
// offset inside the column. Separators and the time column are not cells.
func (g Geometry) CellAt(x, y int) (col, row, offset int, ok bool) {
	if g.ColW <= 0 || g.Columns <= 0 {
		return 0, 0, 0, false
	}
	line := y - g.Top - GridHeaderLines
	if line < 0 || line >= g.Rows {
		return 0, 0, 0, false
	}
	rel := x - g.ColumnLeft(0)
	if rel < 0 {
		return 0, 0, 0, false
	}
	col = rel / (g.ColW + 1)
	offset = rel % (g.ColW + 1)
	if col >= g.Columns || offset >= g.ColW {
		return 0, 0, 0, false
	}
	return col, line + g.Scroll, offset, true
}

// Width returns the total width of the grid.
func (g Geometry) Width() int {
	return g.TimeW + g.Columns*(g.ColW+1)
}

// RenderGrid draws the day headers, a rule and the visible time rows.
func RenderGrid(m GridModel) string {
	g := m.Geometry
	sep := m.BorderStyle.Render("│")

	var b strings.Builder
	b.WriteString(fit(m.LabelStyle, "", g.TimeW))
	for i, h := range m.Headers {
		style := m.LabelStyle
		if i < len(m.HeaderStyles) {
			style = m.HeaderStyles[i]
		}
		b.WriteString(sep)
		b.WriteString(fit(style, h, g.ColW))
	}
	b.WriteString("\n")

	b.WriteString(m.BorderStyle.Render(strings.Repeat("─", g.TimeW)))
	for range m.Headers {
		b.WriteString(m.BorderStyle.Render("┼" + strings.Repeat("─", g.ColW)))
	}

	for _, row := range m.Rows {
		b.WriteString("\n")
		b.WriteString(fit(m.LabelStyle, row.Label, g.TimeW))
		for _, cell := range row.Cells {
			b.WriteString(sep)
			b.WriteString(renderCell(cell, g.ColW, m.FillStyle))
		}
	}
	return b.String()
}

func renderCell(segs []Segment, width int, fill lipgloss.Style) string {
	var b strings.Builder
	used := 0
	for _, s := range segs {
		w := min(s.Width, width-used)
		if w <= 0 {
			break
		}
		b.WriteString(fit(s.Style, s.Text, w))
		used += w
	}
	if used < width {
		b.WriteString(fill.Render(strings.Repeat(" ", width-used)))
	}
	return b.String()
}

// fit renders text in style, truncated or padded to exactly w cells.
func fit(style lipgloss.Style, text string, w int) string {
	if w <= 0 {
		return ""
	}
	text = ansi.Truncate(text, w, "…")
	if pad := w - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return style.Render(text)
}
