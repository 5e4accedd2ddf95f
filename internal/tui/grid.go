package tui

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

// visibleActivities returns the loaded activities of the visible range that
// pass the user filter.
func (m Model) visibleActivities() []*activity.Activity {
	f := m.rangeFilter()
	if m.userFilter != nil {
		if len(m.userFilter) == 0 {
			return nil
		}
		for id := range m.userFilter {
			f.UserIDs = append(f.UserIDs, id)
		}
	}
	return f.Apply(m.activities)
}

// relayout recomputes the slots of the visible range.
func (m *Model) relayout() {
	acts := m.visibleActivities()
	if m.viewKind == ViewDay {
		m.slots = m.layout.Day(acts)
		return
	}
	m.slots = m.layout.Week(acts)
}

// replaceActivity swaps the cached copy of a by ID, appending it when new.
func (m *Model) replaceActivity(a *activity.Activity) {
	if a == nil {
		return
	}
	next := slices.Clone(m.activities)
	i := slices.IndexFunc(next, func(x *activity.Activity) bool { return x.ID == a.ID })
	if i >= 0 {
		next[i] = a
	} else {
		next = append(next, a)
	}
	slices.SortStableFunc(next, func(x, y *activity.Activity) int {
		return x.StartAt.Compare(y.StartAt)
	})
	m.activities = next
	m.relayout()
}

// geometry returns the screen geometry of the grid.
func (m Model) geometry() view.Geometry {
	return view.Geometry{
		Left:    0,
		Top:     titleLines,
		TimeW:   timeColumnWidth,
		ColW:    m.colWidth,
		Columns: m.days(),
		Rows:    m.visibleRows(),
		Scroll:  m.scroll,
	}
}

// slotAt returns the slot drawn at column col, axis row row and x offset
// inside the column.
func (m Model) slotAt(col, row, offset int) (calendar.Slot, bool) {
	for _, s := range m.slots {
		if s.Column != col || row < s.StartRow || row >= s.EndRow {
			continue
		}
		left, width := m.blockSpan(s)
		if offset >= left && offset < left+width {
			return s, true
		}
	}
	return calendar.Slot{}, false
}

// blockSpan returns the x offset and width of s inside its day column. The
// last side-by-side column takes the remainder of the division.
func (m Model) blockSpan(s calendar.Slot) (left, width int) {
	left, width = m.layout.Span(s, 0, m.colWidth)
	if left+2*width > m.colWidth {
		width = m.colWidth - left
	}
	return left, width
}

// slotsAt returns the slots covering a cell, earliest first.
func (m Model) slotsAt(col, row int) []calendar.Slot {
	var out []calendar.Slot
	for _, s := range m.slots {
		if s.Column == col && row >= s.StartRow && row < s.EndRow {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b calendar.Slot) int { return a.Index - b.Index })
	return out
}

// activityAtCursor returns the first activity under the keyboard cursor.
func (m Model) activityAtCursor() *activity.Activity {
	slots := m.slotsAt(m.cursor.Col, m.cursor.Row)
	if len(slots) == 0 {
		return nil
	}
	return slots[0].Activity
}

// dayCounts returns the number of visible activities per column.
func (m Model) dayCounts() []int {
	counts := make([]int, m.days())
	for _, s := range m.slots {
		if s.Column >= 0 && s.Column < len(counts) {
			counts[s.Column]++
		}
	}
	return counts
}

// blockText returns the text of row within a block.
func blockText(s calendar.Slot, row int) string {
	a := s.Activity
	switch row - s.StartRow {
	case 0:
		label := activity.ClockOf(a.StartAt) + " " + a.Kind.Label()
		if a.IsDone() {
			label = "✓ " + label
		}
		return label
	case 1:
		if subj := view.Subject(a); subj != "" {
			return subj
		}
		return view.Responsible(a)
	case 2:
		if view.Subject(a) != "" {
			return view.Responsible(a)
		}
	}
	return ""
}

// gridModel builds the render model of the visible grid.
func (m Model) gridModel() view.GridModel {
	g := m.geometry()
	now := m.now().In(m.loc)

	headers, todayCol := view.DayHeaders(m.firstDay(), m.days(), now, m.dayCounts())
	headerStyles := make([]lipgloss.Style, len(headers))
	for i := range headers {
		headerStyles[i] = m.styles.DayHeaderStyle
		if i == todayCol {
			headerStyles[i] = m.styles.DayHeaderTodayStyle
		}
	}

	sel, selecting := m.gestures.Selection()
	nowRow := -1
	if todayCol >= 0 {
		nowRow = m.axis.RowAt(now)
	}
	var target int64
	if t := m.gestures.Target(); t != nil {
		target = t.ID
	}

	rows := make([]view.GridRow, 0, g.Rows)
	for r := g.Scroll; r < g.Scroll+g.Rows; r++ {
		row := view.GridRow{Cells: make([][]view.Segment, g.Columns)}
		if m.axis.RowMinutes(r)%60 == 0 {
			row.Label = " " + m.axis.Label(r)
		}
		for c := range g.Columns {
			empty := m.styles.EmptyCellStyle
			fill := " "
			switch {
			case selecting && sel.Contains(c, r):
				empty = m.styles.SelectionStyle
			case m.mode == ModeNormal && c == m.cursor.Col && r == m.cursor.Row:
				empty = m.styles.CursorStyle
			case c == todayCol && r == nowRow:
				empty = m.styles.NowStyle
				fill = "─"
			case m.axis.RowMinutes(r)%60 == 0:
				empty = m.styles.HourCellStyle
			}
			row.Cells[c] = m.cellSegments(c, r, empty, fill, target)
		}
		rows = append(rows, row)
	}

	return view.GridModel{
		Geometry:     g,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Rows:         rows,
		LabelStyle:   m.styles.TimeColumnStyle,
		BorderStyle:  m.styles.BorderStyle,
		FillStyle:    m.styles.EmptyCellStyle,
	}
}

// cellSegments lays out the blocks covering a cell side by side and fills
// the gaps with the empty style.
func (m Model) cellSegments(col, row int, empty lipgloss.Style, fill string, target int64) []view.Segment {
	slots := m.slotsAt(col, row)
	if len(slots) == 0 {
		return []view.Segment{{Text: strings.Repeat(fill, m.colWidth), Width: m.colWidth, Style: empty}}
	}

	type span struct {
		left, width int
		slot        calendar.Slot
	}
	spans := make([]span, 0, len(slots))
	for _, s := range slots {
		left, width := m.blockSpan(s)
		spans = append(spans, span{left: left, width: width, slot: s})
	}
	slices.SortStableFunc(spans, func(a, b span) int { return a.left - b.left })

	segs := make([]view.Segment, 0, 2*len(spans)+1)
	pos := 0
	for i, sp := range spans {
		if sp.left < pos {
			continue
		}
		if sp.left > pos {
			segs = append(segs, view.Segment{Text: strings.Repeat(fill, sp.left-pos), Width: sp.left - pos, Style: empty})
		}
		width := sp.width
		style := m.styles.Block(sp.slot.Activity, sp.slot.Index%2 == 1)
		cursorHere := m.mode == ModeNormal && col == m.cursor.Col && row == m.cursor.Row && i == 0
		if cursorHere || sp.slot.Activity.ID == target {
			style = style.Reverse(true)
		}
		segs = append(segs, view.Segment{Text: blockText(sp.slot, row), Width: width, Style: style})
		pos = sp.left + width
	}
	if pos < m.colWidth {
		segs = append(segs, view.Segment{Text: strings.Repeat(fill, m.colWidth-pos), Width: m.colWidth - pos, Style: empty})
	}
	return segs
}

// columnOf returns the grid column of t, or -1 when it is not visible.
func (m Model) columnOf(t time.Time) int {
	first := m.firstDay()
	for c := range m.days() {
		if dateutil.SameDay(first.AddDate(0, 0, c), t) {
			return c
		}
	}
	return -1
}
