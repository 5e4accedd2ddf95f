package calendar

import (
	"slices"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

// MaxColumns is the default cap on side-by-side columns within a day.
const MaxColumns = 6

// Slot is the derived position of one activity in the grid.
type Slot struct {
	Activity *activity.Activity
	Column   int // day column, Monday = 0 in week view, always 0 in day view
	Total    int // overlapping activities, capped
	Index    int // position within the overlap, 0 = earliest start
	StartRow int
	EndRow   int // exclusive
}

// Rows returns the number of rows the slot spans.
func (s Slot) Rows() int {
	return s.EndRow - s.StartRow
}

// Layout assigns side-by-side slots to overlapping activities.
// It keeps no state: every call recomputes from the given activities.
type Layout struct {
	axis       Axis
	maxColumns int
}

// NewLayout creates a layout over axis. maxColumns <= 0 uses MaxColumns.
func NewLayout(axis Axis, maxColumns int) Layout {
	if maxColumns <= 0 {
		maxColumns = MaxColumns
	}
	return Layout{axis: axis, maxColumns: maxColumns}
}

// MaxColumns returns the column cap.
func (l Layout) MaxColumns() int {
	return l.maxColumns
}

// Day lays out a single day: occupancy is keyed by row only.
func (l Layout) Day(acts []*activity.Activity) []Slot {
	return l.compute(acts, func(*activity.Activity) int { return 0 })
}

// Week lays out a Monday-based week: occupancy is keyed by (column, row).
func (l Layout) Week(acts []*activity.Activity) []Slot {
	return l.compute(acts, func(a *activity.Activity) int {
		return dateutil.WeekdayIndex(a.StartAt)
	})
}

type cell struct {
	column int
	row    int
}

func (l Layout) compute(acts []*activity.Activity, columnOf func(*activity.Activity) int) []Slot {
	slots := make([]Slot, len(acts))
	occupied := make(map[cell][]int)

	for i, a := range acts {
		start, end := l.axis.TimeRangeToRows(a.StartAt, a.EndAt)
		slots[i] = Slot{Activity: a, Column: columnOf(a), StartRow: start, EndRow: end}
		for r := start; r < end; r++ {
			k := cell{column: slots[i].Column, row: r}
			occupied[k] = append(occupied[k], i)
		}
	}

	for i := range slots {
		s := &slots[i]

		total := 1
		for r := s.StartRow; r < s.EndRow; r++ {
			total = max(total, len(occupied[cell{column: s.Column, row: r}]))
		}
		s.Total = min(total, l.maxColumns)

		sharing := slices.Clone(occupied[cell{column: s.Column, row: s.StartRow}])
		slices.SortStableFunc(sharing, func(x, y int) int {
			return acts[x].StartAt.Compare(acts[y].StartAt)
		})
		s.Index = max(0, slices.Index(sharing, i))
	}
	return slots
}

// Span returns the horizontal position of a slot inside a day column that
// starts at base and is available units wide. Indexes past the cap share the
// last column.
func (l Layout) Span(s Slot, base, available int) (left, width int) {
	cols := max(1, min(s.Total, l.maxColumns))
	width = available / cols
	idx := min(s.Index, cols-1)
	return base + idx*width, width
}
