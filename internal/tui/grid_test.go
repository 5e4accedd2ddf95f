package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
)

func TestBlockText(t *testing.T) {
	a := visit(monday.Add(9*time.Hour), time.Hour, 3)
	a.ClientName = "Marta Ruiz"
	s := calendar.Slot{Activity: a, StartRow: 12, EndRow: 16}

	tests := []struct {
		row  int
		want string
	}{
		{12, "09:00 Visit"},
		{13, "Marta Ruiz"},
		{14, "User #3"},
		{15, ""},
	}
	for _, tt := range tests {
		if got := blockText(s, tt.row); got != tt.want {
			t.Errorf("blockText(row %d) = %q, want %q", tt.row, got, tt.want)
		}
	}

	done := visit(monday.Add(9*time.Hour), time.Hour, 3)
	done.Status = activity.StatusDone
	done.Responsible = &activity.User{ID: 3, FirstName: "Ana"}
	s = calendar.Slot{Activity: done, StartRow: 12, EndRow: 16}
	if got := blockText(s, 12); got != "✓ 09:00 Visit" {
		t.Errorf("done label = %q", got)
	}
	if got := blockText(s, 13); got != "Ana" {
		t.Errorf("subjectless second row = %q, want responsible", got)
	}
	if got := blockText(s, 14); got != "" {
		t.Errorf("third row = %q, want empty", got)
	}
}

func TestSlotAt_SideBySide(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	m, stored := seed(t, m, repo, nil,
		visit(monday.Add(9*time.Hour), time.Hour, 1),
		visit(monday.Add(9*time.Hour), time.Hour, 2),
	)

	half := m.colWidth / 2
	left, ok := m.slotAt(0, 13, 0)
	if !ok || left.Activity.ID != stored[0].ID {
		t.Errorf("left slot = %+v, %v", left, ok)
	}
	right, ok := m.slotAt(0, 13, m.colWidth-1)
	if !ok || right.Activity.ID != stored[1].ID {
		t.Errorf("right slot = %+v, %v", right, ok)
	}
	if s, _ := m.slotAt(0, 13, half); s.Activity.ID != stored[1].ID {
		t.Errorf("slot at %d = #%d", half, s.Activity.ID)
	}
	if _, ok := m.slotAt(0, 16, 0); ok {
		t.Error("row past the end should be empty")
	}
	if _, ok := m.slotAt(1, 13, 0); ok {
		t.Error("other day should be empty")
	}
}

func TestStatusCountsStackedSlots(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	acts := make([]*activity.Activity, 0, 8)
	for i := range 8 {
		acts = append(acts, visit(monday.Add(9*time.Hour), time.Hour, int64(i+1)))
	}
	m, _ = seed(t, m, repo, nil, acts...)
	m.statusMsg = ""

	m.cursor = Position{Col: 0, Row: 13}
	if got := m.statusMsgOrDefault(); !strings.HasSuffix(got, "+2 stacked") {
		t.Errorf("status = %q, want +2 stacked", got)
	}

	m.cursor = Position{Col: 0, Row: 20}
	if got := m.statusMsgOrDefault(); strings.Contains(got, "stacked") {
		t.Errorf("empty cell status = %q", got)
	}
}

func TestCellSegments_FillColumn(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	m, _ = seed(t, m, repo, nil,
		visit(monday.Add(9*time.Hour), time.Hour, 1),
		visit(monday.Add(9*time.Hour+30*time.Minute), time.Hour, 2),
	)

	for _, row := range []int{12, 14, 17, 20} {
		segs := m.cellSegments(0, row, lipgloss.NewStyle(), " ", 0)
		width := 0
		for _, s := range segs {
			width += s.Width
		}
		if width != m.colWidth {
			t.Errorf("row %d: segments cover %d, want %d", row, width, m.colWidth)
		}
	}
}

func TestDayCountsAndColumnOf(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	m, _ = seed(t, m, repo, nil,
		visit(monday.Add(9*time.Hour), time.Hour, 1),
		visit(monday.Add(12*time.Hour), time.Hour, 1),
		visit(monday.AddDate(0, 0, 4).Add(9*time.Hour), time.Hour, 1),
	)

	counts := m.dayCounts()
	if counts[0] != 2 || counts[4] != 1 || counts[1] != 0 {
		t.Errorf("counts = %v", counts)
	}
	if got := m.columnOf(monday.AddDate(0, 0, 3).Add(time.Hour)); got != 3 {
		t.Errorf("columnOf(thursday) = %d", got)
	}
	if got := m.columnOf(monday.AddDate(0, 0, 7)); got != -1 {
		t.Errorf("columnOf(next monday) = %d", got)
	}
}

func TestUserFilterSummary(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))
	m.directory = []activity.User{{ID: 1, Username: "ana"}, {ID: 2, FirstName: "Bo", LastName: "Lind"}, {ID: 3, Username: "cy"}}

	tests := []struct {
		filter map[int64]bool
		want   string
	}{
		{nil, "All users"},
		{map[int64]bool{}, "No users"},
		{map[int64]bool{2: true}, "Bo Lind"},
		{map[int64]bool{1: true, 3: true}, "2 selected"},
	}
	for _, tt := range tests {
		m.userFilter = tt.filter
		if got := m.userFilterSummary(); got != tt.want {
			t.Errorf("summary(%v) = %q, want %q", tt.filter, got, tt.want)
		}
	}
}

func TestToggleUserSelectingAllClearsFilter(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))
	m.directory = []activity.User{{ID: 1, Username: "ana"}, {ID: 2, Username: "bo"}}

	m.toggleUser()
	if len(m.userFilter) != 1 || !m.userFilter[2] {
		t.Fatalf("filter = %v", m.userFilter)
	}
	m.toggleUser()
	if m.userFilter != nil {
		t.Errorf("filter = %v, want nil", m.userFilter)
	}
}

func TestOverlayModel(t *testing.T) {
	o := NewOverlayModel(lipgloss.Color("#101010"))
	base := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 20)+"\n", 6), "\n")

	if got := o.Render(base, 20, 6, "hi"); got != base {
		t.Error("inactive overlay should return base")
	}

	o.SetActive(true)
	if !o.Active() {
		t.Fatal("expected active overlay")
	}
	if got := o.Render(base, 20, 6, ""); got != base {
		t.Error("empty content should return base")
	}

	out := ansi.Strip(o.Render(base, 20, 6, "hi"))
	if !strings.Contains(out, "hi") || !strings.Contains(out, "....") {
		t.Errorf("overlay = %q", out)
	}
	if lines := strings.Split(out, "\n"); len(lines) != 6 {
		t.Errorf("lines = %d, want 6", len(lines))
	}
}
