package tui

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/tui/commands"
)

func TestKeys_NavigationWrapsWeeks(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))

	m.cursor.Col = 6
	m, cmd := updateCmd(t, m, key("l"))
	if !m.weekStart.Equal(monday.AddDate(0, 0, 7)) || m.cursor.Col != 0 {
		t.Errorf("weekStart = %v, col = %d", m.weekStart, m.cursor.Col)
	}
	if cmd == nil || !m.loading {
		t.Error("expected a range reload")
	}

	m = update(t, m, key("h"))
	if !m.weekStart.Equal(monday) || m.cursor.Col != 6 {
		t.Errorf("weekStart = %v, col = %d", m.weekStart, m.cursor.Col)
	}

	m = update(t, m, key("]"))
	m = update(t, m, key("t"))
	if !m.weekStart.Equal(monday) || m.cursor.Col != 2 || m.cursor.Row != 18 {
		t.Errorf("today: weekStart = %v, cursor = %+v", m.weekStart, m.cursor)
	}
}

func TestKeys_RowsClampToAxis(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))

	m.cursor.Row = 0
	m = update(t, m, key("k"))
	if m.cursor.Row != 0 {
		t.Errorf("row = %d, want 0", m.cursor.Row)
	}

	for range 100 {
		m = update(t, m, key("j"))
	}
	if last := m.axis.Rows() - 1; m.cursor.Row != last {
		t.Errorf("row = %d, want %d", m.cursor.Row, last)
	}
	if m.cursor.Row < m.scroll || m.cursor.Row >= m.scroll+m.visibleRows() {
		t.Errorf("cursor row %d outside viewport at %d", m.cursor.Row, m.scroll)
	}
}

func TestKeys_ToggleView(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))

	m = update(t, m, key("v"))
	if m.viewKind != ViewDay || m.cursor.Col != 0 {
		t.Fatalf("view = %v, col = %d", m.viewKind, m.cursor.Col)
	}
	if got := m.day.Format("2006-01-02"); got != "2025-03-12" {
		t.Errorf("day = %s", got)
	}
	if m.colWidth != testWidth-timeColumnWidth-1 {
		t.Errorf("colWidth = %d", m.colWidth)
	}

	m = update(t, m, key("l"))
	if got := m.day.Format("2006-01-02"); got != "2025-03-13" {
		t.Errorf("next day = %s", got)
	}

	m = update(t, m, key("v"))
	if m.viewKind != ViewWeek || m.cursor.Col != 3 || m.colWidth != testColW {
		t.Errorf("view = %v, col = %d, colWidth = %d", m.viewKind, m.cursor.Col, m.colWidth)
	}
}

func TestKeys_MoveActivity(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	m, stored := seed(t, m, repo, nil, visit(monday.Add(9*time.Hour), time.Hour, 1))
	id := stored[0].ID

	m.cursor = Position{Col: 0, Row: 12}
	// Writes without supersede race, so each one is awaited.
	m = update(t, m, key("J"))
	m.persister.Wait()
	m = update(t, m, key("L"))

	a := m.findActivity(id)
	want := monday.AddDate(0, 0, 1).Add(9*time.Hour + 15*time.Minute)
	if !a.StartAt.Equal(want) || a.Duration() != time.Hour {
		t.Errorf("moved = %v (%v), want %v", a.StartAt, a.Duration(), want)
	}
	if m.cursor != (Position{Col: 1, Row: 13}) {
		t.Errorf("cursor = %+v", m.cursor)
	}
	if !strings.Contains(m.statusMsg, "Tue Mar 11") {
		t.Errorf("status = %q", m.statusMsg)
	}

	m.persister.Wait()
	got, err := repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.StartAt.Equal(want) {
		t.Errorf("stored start = %v, want %v", got.StartAt, want)
	}
}

func TestKeys_MoveOutOfWeekFollows(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	m, _ = seed(t, m, repo, nil, visit(monday.Add(9*time.Hour), time.Hour, 1))

	m.cursor = Position{Col: 0, Row: 12}
	m, cmd := updateCmd(t, m, key("H"))

	if !m.weekStart.Equal(monday.AddDate(0, 0, -7)) {
		t.Errorf("weekStart = %v, want previous week", m.weekStart)
	}
	if m.cursor.Col != 6 || !m.loading || cmd == nil {
		t.Errorf("col = %d, loading = %v", m.cursor.Col, m.loading)
	}
}

func TestKeys_ResizeActivity(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	m, stored := seed(t, m, repo, nil,
		visit(monday.Add(9*time.Hour), time.Hour, 1),
		visit(monday.AddDate(0, 0, 1).Add(9*time.Hour), 15*time.Minute, 1),
	)

	m.cursor = Position{Col: 0, Row: 12}
	for _, k := range []string{"-", "+", "+"} {
		m = update(t, m, key(k))
		m.persister.Wait()
	}
	if a := m.findActivity(stored[0].ID); !a.EndAt.Equal(monday.Add(10*time.Hour + 15*time.Minute)) {
		t.Errorf("end = %v", a.EndAt)
	}

	// One interval is the minimum.
	m.cursor = Position{Col: 1, Row: 12}
	m = update(t, m, key("-"))
	if a := m.findActivity(stored[1].ID); a.Duration() != 15*time.Minute {
		t.Errorf("duration = %v, want 15m", a.Duration())
	}

	m.persister.Wait()
	got, err := repo.Get(context.Background(), stored[0].ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.EndAt.Equal(monday.Add(10*time.Hour + 15*time.Minute)) {
		t.Errorf("stored end = %v", got.EndAt)
	}
}

func TestKeys_StepWithoutActivityIsNoop(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))

	m.cursor = Position{Col: 3, Row: 3}
	m, cmd := updateCmd(t, m, key("J"))
	if cmd != nil || m.cursor.Row != 3 {
		t.Errorf("cmd = %v, row = %d", cmd, m.cursor.Row)
	}
}

func TestKeys_CreateFromSelection(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)

	m.cursor = Position{Col: 2, Row: 16}
	m = update(t, m, key("enter"))
	if m.form == nil || m.form.start != 10*60 || m.form.end != 10*60+15 {
		t.Fatalf("form = %+v", m.form)
	}

	for range fieldNotes {
		m = update(t, m, key("tab"))
	}
	if m.form.focus != fieldNotes {
		t.Fatalf("focus = %d, want notes", m.form.focus)
	}
	for _, r := range "hjkl" {
		m = update(t, m, key(string(r)))
	}
	if m.form.notes.Value() != "hjkl" {
		t.Fatalf("notes = %q", m.form.notes.Value())
	}

	m, cmd := updateCmd(t, m, key("enter"))
	if cmd == nil || !m.form.pending {
		t.Fatal("expected a save command")
	}
	if got := m.form.Model().Error; got != "Saving..." {
		t.Errorf("Error = %q", got)
	}

	saved, ok := cmd().(commands.FormSavedMsg)
	if !ok || !saved.Created {
		t.Fatalf("msg = %#v", saved)
	}
	m, cmd = updateCmd(t, m, saved)
	if m.mode != ModeNormal || m.form != nil {
		t.Errorf("mode = %v, form = %v", m.mode, m.form)
	}
	if cmd == nil {
		t.Error("expected a reload")
	}
	if m.statusMsg != "Created Visit on Wed Mar 12 10:00" {
		t.Errorf("status = %q", m.statusMsg)
	}
	a := m.findActivity(saved.Activity.ID)
	if a == nil || a.EmployeeDescription != "hjkl" {
		t.Fatalf("activity = %+v", a)
	}

	got, err := repo.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ResponsibleUserID != 1 {
		t.Errorf("responsible = %d", got.ResponsibleUserID)
	}
}

func TestKeys_FormRequiresResponsible(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))
	m.currentUserID = 0

	m = update(t, m, key("n"))
	m, cmd := updateCmd(t, m, key("enter"))

	if cmd != nil {
		t.Error("invalid form must not be submitted")
	}
	if m.form.errors[fieldResponsible] != activity.ErrMissingResponsible.Error() {
		t.Errorf("errors = %v", m.form.errors)
	}
	if m.modalType != ModalActivityForm {
		t.Errorf("modal = %v", m.modalType)
	}

	m = update(t, m, key("esc"))
	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
}

func TestKeys_FormCancelReloads(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	m, _ = seed(t, m, repo, nil)

	m = update(t, m, key("n"))
	// Stored while the form is open, e.g. by a sync.
	if _, err := repo.Create(context.Background(), visit(monday.Add(9*time.Hour), time.Hour, 1)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m, cmd := updateCmd(t, m, key("esc"))
	if m.mode != ModeNormal || m.form != nil {
		t.Fatalf("mode = %v, form = %v", m.mode, m.form)
	}
	if cmd == nil || !m.loading {
		t.Fatalf("cancel must reload, loading = %v", m.loading)
	}
	loaded, ok := cmd().(commands.RangeLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want RangeLoadedMsg", cmd())
	}
	if len(loaded.Activities) != 1 {
		t.Errorf("loaded %d activities, want 1", len(loaded.Activities))
	}
}

func TestKeys_FormErrorFromStore(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))
	m = update(t, m, key("n"))
	m.form.pending = true

	m = update(t, m, commands.FormErrorMsg{Err: &activity.ValidationError{Fields: map[string]error{
		"End": activity.ErrDurationTooShort,
	}}})

	if m.form.pending {
		t.Error("pending not cleared")
	}
	if m.form.errors[fieldEnd] == "" {
		t.Errorf("errors = %v", m.form.errors)
	}
}

func TestKeys_DetailAndEdit(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	m, stored := seed(t, m, repo, nil, visit(monday.Add(9*time.Hour), time.Hour, 1))

	m.cursor = Position{Col: 0, Row: 13}
	m = update(t, m, key("enter"))
	if m.modalType != ModalActivityDetail {
		t.Fatalf("modal = %v", m.modalType)
	}

	m = update(t, m, key("e"))
	if m.modalType != ModalActivityForm || m.form == nil || m.form.editing == nil {
		t.Fatalf("modal = %v", m.modalType)
	}
	if m.form.editing.ID != stored[0].ID || m.form.Title() != "Edit activity" {
		t.Errorf("editing = %+v", m.form.editing)
	}
}

func TestKeys_ToggleTheme(t *testing.T) {
	m, _ := newTestModel(t, newRepo(t))

	m, cmd := updateCmd(t, m, key("T"))
	if m.theme.Name != "light" || m.config.UI.Theme != "light" {
		t.Fatalf("theme = %q, config = %q", m.theme.Name, m.config.UI.Theme)
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	saved, ok := cmd().(commands.ThemeSavedMsg)
	if !ok || saved.Name != "light" {
		t.Fatalf("msg = %#v", saved)
	}
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "light") {
		t.Errorf("config = %s", data)
	}

	m = update(t, m, saved)
	if m.statusMsg != "Theme: light" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestKeys_UserFilter(t *testing.T) {
	repo := newRepo(t)
	m, _ := newTestModel(t, repo)
	users := []activity.User{{ID: 1, Username: "ana"}, {ID: 2, Username: "bo"}}
	m, _ = seed(t, m, repo, users,
		visit(monday.Add(9*time.Hour), time.Hour, 1),
		visit(monday.Add(11*time.Hour), time.Hour, 2),
	)

	m = update(t, m, key("u"))
	if m.modalType != ModalUserFilter {
		t.Fatalf("modal = %v", m.modalType)
	}

	m = update(t, m, key(" "))
	if len(m.slots) != 1 || m.slots[0].Activity.ResponsibleUserID != 2 {
		t.Errorf("slots = %d", len(m.slots))
	}
	if got := m.userFilterSummary(); got != "bo" {
		t.Errorf("summary = %q", got)
	}

	m = update(t, m, key("n"))
	if len(m.slots) != 0 || m.userFilterSummary() != "No users" {
		t.Errorf("slots = %d, summary = %q", len(m.slots), m.userFilterSummary())
	}

	m = update(t, m, key("j"))
	m = update(t, m, key("x"))
	if len(m.slots) != 1 || m.userFilterSummary() != "bo" {
		t.Errorf("slots = %d, summary = %q", len(m.slots), m.userFilterSummary())
	}

	m = update(t, m, key("a"))
	if m.userFilter != nil || len(m.slots) != 2 || m.userFilterSummary() != "All users" {
		t.Errorf("filter = %v, slots = %d", m.userFilter, len(m.slots))
	}

	m = update(t, m, key("esc"))
	if m.mode != ModeNormal {
		t.Errorf("mode = %v", m.mode)
	}
}
