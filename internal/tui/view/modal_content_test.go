package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
)

func sampleActivity() *activity.Activity {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return &activity.Activity{
		ID:                  4,
		Kind:                activity.KindVisit,
		Status:              activity.StatusDone,
		StartAt:             start,
		EndAt:               start.Add(90 * time.Minute),
		EmployeeDescription: "bring keys",
		PublicDescription:   "Visit done",
		ClientID:            activity.Ref(12),
		ResponsibleUserID:   3,
		Responsible:         &activity.User{ID: 3, Username: "ana", FirstName: "Ana", LastName: "Ruiz"},
	}
}

func TestRenderActivityDetailBody_UsesBodyStyle(t *testing.T) {
	styles := ActivityDetailStyles{
		BodyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		LabelStyle: lipgloss.NewStyle(),
		TagStyle:   lipgloss.NewStyle(),
	}
	model := NewActivityDetailModel(sampleActivity())

	body := RenderActivityDetailBody(model, styles)
	if !strings.Contains(body, styles.BodyStyle.Render("Ana Ruiz")) {
		t.Fatalf("expected responsible to use body style: %q", body)
	}
	if !strings.Contains(body, "09:00 - 10:30 (1h 30m)") {
		t.Fatalf("expected time range in body: %q", body)
	}
	if !strings.Contains(body, "Client #12") {
		t.Fatalf("expected subject in body: %q", body)
	}
}

func TestRenderActivityDetailBody_SkipsEmptyRows(t *testing.T) {
	a := sampleActivity()
	a.PublicDescription = ""
	a.EmployeeDescription = ""

	body := RenderActivityDetailBody(NewActivityDetailModel(a), ActivityDetailStyles{})
	if strings.Contains(body, "Notes:") || strings.Contains(body, "Public:") {
		t.Fatalf("expected empty rows to be skipped: %q", body)
	}
}

func TestSummary(t *testing.T) {
	got := Summary(sampleActivity())
	want := strings.Join([]string{
		"Visit (Done)",
		"Monday, Mar 10, 2025, 09:00 - 10:30 (1h 30m)",
		"Responsible: Ana Ruiz",
		"Subject: Client #12",
		"Notes: bring keys",
		"Public: Visit done",
	}, "\n")
	if got != want {
		t.Fatalf("Summary() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderUserFilterBody(t *testing.T) {
	styles := UserFilterStyles{
		BodyStyle:   lipgloss.NewStyle(),
		ActiveStyle: lipgloss.NewStyle().Bold(true),
		MetaStyle:   lipgloss.NewStyle(),
	}
	model := UserFilterModel{
		Options: []UserOption{{Name: "Ana", Selected: true}, {Name: "Luis"}},
		Cursor:  1,
		Summary: "1 selected",
	}

	body := RenderUserFilterBody(model, styles)
	if !strings.Contains(body, "[x] Ana") || !strings.Contains(body, "[ ] Luis") {
		t.Fatalf("expected checkboxes: %q", body)
	}
	if !strings.Contains(body, styles.ActiveStyle.Render(" [ ] Luis")) {
		t.Fatalf("expected cursor row to use active style: %q", body)
	}

	empty := RenderUserFilterBody(UserFilterModel{Summary: "No users"}, styles)
	if !strings.Contains(empty, "No users loaded.") {
		t.Fatalf("expected empty message: %q", empty)
	}
}

func TestRenderActivityFormBody(t *testing.T) {
	styles := ActivityFormStyles{
		SectionTitleStyle: lipgloss.NewStyle().Bold(true),
		ErrorStyle:        lipgloss.NewStyle(),
	}
	model := ActivityFormModel{
		MetaDate:  "Mon Mar 10",
		TimeRange: "09:00-10:00",
		Fields: []FormField{
			{Label: "Kind", Options: []string{"Visit", "Call"}, Active: 1, Focused: true, Hint: "left/right"},
			{Label: "End", Value: "10:00", Error: "end must be after start"},
			{Label: "Public", Value: "only when done", Disabled: true},
		},
		Error: "400 Bad Request",
	}

	body := RenderActivityFormBody(model, styles)
	for _, want := range []string{"> Kind", "Visit", "Call", "left/right", "end must be after start", "only when done", "400 Bad Request"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}
