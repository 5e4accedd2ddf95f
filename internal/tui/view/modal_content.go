package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
)

// ActivityDetailModel contains the fields needed to render the activity detail body.
type ActivityDetailModel struct {
	KindLabel   string
	StatusLabel string
	TimeRange   string
	DateLabel   string
	Responsible string
	Subject     string
	Employee    string
	Public      string
}

// ActivityDetailStyles groups styles for the activity detail body.
type ActivityDetailStyles struct {
	BodyStyle  lipgloss.Style
	LabelStyle lipgloss.Style
	TagStyle   lipgloss.Style
}

// NewActivityDetailModel builds a detail model from an activity.
func NewActivityDetailModel(a *activity.Activity) ActivityDetailModel {
	return ActivityDetailModel{
		KindLabel:   a.Kind.Label(),
		StatusLabel: a.Status.Label(),
		TimeRange:   FormatTimeRange(a),
		DateLabel:   a.StartAt.Format("Monday, Jan 2, 2006"),
		Responsible: Responsible(a),
		Subject:     Subject(a),
		Employee:    a.EmployeeDescription,
		Public:      a.PublicDescription,
	}
}

// RenderActivityDetailBody renders the modal body for activity details.
func RenderActivityDetailBody(model ActivityDetailModel, styles ActivityDetailStyles) string {
	var body strings.Builder
	sep := styles.BodyStyle.Render(" ")

	body.WriteString(" " + styles.TagStyle.Render(model.KindLabel) + sep + styles.TagStyle.Render(model.StatusLabel) + "\n\n")
	body.WriteString(styles.BodyStyle.Render(" "+model.TimeRange) + "\n")
	body.WriteString(styles.BodyStyle.Render(" "+model.DateLabel) + "\n\n")

	rows := [][2]string{
		{"Responsible:", model.Responsible},
		{"Subject:", model.Subject},
		{"Notes:", model.Employee},
		{"Public:", model.Public},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		body.WriteString(styles.LabelStyle.Render(fmt.Sprintf(" %-13s", r[0])) + styles.BodyStyle.Render(r[1]) + "\n")
	}

	return strings.TrimRight(body.String(), "\n")
}

// Summary returns a plain-text description of an activity for the clipboard.
func Summary(a *activity.Activity) string {
	m := NewActivityDetailModel(a)
	lines := []string{
		fmt.Sprintf("%s (%s)", m.KindLabel, m.StatusLabel),
		m.DateLabel + ", " + m.TimeRange,
	}
	if m.Responsible != "" {
		lines = append(lines, "Responsible: "+m.Responsible)
	}
	if m.Subject != "" {
		lines = append(lines, "Subject: "+m.Subject)
	}
	if m.Employee != "" {
		lines = append(lines, "Notes: "+m.Employee)
	}
	if m.Public != "" {
		lines = append(lines, "Public: "+m.Public)
	}
	return strings.Join(lines, "\n")
}

// UserOption is one entry of the user filter.
type UserOption struct {
	Name     string
	Selected bool
}

// UserFilterModel contains the fields needed to render the user filter body.
type UserFilterModel struct {
	Options []UserOption
	Cursor  int
	Summary string
}

// UserFilterStyles groups styles for the user filter body.
type UserFilterStyles struct {
	BodyStyle   lipgloss.Style
	ActiveStyle lipgloss.Style
	MetaStyle   lipgloss.Style
}

// RenderUserFilterBody renders the modal body for the user filter.
func RenderUserFilterBody(model UserFilterModel, styles UserFilterStyles) string {
	var body strings.Builder
	body.WriteString(styles.MetaStyle.Render(" "+model.Summary) + "\n\n")
	if len(model.Options) == 0 {
		body.WriteString(styles.BodyStyle.Render(" No users loaded."))
		return body.String()
	}
	for i, opt := range model.Options {
		box := "[ ]"
		if opt.Selected {
			box = "[x]"
		}
		line := fmt.Sprintf(" %s %s", box, opt.Name)
		if i == model.Cursor {
			body.WriteString(styles.ActiveStyle.Render(line))
		} else {
			body.WriteString(styles.BodyStyle.Render(line))
		}
		if i < len(model.Options)-1 {
			body.WriteString("\n")
		}
	}
	return body.String()
}
