package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormField is one row of the activity form.
type FormField struct {
	Label    string
	Value    string   // text or picker value, ignored when Options is set
	Options  []string // inline choices
	Active   int      // selected option
	Focused  bool
	Disabled bool
	Hint     string
	Error    string
}

// ActivityFormModel contains the fields needed to render the activity form body.
type ActivityFormModel struct {
	MetaDate  string
	TimeRange string
	Fields    []FormField
	Error     string // submission error, e.g. the API response body
}

// ActivityFormStyles groups styles for the activity form body.
type ActivityFormStyles struct {
	TagStyle          lipgloss.Style
	BodyStyle         lipgloss.Style
	SectionTitleStyle lipgloss.Style
	LabelStyle        lipgloss.Style
	OptionActive      lipgloss.Style
	OptionInactive    lipgloss.Style
	HintStyle         lipgloss.Style
	ErrorStyle        lipgloss.Style
}

const formLabelWidth = 14

// RenderActivityFormBody renders the modal body for the activity form.
func RenderActivityFormBody(model ActivityFormModel, styles ActivityFormStyles) string {
	var body strings.Builder
	sep := styles.BodyStyle.Render(" ")

	body.WriteString(styles.TagStyle.Render(model.MetaDate) + sep + styles.TagStyle.Render(model.TimeRange) + "\n\n")

	for _, f := range model.Fields {
		marker := "  "
		if f.Focused {
			marker = "> "
		}
		label := styles.LabelStyle.Render(fitPlain(marker+f.Label, formLabelWidth))
		if f.Focused {
			label = styles.SectionTitleStyle.Render(fitPlain(marker+f.Label, formLabelWidth))
		}

		var value string
		switch {
		case len(f.Options) > 0:
			parts := make([]string, 0, len(f.Options))
			for i, opt := range f.Options {
				if i == f.Active {
					parts = append(parts, styles.OptionActive.Render(opt))
				} else {
					parts = append(parts, styles.OptionInactive.Render(opt))
				}
			}
			value = strings.Join(parts, sep)
		case f.Disabled:
			value = styles.HintStyle.Render(f.Value)
		default:
			value = styles.BodyStyle.Render(f.Value)
		}

		body.WriteString(label + sep + value)
		if f.Hint != "" && f.Focused {
			body.WriteString(sep + styles.HintStyle.Render(f.Hint))
		}
		body.WriteString("\n")
		if f.Error != "" {
			body.WriteString(styles.ErrorStyle.Render(strings.Repeat(" ", formLabelWidth+1)+f.Error) + "\n")
		}
	}

	if model.Error != "" {
		body.WriteString("\n" + styles.ErrorStyle.Render(model.Error) + "\n")
	}

	return strings.TrimRight(body.String(), "\n")
}

func fitPlain(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
