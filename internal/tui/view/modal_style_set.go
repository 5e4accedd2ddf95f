package view

import "github.com/charmbracelet/lipgloss"

// ModalStyleSet groups modal styles to reduce call-site verbosity.
type ModalStyleSet struct {
	BodyStyle           lipgloss.Style
	MetaStyle           lipgloss.Style
	SectionTitleStyle   lipgloss.Style
	TagStyle            lipgloss.Style
	LabelStyle          lipgloss.Style
	HintStyle           lipgloss.Style
	ErrorStyle          lipgloss.Style
	OptionActiveStyle   lipgloss.Style
	OptionInactiveStyle lipgloss.Style
}

// ActivityFormStyles returns the modal styles needed for the activity form.
func (s ModalStyleSet) ActivityFormStyles() ActivityFormStyles {
	return ActivityFormStyles{
		TagStyle:          s.TagStyle,
		BodyStyle:         s.BodyStyle,
		SectionTitleStyle: s.SectionTitleStyle,
		LabelStyle:        s.LabelStyle,
		OptionActive:      s.OptionActiveStyle,
		OptionInactive:    s.OptionInactiveStyle,
		HintStyle:         s.HintStyle,
		ErrorStyle:        s.ErrorStyle,
	}
}

// ActivityDetailStyles returns the modal styles needed for activity details.
func (s ModalStyleSet) ActivityDetailStyles() ActivityDetailStyles {
	return ActivityDetailStyles{
		BodyStyle:  s.BodyStyle,
		LabelStyle: s.LabelStyle,
		TagStyle:   s.TagStyle,
	}
}

// UserFilterStyles returns the modal styles needed for the user filter.
func (s ModalStyleSet) UserFilterStyles() UserFilterStyles {
	return UserFilterStyles{
		BodyStyle:   s.BodyStyle,
		ActiveStyle: s.OptionActiveStyle,
		MetaStyle:   s.MetaStyle,
	}
}
