// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Default is the theme used when none is configured.
const Default = "dark"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Hour rows, subtle highlight
	BgSelection string `toml:"bg_selection"` // Cursor, drag selection
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Time labels, done activities
	Accent      string `toml:"accent"`       // Title, primary accent, borders
	Current     string `toml:"current"`      // Now line
	Warning     string `toml:"warning"`      // Errors, expired session

	Kinds KindColors `toml:"kinds"`

	// Modal palette (can override base theme values)
	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

// KindColors holds one block color per activity kind.
type KindColors struct {
	Acquisition   string `toml:"acquisition"`
	Visit         string `toml:"visit"`
	Call          string `toml:"call"`
	DirectContact string `toml:"direct_contact"`
	Generic       string `toml:"generic"`
	Zone          string `toml:"zone"`
	Meeting       string `toml:"meeting"`
	Unknown       string `toml:"unknown"`
}

// For returns the color of kind k. Kinds the CRM added after this build use Unknown.
func (c KindColors) For(k activity.Kind) string {
	switch k {
	case activity.KindAcquisition:
		return c.Acquisition
	case activity.KindVisit:
		return c.Visit
	case activity.KindCall:
		return c.Call
	case activity.KindDirectContact:
		return c.DirectContact
	case activity.KindGeneric:
		return c.Generic
	case activity.KindZone:
		return c.Zone
	case activity.KindMeetingOrCourse:
		return c.Meeting
	default:
		return c.Unknown
	}
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Falls back to the default theme if the name is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = Default
	}
	name = strings.ToLower(name)

	path := "embedded/" + name + ".toml"
	data, err := embeddedThemes.ReadFile(path)
	if err != nil {
		if name != Default {
			return Load(Default)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

// ModalPalette provides the modal-specific colors derived from the theme.
type ModalPalette struct {
	BaseBg      string
	ModalBorder string
	TextPrimary string
	TextMuted   string
	Highlight   string
}

// Modal returns the modal palette, falling back to base theme colors when needed.
func (t *Theme) Modal() ModalPalette {
	return ModalPalette{
		BaseBg:      coalesce(t.BaseBg, t.BgHighlight, t.Bg),
		ModalBorder: coalesce(t.ModalBorder, t.Accent),
		TextPrimary: coalesce(t.TextPrimary, t.Fg),
		TextMuted:   coalesce(t.TextMuted, t.FgMuted),
		Highlight:   coalesce(t.Highlight, t.BgSelection, t.Accent),
	}
}

func (t *Theme) applyDefaults() {
	if t.BaseBg == "" {
		t.BaseBg = coalesce(t.BgHighlight, t.Bg)
	}
	if t.ModalBorder == "" {
		t.ModalBorder = t.Accent
	}
	if t.TextPrimary == "" {
		t.TextPrimary = t.Fg
	}
	if t.TextMuted == "" {
		t.TextMuted = t.FgMuted
	}
	if t.Highlight == "" {
		t.Highlight = coalesce(t.BgSelection, t.Accent)
	}
	if t.Kinds.Unknown == "" {
		t.Kinds.Unknown = "#000000"
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"dark", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}

// Toggle returns the other theme of the light/dark pair.
func Toggle(name string) string {
	if strings.ToLower(name) == "light" {
		return "dark"
	}
	return "light"
}
