package theme

import (
	"testing"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
	}{
		{name: "load dark theme", themeName: "dark", wantName: "dark"},
		{name: "load light theme", themeName: "light", wantName: "light"},
		{name: "case insensitive", themeName: "LIGHT", wantName: "light"},
		{name: "empty name defaults to dark", themeName: "", wantName: "dark"},
		{name: "invalid theme falls back to dark", themeName: "nonexistent", wantName: "dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", tt.themeName, err)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.themeName, theme.Name, tt.wantName)
			}
		})
	}
}

func TestLoad_ThemeColors(t *testing.T) {
	for _, name := range Available() {
		theme, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%s) unexpected error: %v", name, err)
		}

		colors := map[string]string{
			"Bg":          theme.Bg,
			"BgHighlight": theme.BgHighlight,
			"BgSelection": theme.BgSelection,
			"Fg":          theme.Fg,
			"FgMuted":     theme.FgMuted,
			"Accent":      theme.Accent,
			"Current":     theme.Current,
			"Warning":     theme.Warning,
		}
		for _, k := range activity.Kinds {
			colors[k.Label()] = theme.Kinds.For(k)
		}

		for field, value := range colors {
			if len(value) != 7 || value[0] != '#' {
				t.Errorf("%s: %s = %q, want a #rrggbb color", name, field, value)
			}
		}
	}
}

func TestKindColors_For(t *testing.T) {
	theme, err := Load("dark")
	if err != nil {
		t.Fatalf("Load(dark) unexpected error: %v", err)
	}

	if got := theme.Kinds.For(activity.KindVisit); got != theme.Kinds.Visit {
		t.Errorf("For(Visit) = %q, want %q", got, theme.Kinds.Visit)
	}
	if got := theme.Kinds.For(activity.KindMeetingOrCourse); got != theme.Kinds.Meeting {
		t.Errorf("For(MeetingOrCourse) = %q, want %q", got, theme.Kinds.Meeting)
	}
	if got := theme.Kinds.For(activity.Kind("Tasación")); got != theme.Kinds.Unknown {
		t.Errorf("For(unknown) = %q, want %q", got, theme.Kinds.Unknown)
	}

	seen := make(map[string]activity.Kind)
	for _, k := range activity.Kinds {
		c := theme.Kinds.For(k)
		if prev, dup := seen[c]; dup {
			t.Errorf("%s and %s share color %s", prev, k, c)
		}
		seen[c] = k
	}
}

func TestModal_Defaults(t *testing.T) {
	theme, err := Load("dark")
	if err != nil {
		t.Fatalf("Load(dark) unexpected error: %v", err)
	}
	modal := theme.Modal()
	if modal.ModalBorder != theme.Accent {
		t.Errorf("ModalBorder = %q, want accent %q", modal.ModalBorder, theme.Accent)
	}
	if modal.BaseBg != theme.BgHighlight {
		t.Errorf("BaseBg = %q, want %q", modal.BaseBg, theme.BgHighlight)
	}

	light, err := Load("light")
	if err != nil {
		t.Fatalf("Load(light) unexpected error: %v", err)
	}
	if light.Modal().BaseBg != "#ffffff" {
		t.Errorf("light BaseBg = %q, want override", light.Modal().BaseBg)
	}
}

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"dark", true},
		{"light", true},
		{"Dark", true},
		{"mocha", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAvailable(tt.name); got != tt.want {
				t.Errorf("IsAvailable(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	if got := Toggle("dark"); got != "light" {
		t.Errorf("Toggle(dark) = %q", got)
	}
	if got := Toggle("light"); got != "dark" {
		t.Errorf("Toggle(light) = %q", got)
	}
	if got := Toggle(""); got != "light" {
		t.Errorf("Toggle(\"\") = %q", got)
	}
}
