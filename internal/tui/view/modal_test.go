package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderModalButtons_UsesModalBodySeparator(t *testing.T) {
	styles := ModalStyles{
		ModalBodyStyle:         lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		ModalButtonStyle:       lipgloss.NewStyle(),
		ModalButtonActiveStyle: lipgloss.NewStyle(),
	}

	view := RenderModalButtons(styles, "[Enter] Save", "[Esc] Cancel")
	sep := styles.ModalBodyStyle.Render(" ")
	if !strings.Contains(view, sep) {
		t.Fatalf("expected modal button separator to use modal body style")
	}
}

func TestRenderModalFrame(t *testing.T) {
	frame := RenderModalFrame("New activity", "body", ActivityFormFooter(ModalStyles{}), ModalStyles{})
	for _, want := range []string{"New activity", "body", "[Enter] Save", "[Esc] Cancel"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q: %q", want, frame)
		}
	}
}

func TestFooters(t *testing.T) {
	styles := ModalStyles{}
	if !strings.Contains(ActivityDetailFooter(styles), "[e] Edit") {
		t.Error("detail footer should offer edit")
	}
	if !strings.Contains(UserFilterFooter(styles), "[Space] Toggle") {
		t.Error("user filter footer should offer toggle")
	}
	if !strings.Contains(SessionExpiredFooter(styles), "[q] Quit") {
		t.Error("expired footer should offer quit")
	}
}
