package tui

import (
	"fmt"

	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

// userFilterSummary describes the responsible-user filter.
func (m Model) userFilterSummary() string {
	switch {
	case m.userFilter == nil:
		return "All users"
	case len(m.userFilter) == 0:
		return "No users"
	case len(m.userFilter) == 1:
		for _, u := range m.directory {
			if m.userFilter[u.ID] {
				return u.DisplayName()
			}
		}
	}
	return fmt.Sprintf("%d selected", len(m.userFilter))
}

// userSelected reports whether activities of user id are shown.
func (m Model) userSelected(id int64) bool {
	return m.userFilter == nil || m.userFilter[id]
}

func (m Model) userFilterModel() view.UserFilterModel {
	opts := make([]view.UserOption, len(m.directory))
	for i, u := range m.directory {
		opts[i] = view.UserOption{Name: u.DisplayName(), Selected: m.userSelected(u.ID)}
	}
	return view.UserFilterModel{
		Options: opts,
		Cursor:  m.userCursor,
		Summary: m.userFilterSummary(),
	}
}

// toggleUser flips the user under the filter cursor. Selecting every user
// clears the filter.
func (m *Model) toggleUser() {
	if m.userCursor < 0 || m.userCursor >= len(m.directory) {
		return
	}
	id := m.directory[m.userCursor].ID
	if m.userFilter == nil {
		m.userFilter = make(map[int64]bool, len(m.directory))
		for _, u := range m.directory {
			m.userFilter[u.ID] = true
		}
	}
	if m.userFilter[id] {
		delete(m.userFilter, id)
	} else {
		m.userFilter[id] = true
	}
	if len(m.userFilter) == len(m.directory) {
		m.userFilter = nil
	}
	m.relayout()
}

// selectAllUsers clears the filter.
func (m *Model) selectAllUsers() {
	m.userFilter = nil
	m.relayout()
}

// selectNoUsers hides every activity.
func (m *Model) selectNoUsers() {
	m.userFilter = map[int64]bool{}
	m.relayout()
}
