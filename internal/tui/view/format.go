// Package view provides rendering helpers for the TUI.
package view

import (
	"fmt"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

// FormatDuration formats d as "Xh Ym".
func FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatTimeRange formats an activity's clock range and duration.
func FormatTimeRange(a *activity.Activity) string {
	end := activity.ClockOf(a.EndAt)
	if !dateutil.SameDay(a.StartAt, a.EndAt) && end == "00:00" {
		end = "24:00"
	}
	return fmt.Sprintf("%s - %s (%s)", activity.ClockOf(a.StartAt), end, FormatDuration(a.Duration()))
}

// Subject describes what an activity is about: its client, property or request.
func Subject(a *activity.Activity) string {
	switch {
	case a.ClientName != "":
		return a.ClientName
	case a.ClientID != nil:
		return fmt.Sprintf("Client #%d", *a.ClientID)
	case a.PropertyID != nil:
		return fmt.Sprintf("Property #%d", *a.PropertyID)
	case a.RequestID != nil:
		return fmt.Sprintf("Request #%d", *a.RequestID)
	}
	return ""
}

// Responsible returns the display name of the responsible user.
func Responsible(a *activity.Activity) string {
	if a.Responsible != nil {
		return a.Responsible.DisplayName()
	}
	if a.ResponsibleUserID > 0 {
		return fmt.Sprintf("User #%d", a.ResponsibleUserID)
	}
	return ""
}
