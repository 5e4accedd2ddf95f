package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

// Stats holds aggregated figures for a set of activities.
type Stats struct {
	Total    int
	Done     int
	NotDone  int
	Minutes  int
	ByKind   map[activity.Kind]int
	DayStats map[string]DayStats
}

// DayStats holds statistics for a single day.
type DayStats struct {
	Activities int
	Minutes    int
}

// Add accumulates one activity under dayKey.
func (s *Stats) Add(a *activity.Activity, dayKey string) {
	if s.ByKind == nil {
		s.ByKind = make(map[activity.Kind]int)
	}
	if s.DayStats == nil {
		s.DayStats = make(map[string]DayStats)
	}
	minutes := int(a.Duration() / time.Minute)

	s.Total++
	s.Minutes += minutes
	s.ByKind[a.Kind]++
	switch a.Status {
	case activity.StatusDone:
		s.Done++
	case activity.StatusNotDone:
		s.NotDone++
	}

	ds := s.DayStats[dayKey]
	ds.Activities++
	ds.Minutes += minutes
	s.DayStats[dayKey] = ds
}

// BusiestDay returns the day with the most activities. Ties keep the earlier key.
func (s Stats) BusiestDay() (day string, count int) {
	for d, ds := range s.DayStats {
		if ds.Activities > count || (ds.Activities == count && d < day) {
			count = ds.Activities
			day = d
		}
	}
	return day, count
}

// PrintOpts configures activity printing behavior.
type PrintOpts struct {
	Verbose      bool // Show full notes
	ShowDuration bool // Show duration column
	ShowUser     bool // Show the responsible user
	MaxDescWidth int  // Maximum notes width (0 = auto)
}

// CalcMaxDescWidth calculates the maximum notes width based on options.
func (o PrintOpts) CalcMaxDescWidth(defaultWidth int) int {
	if o.MaxDescWidth > 0 {
		return o.MaxDescWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "  ○ #123  HH:MM-HH:MM  Meeting or course  " is ~42 columns.
	overhead := 42
	if o.ShowDuration {
		overhead += 7
	}
	if o.ShowUser {
		overhead += 18
	}
	if available := termWidth() - overhead; available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintActivityRow prints a single activity row with consistent formatting.
func PrintActivityRow(w io.Writer, a *activity.Activity, opts PrintOpts, maxDescWidth int) {
	kind := formatKind(a.Kind)
	pad := max(0, kindWidth-ansi.StringWidth(a.Kind.Label()))

	var b strings.Builder
	fmt.Fprintf(&b, "  %s #%-4d %s-%s  %s%s",
		statusSymbol(a.Status), a.ID,
		activity.ClockOf(a.StartAt), endClock(a),
		kind, strings.Repeat(" ", pad))

	if opts.ShowDuration {
		fmt.Fprintf(&b, "  %6s", FormatDuration(int(a.Duration()/time.Minute)))
	}
	if opts.ShowUser {
		fmt.Fprintf(&b, "  %-16s", truncate(view.Responsible(a), 16))
	}
	if subject := view.Subject(a); subject != "" {
		fmt.Fprintf(&b, "  %s", subject)
	}
	if notes := oneLine(a.EmployeeDescription); notes != "" {
		fmt.Fprintf(&b, "  %s", formatMuted(truncate(notes, maxDescWidth)))
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

// kindWidth is the widest kind label.
var kindWidth = func() int {
	n := 0
	for _, k := range activity.Kinds {
		n = max(n, len(k.Label()))
	}
	return n
}()

// PrintStats prints the stats summary lines.
func PrintStats(w io.Writer, s Stats) {
	fmt.Fprintf(w, "  Activities: %s  |  Time: %s  |  Done: %d  |  Not done: %d\n",
		formatStats(fmt.Sprintf("%d", s.Total)), formatStats(FormatDuration(s.Minutes)), s.Done, s.NotDone)

	var parts []string
	for _, k := range activity.Kinds {
		if n := s.ByKind[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", formatKind(k), n))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  "))
	}
	if day, n := s.BusiestDay(); n > 0 {
		fmt.Fprintf(w, "  Busiest day: %s (%d)\n", day, n)
	}
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

func statusSymbol(s activity.Status) string {
	switch s {
	case activity.StatusScheduled:
		return "○"
	case activity.StatusDone:
		return "✓"
	case activity.StatusNotDone:
		return "✗"
	default:
		return "?"
	}
}

// endClock prints a midnight end as 24:00 when the activity starts the day before.
func endClock(a *activity.Activity) string {
	if !dateutil.SameDay(a.StartAt, a.EndAt) && a.EndAt.Hour() == 0 && a.EndAt.Minute() == 0 {
		return "24:00"
	}
	return activity.ClockOf(a.EndAt)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to width columns, ending in "...".
func truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return ansi.Truncate(s, width, "")
	}
	return ansi.Truncate(s, width, "...")
}
