package view

import (
	"fmt"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

// DayHeaders builds one label per visible day and reports which one is today.
// counts, when not nil, holds the number of activities per day and is
// appended to each label.
func DayHeaders(first time.Time, days int, today time.Time, counts []int) ([]string, int) {
	labels := make([]string, 0, days)
	todayCol := -1
	for i := range days {
		d := first.AddDate(0, 0, i)
		label := d.Format("Mon 2")
		if i < len(counts) && counts[i] > 0 {
			label += fmt.Sprintf(" (%d)", counts[i])
		}
		if dateutil.SameDay(d, today) {
			label = "*" + label + "*"
			todayCol = i
		}
		labels = append(labels, label)
	}
	return labels, todayCol
}

// RangeTitle returns the title of the visible range, e.g. "Mar 10 – 16, 2025".
func RangeTitle(first time.Time, days int) string {
	if days <= 1 {
		return first.Format("Monday, Jan 2, 2006")
	}
	last := first.AddDate(0, 0, days-1)
	if first.Month() == last.Month() {
		return fmt.Sprintf("%s – %d, %d", first.Format("Jan 2"), last.Day(), last.Year())
	}
	return fmt.Sprintf("%s – %s", first.Format("Jan 2"), last.Format("Jan 2, 2006"))
}
