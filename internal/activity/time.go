package activity

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ClockToMinutes converts "HH:MM" to minutes since midnight.
// "24:00" is accepted as the end-of-day boundary.
func ClockToMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTimeFormat
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidTimeFormat
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if mins > 59 || hours > 24 || (hours == 24 && mins != 0) {
		return 0, ErrInvalidTimeFormat
	}
	return hours*60 + mins, nil
}

// MinutesToClock formats minutes since midnight as "HH:MM".
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ClockOf returns the "HH:MM" wall clock of t.
func ClockOf(t time.Time) string {
	return MinutesToClock(t.Hour()*60 + t.Minute())
}

// At combines a calendar date and an "HH:MM" clock in loc.
// "24:00" resolves to midnight of the following day.
func At(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	mins, err := ClockToMinutes(clock)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = date.Location()
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc).Add(time.Duration(mins) * time.Minute), nil
}

// RoundUpToQuarter rounds t up to the next 15 minute boundary (seconds dropped).
func RoundUpToQuarter(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	rem := t.Minute() % 15
	if rem == 0 {
		return t
	}
	return t.Add(time.Duration(15-rem) * time.Minute)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
