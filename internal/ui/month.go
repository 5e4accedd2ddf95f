package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

const monthCellWidth = 8

func (a *App) monthCmd() *cobra.Command {
	var (
		users   []int64
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "month [date]",
		Short: "Show a month grid with activity counts",
		Example: `  hawkeye month
  hawkeye month 2025-04-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			now := a.now().In(a.loc)
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			day, err := dateutil.ParseRelativeDate(ref, now)
			if err != nil {
				return err
			}
			first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())

			store, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			acts, err := store.List(cmd.Context(), activity.Filter{
				From:    first,
				To:      first.AddDate(0, 1, 0),
				UserIDs: users,
			})
			if err != nil {
				return fmt.Errorf("listing activities: %w", err)
			}

			printMonth(a.out, first, acts, now)
			return nil
		},
	}

	cmd.Flags().Int64SliceVar(&users, "user", nil, "Only activities of this responsible user (repeatable)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// printMonth prints a Monday-first calendar with the activity count per day.
func printMonth(w io.Writer, month time.Time, acts []*activity.Activity, now time.Time) {
	counts := make(map[int]int)
	for _, act := range acts {
		counts[act.StartAt.Day()]++
	}

	title := month.Format("January 2006")
	fmt.Fprintf(w, "\n  %s\n", formatHeader(title))
	fmt.Fprint(w, "  ")
	for _, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		fmt.Fprintf(w, "%-*s", monthCellWidth, name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+strings.Repeat("─", 7*monthCellWidth))

	for _, week := range dateutil.MonthGrid(month) {
		var b strings.Builder
		for _, d := range week {
			if d.IsZero() {
				b.WriteString(strings.Repeat(" ", monthCellWidth))
				continue
			}
			b.WriteString(monthCell(d, counts[d.Day()], dateutil.SameDay(d, now)))
		}
		fmt.Fprintln(w, "  "+strings.TrimRight(b.String(), " "))
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	fmt.Fprintf(w, "\n  Activities: %s\n\n", formatStats(fmt.Sprintf("%d", total)))
}

// monthCell renders "12 (3)" padded to the cell width. Today is bold.
func monthCell(d time.Time, count int, today bool) string {
	day := fmt.Sprintf("%2d", d.Day())
	if today {
		day = formatHeader(day)
	}
	cell := day
	plain := 2
	if count > 0 {
		n := fmt.Sprintf(" (%d)", count)
		cell += formatMuted(n)
		plain += len(n)
	}
	return cell + strings.Repeat(" ", max(1, monthCellWidth-plain))
}
