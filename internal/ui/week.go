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

func (a *App) weekCmd() *cobra.Command {
	var (
		users   []int64
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Show a week of activities with totals",
		Long: `Display Monday through Sunday of the week containing date
(default today) with per-kind counts and time totals.`,
		Example: `  hawkeye week
  hawkeye week next-week
  hawkeye week 2025-03-12 --user 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			day, err := dateutil.ParseRelativeDate(ref, a.now().In(a.loc))
			if err != nil {
				return err
			}
			monday, sunday := dateutil.WeekRange(day)

			store, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			acts, err := store.List(cmd.Context(), activity.Filter{
				From:    monday,
				To:      sunday.AddDate(0, 0, 1),
				UserIDs: users,
			})
			if err != nil {
				return fmt.Errorf("listing activities: %w", err)
			}

			header := fmt.Sprintf("WEEK: %s - %s", monday.Format("Mon Jan 2"), sunday.Format("Mon Jan 2, 2006"))
			fmt.Fprintf(a.out, "\n  %s\n", formatHeader(header))
			fmt.Fprintln(a.out, strings.Repeat("─", 74))

			if len(acts) == 0 {
				fmt.Fprintln(a.out, "  No activities scheduled for this week.")
				return nil
			}

			opts := PrintOpts{Verbose: verbose, ShowDuration: true, ShowUser: true}
			stats := printWeekTable(a.out, monday, acts, opts, opts.CalcMaxDescWidth(24))

			fmt.Fprintln(a.out, strings.Repeat("─", 74))
			PrintStats(a.out, stats)
			fmt.Fprintln(a.out)
			return nil
		},
	}

	cmd.Flags().Int64SliceVar(&users, "user", nil, "Only activities of this responsible user (repeatable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full notes")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// printWeekTable prints every day of the week, including empty ones, and
// returns the accumulated stats.
func printWeekTable(w io.Writer, monday time.Time, acts []*activity.Activity, opts PrintOpts, maxDescWidth int) Stats {
	byDay := make(map[int][]*activity.Activity, 7)
	for _, act := range acts {
		idx := dateutil.WeekdayIndex(act.StartAt)
		byDay[idx] = append(byDay[idx], act)
	}

	var stats Stats
	for i := range 7 {
		day := monday.AddDate(0, 0, i)
		dayActs := byDay[i]
		label := day.Format("Mon Jan 2")

		count := formatMuted("-")
		if len(dayActs) > 0 {
			count = fmt.Sprintf("%d", len(dayActs))
		}
		fmt.Fprintf(w, "\n  %s  %s\n", formatHeader(label), count)
		for _, act := range dayActs {
			stats.Add(act, day.Format("2006-01-02 Monday"))
			PrintActivityRow(w, act, opts, maxDescWidth)
		}
	}
	fmt.Fprintln(w)
	return stats
}
