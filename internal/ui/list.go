package ui

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		filter    activity.Filter
		verbose   bool
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities in a date range",
		Long: `List all activities starting within a date range.

If no dates are specified, lists today's activities.
If only --start is specified, lists activities for that single day.
If both --start and --end are specified, lists activities in that range (inclusive).
Dates accept YYYY-MM-DD, today, tomorrow, yesterday, weekday names and next-<weekday>.`,
		Example: `  hawkeye list
  hawkeye list --start=monday --end=friday
  hawkeye list --start=2025-03-10 --user 3 --user 4
  hawkeye list --start=2025-03-01 --end=2025-03-31 --client 12`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			dateRange, err := dateutil.NewDateRange(startDate, endDate, a.now().In(a.loc))
			if err != nil {
				return err
			}
			filter.From = dateRange.Start
			filter.To = dateRange.Until()

			store, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			acts, err := store.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("listing activities: %w", err)
			}

			if len(acts) == 0 {
				fmt.Fprintln(a.out, "No activities found in the specified date range.")
				return nil
			}

			opts := PrintOpts{Verbose: verbose, ShowUser: true}
			printByDay(a.out, acts, opts, opts.CalcMaxDescWidth(30))
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (defaults to start date)")
	cmd.Flags().Int64SliceVar(&filter.UserIDs, "user", nil, "Only activities of this responsible user (repeatable)")
	cmd.Flags().Int64Var(&filter.ClientID, "client", 0, "Only activities of this client")
	cmd.Flags().Int64Var(&filter.PropertyID, "property", 0, "Only activities of this property")
	cmd.Flags().Int64Var(&filter.RequestID, "request", 0, "Only activities of this request")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full notes")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

// printByDay prints activities grouped under one header per date.
func printByDay(w io.Writer, acts []*activity.Activity, opts PrintOpts, maxDescWidth int) {
	var currentDate string
	for _, act := range acts {
		date := act.StartAt.Format("2006-01-02")
		if date != currentDate {
			if currentDate != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "=== %s %s ===\n", date, act.StartAt.Format("Mon"))
			currentDate = date
		}
		PrintActivityRow(w, act, opts, maxDescWidth)
	}
}
