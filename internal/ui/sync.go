package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

func (a *App) syncCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy CRM activities into the local cache",
		Long: `Download activities and users from the CRM into the local database
so they can be browsed with --offline.

Cached activities in the range that no longer exist in the CRM are
removed. Without dates the current week is synced.`,
		Example: `  hawkeye sync
  hawkeye sync --start=2025-03-01 --end=2025-03-31`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.offline {
				return fmt.Errorf("sync needs the CRM; drop --offline")
			}
			ctx := cmd.Context()
			now := a.now().In(a.loc)

			var dateRange *dateutil.DateRange
			if startDate == "" && endDate == "" {
				monday, sunday := dateutil.WeekRange(now)
				dateRange = &dateutil.DateRange{Start: monday, End: sunday}
			} else {
				r, err := dateutil.NewDateRange(startDate, endDate, now)
				if err != nil {
					return err
				}
				dateRange = r
			}

			if _, err := a.backend(ctx); err != nil {
				return err
			}
			acts, err := a.client.List(ctx, activity.Filter{From: dateRange.Start, To: dateRange.Until()})
			if err != nil {
				return fmt.Errorf("listing activities: %w", err)
			}
			if err := a.repo.SyncActivities(ctx, dateRange.Start, dateRange.Until(), acts); err != nil {
				return fmt.Errorf("caching activities: %w", err)
			}

			users, err := a.client.ListUsers(ctx)
			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}
			if err := a.repo.SaveUsers(ctx, users); err != nil {
				return fmt.Errorf("caching users: %w", err)
			}

			a.logger().Info("SYNC", applog.Fields{
				"from":       dateRange.Start.Format("2006-01-02"),
				"to":         dateRange.End.Format("2006-01-02"),
				"activities": len(acts),
				"users":      len(users),
			})
			fmt.Fprintf(a.out, "Synced %s activities and %d users (%s - %s)\n",
				formatStats(fmt.Sprintf("%d", len(acts))), len(users),
				dateRange.Start.Format("Jan 2"), dateRange.End.Format("Jan 2, 2006"))
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (defaults to this Monday)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (defaults to start date)")

	return cmd
}
