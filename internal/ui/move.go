package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		date  string
		start string
		end   string
		by    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Reschedule an activity",
		Long: `Move or resize an activity.

--date and --start move the activity and keep its duration unless --end
is given. --by shifts both ends by a duration. Only the start and end
times are sent to the CRM.`,
		Example: `  hawkeye move 42 --date tomorrow
  hawkeye move 42 --start 16:00
  hawkeye move 42 --end 11:30
  hawkeye move 42 --by -30m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseActivityID(args[0])
			if err != nil {
				return err
			}
			if date == "" && start == "" && end == "" && by == 0 {
				return fmt.Errorf("nothing to change: pass --date, --start, --end or --by")
			}
			if by != 0 && (date != "" || start != "" || end != "") {
				return fmt.Errorf("--by cannot be combined with --date, --start or --end")
			}

			ctx := cmd.Context()
			store, err := a.backend(ctx)
			if err != nil {
				return err
			}
			act, err := getActivity(ctx, store, id)
			if err != nil {
				return err
			}

			newStart, newEnd, err := a.reschedule(act, date, start, end, by)
			if err != nil {
				return err
			}
			u := activity.Times(newStart, newEnd)
			if err := activity.Validate(u.Apply(act), a.interval()); err != nil {
				return formError(err)
			}

			updated, err := store.Update(ctx, id, u)
			if err != nil {
				return fmt.Errorf("updating activity: %w", err)
			}
			fmt.Fprintf(a.out, "Moved #%d to %s %s-%s\n", updated.ID,
				updated.StartAt.Format("Mon Jan 2"), activity.ClockOf(updated.StartAt), endClock(updated))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "New date (YYYY-MM-DD, today, tomorrow, weekday name)")
	cmd.Flags().StringVarP(&start, "start", "s", "", "New start time (HH:MM)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "New end time (HH:MM, 24:00 for midnight)")
	cmd.Flags().DurationVar(&by, "by", 0, "Shift by a duration (e.g. 30m, -1h)")

	return cmd
}

// reschedule resolves the new range. A missing end keeps the duration.
func (a *App) reschedule(act *activity.Activity, date, start, end string, by time.Duration) (time.Time, time.Time, error) {
	if by != 0 {
		return act.StartAt.Add(by), act.EndAt.Add(by), nil
	}

	day := dateutil.TruncateToDay(act.StartAt.In(a.loc))
	if date != "" {
		d, err := dateutil.ParseRelativeDate(date, a.now().In(a.loc))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		day = d
	}
	if start == "" {
		start = activity.ClockOf(act.StartAt.In(a.loc))
	}

	newStart, err := activity.At(day, start, a.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--start: %w", err)
	}
	if end == "" {
		return newStart, newStart.Add(act.Duration()), nil
	}
	newEnd, err := activity.At(day, end, a.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--end: %w", err)
	}
	return newStart, newEnd, nil
}

func getActivity(ctx context.Context, store activity.Store, id int64) (*activity.Activity, error) {
	act, err := store.Get(ctx, id)
	if errors.Is(err, activity.ErrNotFound) {
		return nil, fmt.Errorf("activity #%d not found", id)
	}
	return act, err
}
