package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
)

type addFlags struct {
	kind        string
	status      string
	date        string
	start       string
	end         string
	client      int64
	property    int64
	request     int64
	responsible int64
	notes       string
	public      string
}

func (a *App) addCmd() *cobra.Command {
	var f addFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an activity",
		Long: `Create an activity in the CRM.

Without --start the activity begins at the next quarter hour. Without
--end it lasts one hour. The responsible user defaults to the signed-in user.`,
		Example: `  hawkeye add --kind visit --date tomorrow --start 10:00 --client 12
  hawkeye add --kind call --start 16:30 --end 16:45 --property 7 --notes "Ask about the garage"
  hawkeye add --kind acquisition --date friday --start 09:00 --responsible 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if f.responsible == 0 {
				f.responsible = a.currentUserID(ctx)
			}
			form, err := f.form(a)
			if err != nil {
				return err
			}
			act, err := form.Build(a.loc)
			if err != nil {
				return formError(err)
			}
			if err := activity.Validate(act, a.interval()); err != nil {
				return formError(err)
			}

			store, err := a.backend(ctx)
			if err != nil {
				return err
			}
			created, err := store.Create(ctx, act)
			if err != nil {
				return fmt.Errorf("creating activity: %w", err)
			}

			fmt.Fprintf(a.out, "Created %s #%d on %s %s-%s\n",
				formatKind(created.Kind), created.ID,
				created.StartAt.Format("Mon Jan 2"), activity.ClockOf(created.StartAt), endClock(created))
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.kind, "kind", "k", "visit", "Activity kind (acquisition, visit, call, direct contact, generic, zone, meeting or course)")
	cmd.Flags().StringVar(&f.status, "status", "scheduled", "Status (scheduled, done, not done)")
	cmd.Flags().StringVarP(&f.date, "date", "d", "today", "Date (YYYY-MM-DD, today, tomorrow, weekday name)")
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "Start time (HH:MM)")
	cmd.Flags().StringVarP(&f.end, "end", "e", "", "End time (HH:MM, 24:00 for midnight)")
	cmd.Flags().Int64Var(&f.client, "client", 0, "Client ID")
	cmd.Flags().Int64Var(&f.property, "property", 0, "Property ID")
	cmd.Flags().Int64Var(&f.request, "request", 0, "Request ID")
	cmd.Flags().Int64Var(&f.responsible, "responsible", 0, "Responsible user ID (defaults to you)")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "Employee notes")
	cmd.Flags().StringVar(&f.public, "public", "", "Public description (done activities only)")

	return cmd
}

// form turns the flags into an activity form.
func (f addFlags) form(a *App) (activity.Form, error) {
	now := a.now().In(a.loc)

	kind, ok := activity.ParseKind(f.kind)
	if !ok {
		return activity.Form{}, fmt.Errorf("unknown kind %q", f.kind)
	}
	status, ok := activity.ParseStatus(f.status)
	if !ok {
		return activity.Form{}, fmt.Errorf("unknown status %q", f.status)
	}
	date, err := dateutil.ParseRelativeDate(f.date, now)
	if err != nil {
		return activity.Form{}, err
	}

	form := activity.NewForm(date, now, f.responsible)
	form.Kind = kind
	form.Status = status
	form.EmployeeDescription = strings.TrimSpace(f.notes)
	form.PublicDescription = strings.TrimSpace(f.public)

	if f.start != "" {
		form.Start = f.start
		if f.end == "" {
			m, err := activity.ClockToMinutes(f.start)
			if err != nil {
				return activity.Form{}, fmt.Errorf("start: %w", err)
			}
			form.End = activity.MinutesToClock(min(m+60, 24*60))
		}
	}
	if f.end != "" {
		form.End = f.end
	}

	if f.client > 0 {
		form.ClientID = activity.Ref(f.client)
	}
	if f.property > 0 {
		form.PropertyID = activity.Ref(f.property)
	}
	if f.request > 0 {
		form.RequestID = activity.Ref(f.request)
	}
	return form, nil
}

// formError lists field problems one per line.
func formError(err error) error {
	var ve *activity.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var b strings.Builder
	b.WriteString("invalid activity:")
	for _, name := range fieldNames(ve) {
		fmt.Fprintf(&b, "\n  %s: %v", flagName(name), ve.Fields[name])
	}
	return &flagError{msg: b.String(), err: err}
}

// flagError keeps the validation error reachable through errors.Is.
type flagError struct {
	msg string
	err error
}

func (e *flagError) Error() string { return e.msg }
func (e *flagError) Unwrap() error { return e.err }

func fieldNames(ve *activity.ValidationError) []string {
	names := make([]string, 0, len(ve.Fields))
	for name := range ve.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// flagName maps a form field to the flag that sets it.
func flagName(field string) string {
	switch field {
	case "Kind":
		return "--kind"
	case "Status":
		return "--status"
	case "Date":
		return "--date"
	case "Start", "StartAt":
		return "--start"
	case "End", "EndAt":
		return "--end"
	case "EmployeeDescription":
		return "--notes"
	case "PublicDescription":
		return "--public"
	case "ClientID":
		return "--client"
	case "PropertyID":
		return "--property"
	case "RequestID":
		return "--request"
	case "ResponsibleUserID":
		return "--responsible"
	}
	return field
}
