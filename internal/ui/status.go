package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
)

func (a *App) statusCmd() *cobra.Command {
	var public string

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Mark an activity scheduled, done or not done",
		Long: `Change the status of an activity.

A public description, shown to the client, can only be set on done
activities. Leaving the done status clears it.`,
		Example: `  hawkeye status 42 done --public "Client liked the flat"
  hawkeye status 42 "not done"
  hawkeye status 42 scheduled`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseActivityID(args[0])
			if err != nil {
				return err
			}
			status, ok := activity.ParseStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q (scheduled, done, not done)", args[1])
			}
			public = strings.TrimSpace(public)
			if public != "" && status != activity.StatusDone {
				return formError(&activity.ValidationError{Fields: map[string]error{
					"PublicDescription": activity.ErrPublicDescNotDone,
				}})
			}

			u := activity.NewUpdate().WithStatus(status)
			if public != "" {
				u = u.WithPublicDescription(public)
			}

			store, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			updated, err := store.Update(cmd.Context(), id, u)
			if err != nil {
				return fmt.Errorf("updating activity #%d: %w", id, err)
			}
			fmt.Fprintf(a.out, "%s #%d is now %s\n", formatKind(updated.Kind), updated.ID, updated.Status.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&public, "public", "", "Public description (done only)")

	return cmd
}
