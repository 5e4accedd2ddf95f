package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show one activity",
		Example: `  hawkeye show 42`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseActivityID(args[0])
			if err != nil {
				return err
			}

			store, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			act, err := getActivity(cmd.Context(), store, id)
			if err != nil {
				return err
			}

			a.printActivity(act)
			return nil
		},
	}
}

func (a *App) printActivity(act *activity.Activity) {
	lines := strings.Split(view.Summary(act), "\n")
	fmt.Fprintf(a.out, "%s  %s\n", formatHeader(fmt.Sprintf("#%d", act.ID)), lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(a.out, "     %s\n", line)
	}
	if act.RequestID != nil && (act.ClientName != "" || act.ClientID != nil || act.PropertyID != nil) {
		fmt.Fprintf(a.out, "     Request: #%d\n", *act.RequestID)
	}
}

// parseActivityID accepts "42" or "#42".
func parseActivityID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid activity ID: %s", s)
	}
	return id, nil
}
