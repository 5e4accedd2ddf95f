package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hawkeyecrm/hawkeye/internal/applog"
)

func (a *App) loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in to the CRM",
		Long: `Sign in to the CRM and store the session locally.

The password is prompted for when --password is not given. The user
directory is cached so the calendar can show names offline.`,
		Example: `  hawkeye login
  hawkeye login ana`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.apiClient(ctx)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(a.in)
			username := ""
			if len(args) == 1 {
				username = args[0]
			} else {
				username = a.promptValue(reader, "Username", "")
			}
			if username == "" {
				return fmt.Errorf("username is required")
			}
			if password == "" {
				if password, err = a.readPassword(reader); err != nil {
					return err
				}
			}

			info, err := c.Login(ctx, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", formatHeader(info.Username))

			a.cacheUsers(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")

	return cmd
}

// cacheUsers stores the user directory for offline use. Failures are logged only.
func (a *App) cacheUsers(ctx context.Context) {
	users, err := a.client.ListUsers(ctx)
	if err != nil {
		a.logger().Warn("USERS_FETCH_FAILED", applog.Fields{"error": err.Error()})
		return
	}
	if err := a.repo.SaveUsers(ctx, users); err != nil {
		a.logger().Warn("USERS_CACHE_FAILED", applog.Fields{"error": err.Error()})
	}
}

func (a *App) readPassword(reader *bufio.Reader) (string, error) {
	fmt.Fprint(a.out, "  Password: ")
	if a.in == os.Stdin && isTerminal() {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if !sess.LoggedIn() {
				fmt.Fprintln(a.out, "Not logged in.")
				return nil
			}
			if err := sess.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logging out: %w", err)
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

// expiryWarning is how early whoami flags an access token about to expire.
const expiryWarning = 5 * time.Minute

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if !sess.LoggedIn() {
				fmt.Fprintln(a.out, "Not logged in.")
				return nil
			}

			claims := sess.Claims()
			name := claims.Username
			if name == "" {
				name = "unknown"
			}
			fmt.Fprintf(a.out, "%s (user #%d)\n", formatHeader(name), claims.UserID)
			if !claims.ExpiresAt.IsZero() {
				exp := claims.ExpiresAt.In(a.loc).Format("2006-01-02 15:04")
				switch now := a.now(); {
				case claims.ExpiresWithin(now, 0):
					fmt.Fprintf(a.out, "  Access token expired %s; it is refreshed on the next request.\n", exp)
				case claims.ExpiresWithin(now, expiryWarning):
					fmt.Fprintf(a.out, "  Access token expires soon (%s)\n", exp)
				default:
					fmt.Fprintf(a.out, "  Access token valid until %s\n", exp)
				}
			}
			if a.config.API.BaseURL != "" {
				fmt.Fprintf(a.out, "  %s\n", formatMuted(a.config.API.BaseURL))
			}
			return nil
		},
	}
}
