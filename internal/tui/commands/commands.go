// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
	"github.com/hawkeyecrm/hawkeye/internal/config"
)

// RangeLoadedMsg is sent when the activities of the visible range are loaded.
type RangeLoadedMsg struct {
	From       time.Time
	To         time.Time
	Activities []*activity.Activity
}

// InitialLoadMsg is sent when the first range and the user directory are loaded.
type InitialLoadMsg struct {
	RangeLoadedMsg
	Users []activity.User
}

// PersistedMsg reports a background gesture write.
type PersistedMsg struct {
	Result calendar.Result
}

// FormSavedMsg is sent when the activity form was stored.
type FormSavedMsg struct {
	Activity *activity.Activity
	Created  bool
}

// FormErrorMsg is sent when the activity form was rejected.
type FormErrorMsg struct {
	Err error
}

// SessionExpiredMsg is sent once the credentials can no longer be refreshed.
type SessionExpiredMsg struct{}

// ThemeSavedMsg is sent when the theme choice was written to the config file.
type ThemeSavedMsg struct {
	Name string
}

// CopiedMsg is sent after text was placed on the clipboard.
type CopiedMsg struct {
	What string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Timeout bounds a single store call.
type Timeout func(ctx context.Context) (context.Context, context.CancelFunc)

func withTimeout(timeout Timeout) (context.Context, context.CancelFunc) {
	if timeout == nil {
		return context.WithCancel(context.Background())
	}
	return timeout(context.Background())
}

// LoadInitial fetches the visible range and the user directory concurrently.
func LoadInitial(store activity.Store, users activity.UserDirectory, f activity.Filter, timeout Timeout) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		var (
			acts []*activity.Activity
			dir  []activity.User
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			acts, err = store.List(gctx, f)
			if err != nil {
				return fmt.Errorf("loading activities: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			if users == nil {
				return nil
			}
			var err error
			dir, err = users.ListUsers(gctx)
			if err != nil {
				return fmt.Errorf("loading users: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return ErrMsg{Err: err}
		}

		return InitialLoadMsg{
			RangeLoadedMsg: RangeLoadedMsg{From: f.From, To: f.To, Activities: acts},
			Users:          dir,
		}
	}
}

// LoadRange fetches the activities matching f.
func LoadRange(store activity.Store, f activity.Filter, timeout Timeout) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		acts, err := store.List(ctx, f)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading activities: %w", err)}
		}
		return RangeLoadedMsg{From: f.From, To: f.To, Activities: acts}
	}
}

// SaveForm creates or replaces an activity through the persister. before is
// the activity being edited, nil when creating.
func SaveForm(p *calendar.Persister, before, a *activity.Activity, timeout Timeout) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		created := a.ID == 0
		var (
			stored *activity.Activity
			err    error
		)
		if created {
			stored, err = p.Create(ctx, a)
		} else {
			stored, err = p.Save(ctx, before, a)
		}
		if err != nil {
			return FormErrorMsg{Err: err}
		}
		return FormSavedMsg{Activity: stored, Created: created}
	}
}

// WaitPersisted forwards the next gesture write result from results.
func WaitPersisted(results <-chan calendar.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return nil
		}
		return PersistedMsg{Result: res}
	}
}

// WaitExpired blocks until expired is closed.
func WaitExpired(expired <-chan struct{}) tea.Cmd {
	if expired == nil {
		return nil
	}
	return func() tea.Msg {
		<-expired
		return SessionExpiredMsg{}
	}
}

// SaveTheme writes cfg, whose ui.theme was already set, to path.
// An empty path uses the default config location.
func SaveTheme(cfg *config.Config, path string) tea.Cmd {
	return func() tea.Msg {
		if cfg == nil {
			return ErrMsg{Err: errors.New("no config to save theme to")}
		}
		save := cfg.Save
		if path != "" {
			save = func() error { return cfg.SaveTo(path) }
		}
		if err := save(); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving config: %w", err)}
		}
		return ThemeSavedMsg{Name: cfg.UI.Theme}
	}
}

// Copy places text on the system clipboard.
func Copy(what, text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying %s: %w", what, err)}
		}
		return CopiedMsg{What: what}
	}
}
