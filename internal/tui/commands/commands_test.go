package commands

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
	"github.com/hawkeyecrm/hawkeye/internal/config"
	"github.com/hawkeyecrm/hawkeye/internal/db"
)

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func visit(start time.Time, user int64) *activity.Activity {
	return &activity.Activity{
		Kind:              activity.KindVisit,
		Status:            activity.StatusScheduled,
		StartAt:           start,
		EndAt:             start.Add(time.Hour),
		ResponsibleUserID: user,
	}
}

type failingUsers struct{}

func (failingUsers) ListUsers(context.Context) ([]activity.User, error) {
	return nil, errors.New("boom")
}

func TestLoadInitial(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	for _, a := range []*activity.Activity{
		visit(monday.Add(9*time.Hour), 1),
		visit(monday.AddDate(0, 0, 8).Add(9*time.Hour), 1),
	} {
		if _, err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := repo.SaveUsers(ctx, []activity.User{{ID: 1, Username: "ana"}}); err != nil {
		t.Fatalf("SaveUsers failed: %v", err)
	}

	f := activity.Filter{From: monday, To: monday.AddDate(0, 0, 7)}
	msg := LoadInitial(repo, repo, f, nil)()

	loaded, ok := msg.(InitialLoadMsg)
	if !ok {
		t.Fatalf("msg = %T, want InitialLoadMsg", msg)
	}
	if len(loaded.Activities) != 1 {
		t.Errorf("activities = %d, want 1 in range", len(loaded.Activities))
	}
	if len(loaded.Users) != 1 || loaded.Users[0].Username != "ana" {
		t.Errorf("users = %+v", loaded.Users)
	}
	if !loaded.From.Equal(monday) {
		t.Errorf("From = %v", loaded.From)
	}
}

func TestLoadInitial_UserError(t *testing.T) {
	repo := newRepo(t)
	msg := LoadInitial(repo, failingUsers{}, activity.Filter{}, nil)()

	errMsg, ok := msg.(ErrMsg)
	if !ok {
		t.Fatalf("msg = %T, want ErrMsg", msg)
	}
	if errMsg.Err == nil || errMsg.Err.Error() != "loading users: boom" {
		t.Errorf("err = %v", errMsg.Err)
	}
}

func TestLoadRange_Timeout(t *testing.T) {
	repo := newRepo(t)
	called := false
	timeout := func(ctx context.Context) (context.Context, context.CancelFunc) {
		called = true
		return context.WithTimeout(ctx, time.Second)
	}

	msg := LoadRange(repo, activity.Filter{}, timeout)()
	if _, ok := msg.(RangeLoadedMsg); !ok {
		t.Fatalf("msg = %T, want RangeLoadedMsg", msg)
	}
	if !called {
		t.Error("timeout func not used")
	}
}

func TestSaveForm(t *testing.T) {
	repo := newRepo(t)
	p := calendar.NewPersister(repo)
	defer p.Close()

	a := visit(monday.Add(9*time.Hour), 1)
	msg := SaveForm(p, nil, a, nil)()
	saved, ok := msg.(FormSavedMsg)
	if !ok {
		t.Fatalf("msg = %T, want FormSavedMsg", msg)
	}
	if !saved.Created || saved.Activity.ID == 0 {
		t.Fatalf("saved = %+v", saved)
	}

	edit := saved.Activity.Clone()
	edit.EmployeeDescription = "bring keys"
	msg = SaveForm(p, saved.Activity, edit, nil)()
	saved, ok = msg.(FormSavedMsg)
	if !ok {
		t.Fatalf("msg = %T, want FormSavedMsg", msg)
	}
	if saved.Created || saved.Activity.EmployeeDescription != "bring keys" {
		t.Errorf("saved = %+v", saved.Activity)
	}
}

func TestSaveForm_Invalid(t *testing.T) {
	repo := newRepo(t)
	p := calendar.NewPersister(repo)
	defer p.Close()

	a := visit(monday.Add(9*time.Hour), 1)
	a.EndAt = a.StartAt.Add(-time.Minute)

	msg := SaveForm(p, nil, a, nil)()
	formErr, ok := msg.(FormErrorMsg)
	if !ok {
		t.Fatalf("msg = %T, want FormErrorMsg", msg)
	}
	var ve *activity.ValidationError
	if !errors.As(formErr.Err, &ve) {
		t.Errorf("err = %v, want ValidationError", formErr.Err)
	}
}

func TestWaitPersisted(t *testing.T) {
	results := make(chan calendar.Result, 1)
	results <- calendar.Result{Op: calendar.OpMove, ActivityID: 7}

	msg := WaitPersisted(results)()
	persisted, ok := msg.(PersistedMsg)
	if !ok || persisted.Result.ActivityID != 7 {
		t.Fatalf("msg = %#v", msg)
	}

	close(results)
	if msg := WaitPersisted(results)(); msg != nil {
		t.Errorf("closed channel msg = %#v, want nil", msg)
	}
}

func TestWaitExpired(t *testing.T) {
	if WaitExpired(nil) != nil {
		t.Error("nil channel should produce no command")
	}

	expired := make(chan struct{})
	close(expired)
	if _, ok := WaitExpired(expired)().(SessionExpiredMsg); !ok {
		t.Error("expected SessionExpiredMsg")
	}
}

func TestSaveTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	if err := cfg.Set("ui.theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	msg := SaveTheme(cfg, path)()
	saved, ok := msg.(ThemeSavedMsg)
	if !ok {
		t.Fatalf("msg = %T, want ThemeSavedMsg", msg)
	}
	if saved.Name != "light" {
		t.Errorf("Name = %q", saved.Name)
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("stored theme = %q", loaded.UI.Theme)
	}

	if _, ok := SaveTheme(nil, path)().(ErrMsg); !ok {
		t.Error("nil config should fail")
	}
}
