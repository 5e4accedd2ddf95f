package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/api"
	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/config"
	"github.com/hawkeyecrm/hawkeye/internal/db"
	"github.com/hawkeyecrm/hawkeye/internal/observability"
	"github.com/hawkeyecrm/hawkeye/internal/session"
	"github.com/hawkeyecrm/hawkeye/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// backend is where activities are read from and written to.
type backend interface {
	activity.Store
	activity.UserDirectory
}

// App holds the CLI application state.
type App struct {
	config     *config.Config
	configPath string
	root       *cobra.Command
	debug      bool // Enable debug logging
	offline    bool // Use the local cache instead of the CRM

	out io.Writer
	in  io.Reader
	now func() time.Time
	loc *time.Location

	// Opened on first use.
	repo    *db.SQLite
	sess    *session.Session
	client  *api.Client
	log     *applog.Logger
	metrics *observability.Metrics
}

// NewApp creates a new CLI application with the given config.
// configPath is where config edits are written; empty uses the default location.
func NewApp(cfg *config.Config, configPath string) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		config:     cfg,
		configPath: configPath,
		out:        os.Stdout,
		in:         os.Stdin,
		now:        time.Now,
		loc:        time.Local,
		metrics:    observability.New(),
	}

	a.root = &cobra.Command{
		Use:   "hawkeye",
		Short: "A terminal calendar for the Hawkeye real-estate CRM",
		Long: `Hawkeye shows the CRM agenda as a week or day grid in the terminal.

Drag activities with the mouse to move or resize them, select empty
cells to create new ones, and manage the agenda from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to temp file unless log.path is set)")
	a.root.PersistentFlags().BoolVar(&a.offline, "offline", false, "Use the local cache instead of the CRM")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.loginCmd())
	a.root.AddCommand(a.logoutCmd())
	a.root.AddCommand(a.whoamiCmd())
	a.root.AddCommand(a.syncCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.statusCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.monthCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "hawkeye %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and the log file.
func (a *App) Close() error {
	var errs []error
	if a.log != nil {
		if snap, err := a.metrics.Snapshot(); err == nil && len(snap) > 0 {
			fields := make(applog.Fields, len(snap))
			for k, v := range snap {
				fields[k] = v
			}
			a.log.Debug("METRICS", fields)
		}
	}
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
		a.repo = nil
	}
	if a.log != nil {
		errs = append(errs, a.log.Close())
		a.log = nil
	}
	return errors.Join(errs...)
}

func (a *App) runTUI(ctx context.Context) error {
	store, err := a.backend(ctx)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Store:         store,
		Users:         store,
		Config:        a.config,
		ConfigPath:    a.configPath,
		Logger:        a.logger(),
		Metrics:       a.metrics,
		Location:      a.loc,
		Now:           a.now,
		CurrentUserID: a.currentUserID(ctx),
	}
	if a.client != nil && !a.offline {
		opts.Session = a.client.Session()
		opts.Timeout = a.client.Timeout
	}
	return tui.Run(opts)
}

// ensureRepo opens the local cache.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	repo, err := db.New(path)
	if err != nil {
		return err
	}
	repo.SetLocation(a.loc)
	a.repo = repo
	return nil
}

// logger opens the configured log file. --debug forces debug level and falls
// back to a temp file.
func (a *App) logger() *applog.Logger {
	if a.log != nil {
		return a.log
	}

	level, err := applog.ParseLevel(a.config.Log.Level)
	if err != nil {
		level = applog.LevelInfo
	}
	path := a.config.Log.Path
	if a.debug {
		level = applog.LevelDebug
		if path == "" {
			path = filepath.Join(os.TempDir(), "hawkeye-debug.log")
		}
	}
	if path == "" {
		a.log = applog.Discard()
		return a.log
	}

	l, err := applog.Open(path, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		a.log = applog.Discard()
		return a.log
	}
	if a.debug {
		fmt.Fprintf(os.Stderr, "Debug logging to: %s\n", path)
	}
	a.log = l
	return a.log
}

// openSession loads the stored tokens.
func (a *App) openSession(ctx context.Context) (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	sess, err := session.Load(ctx, a.repo)
	if err != nil {
		return nil, err
	}
	a.sess = sess
	return sess, nil
}

// apiClient builds the CRM client on the stored session.
func (a *App) apiClient(ctx context.Context) (*api.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	sess, err := a.openSession(ctx)
	if err != nil {
		return nil, err
	}
	c, err := api.New(a.config.API.BaseURL, sess,
		api.WithLogger(a.logger()),
		api.WithMetrics(a.metrics),
		api.WithTimeout(a.config.RequestTimeout()),
		api.WithLocation(a.loc),
	)
	if errors.Is(err, api.ErrNoBaseURL) {
		return nil, fmt.Errorf("%w: run \"hawkeye config set api.base_url <url>\"", err)
	}
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

// backend returns the CRM client, or the local cache when offline.
func (a *App) backend(ctx context.Context) (backend, error) {
	if a.offline {
		if err := a.ensureRepo(); err != nil {
			return nil, err
		}
		return a.repo, nil
	}
	c, err := a.apiClient(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Session().LoggedIn() {
		return nil, fmt.Errorf("%w: run \"hawkeye login\" first", session.ErrNotLoggedIn)
	}
	return c, nil
}

// currentUserID is the signed-in user, or 0 when there is no session.
func (a *App) currentUserID(ctx context.Context) int64 {
	sess, err := a.openSession(ctx)
	if err != nil || !sess.LoggedIn() {
		return 0
	}
	return sess.Claims().UserID
}

// interval is the grid step, also the shortest activity.
func (a *App) interval() time.Duration {
	return time.Duration(a.config.Calendar.IntervalMinutes) * time.Minute
}

func (a *App) savePath() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.DefaultConfigPath()
}
