// Package tui provides the terminal calendar for hawkeye.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/calendar"
	"github.com/hawkeyecrm/hawkeye/internal/config"
	"github.com/hawkeyecrm/hawkeye/internal/dateutil"
	"github.com/hawkeyecrm/hawkeye/internal/observability"
	"github.com/hawkeyecrm/hawkeye/internal/session"
	"github.com/hawkeyecrm/hawkeye/internal/tui/commands"
	"github.com/hawkeyecrm/hawkeye/internal/tui/theme"
	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone           ModalType = iota
	ModalActivityForm             // create or edit
	ModalActivityDetail           // read-only view
	ModalUserFilter
	ModalSessionExpired
)

// ViewKind is the visible range.
type ViewKind int

const (
	ViewWeek ViewKind = iota
	ViewDay
)

// Position represents a cursor position in the grid.
type Position struct {
	Col int // day column, 0 in day view
	Row int // axis row
}

const (
	timeColumnWidth = 6
	minColumnWidth  = 4
	titleLines      = 1
	resultBuffer    = 64
)

// Options holds the dependencies of the calendar.
type Options struct {
	Store         activity.Store
	Users         activity.UserDirectory // optional
	Session       *session.Session       // optional, nil when offline
	Config        *config.Config
	ConfigPath    string // empty uses the default location
	Logger        *applog.Logger
	Metrics       *observability.Metrics
	Timeout       commands.Timeout
	Location      *time.Location
	Now           func() time.Time
	CurrentUserID int64 // default responsible for new activities
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store         activity.Store
	users         activity.UserDirectory
	session       *session.Session
	config        *config.Config
	configPath    string
	log           *applog.Logger
	metrics       *observability.Metrics
	timeout       commands.Timeout
	loc           *time.Location
	now           func() time.Time
	currentUserID int64

	// Grid engine
	axis      calendar.Axis
	layout    calendar.Layout
	gestures  *calendar.Gestures
	persister *calendar.Persister
	results   chan calendar.Result

	// Theme and styles
	theme   *theme.Theme
	styles  *Styles
	overlay OverlayModel

	// Data
	viewKind   ViewKind
	weekStart  time.Time // Monday of the visible week
	day        time.Time // visible day in day view
	activities []*activity.Activity
	slots      []calendar.Slot
	directory  []activity.User
	userFilter map[int64]bool // nil shows every user
	userCursor int

	// Interaction
	cursor       Position
	scroll       int
	mode         Mode
	modalType    ModalType
	modalAct     *activity.Activity
	form         *activityForm
	gestureMoved bool

	// Terminal dimensions
	width    int
	height   int
	colWidth int

	// State
	loading    bool
	expired    bool
	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// New creates the calendar model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger

	axis, err := calendar.NewAxis(cfg.Calendar.StartHour, cfg.Calendar.EndHour, cfg.Calendar.IntervalMinutes)
	if err != nil {
		log.Warn("AXIS_FALLBACK", applog.Fields{"error": err.Error()})
		axis = calendar.DefaultAxis()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.Default)
	}
	styles := NewStyles(t)

	results := make(chan calendar.Result, resultBuffer)
	persister := calendar.NewPersister(opts.Store,
		calendar.WithLogger(log),
		calendar.WithMetrics(opts.Metrics),
		calendar.WithSupersede(cfg.Calendar.SupersedeDragUpdates),
		calendar.WithMinDuration(axis),
		calendar.WithNotify(func(r calendar.Result) {
			select {
			case results <- r:
			default:
			}
		}),
	)

	today := dateutil.TruncateToDay(now().In(loc))
	weekStart, _ := dateutil.WeekRange(today)

	m := Model{
		store:         opts.Store,
		users:         opts.Users,
		session:       opts.Session,
		config:        cfg,
		configPath:    opts.ConfigPath,
		log:           log,
		metrics:       opts.Metrics,
		timeout:       opts.Timeout,
		loc:           loc,
		now:           now,
		currentUserID: opts.CurrentUserID,
		axis:          axis,
		layout:        calendar.NewLayout(axis, cfg.Calendar.MaxColumns),
		persister:     persister,
		results:       results,
		theme:         t,
		styles:        styles,
		overlay:       NewOverlayModel(styles.ModalBgColor),
		viewKind:      ViewWeek,
		weekStart:     weekStart,
		day:           today,
		cursor:        Position{Col: dateutil.WeekdayIndex(today), Row: axis.Clamp(axis.RowAt(now().In(loc)))},
		mode:          ModeNormal,
		loading:       true,
	}
	m.rebuildGestures()
	return m
}

// Init starts the first load and the background listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		commands.LoadInitial(m.store, m.users, m.rangeFilter(), m.timeout),
		commands.WaitPersisted(m.results),
	}
	if m.session != nil {
		cmds = append(cmds, commands.WaitExpired(m.session.Expired()))
	}
	return tea.Batch(cmds...)
}

// Run starts the TUI and blocks until it exits. Pending writes are flushed
// before returning.
func Run(opts Options) error {
	m := New(opts)
	defer m.persister.Close()

	m.log.Info("TUI_START", applog.Fields{"theme": m.theme.Name, "rows": m.axis.Rows()})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	m.persister.Wait()
	m.log.Info("TUI_END", nil)
	return err
}

// days returns the number of visible day columns.
func (m Model) days() int {
	if m.viewKind == ViewDay {
		return 1
	}
	return 7
}

// firstDay returns the date of the first visible column.
func (m Model) firstDay() time.Time {
	if m.viewKind == ViewDay {
		return m.day
	}
	return m.weekStart
}

// columnDate returns the date shown in column col.
func (m Model) columnDate(col int) time.Time {
	return m.firstDay().AddDate(0, 0, col)
}

// anchorDate is the reference day used to resolve selection labels.
func (m Model) anchorDate() time.Time {
	if m.viewKind == ViewDay {
		return m.day
	}
	return m.weekStart
}

// rangeFilter returns the store filter of the visible range.
func (m Model) rangeFilter() activity.Filter {
	from := m.firstDay()
	return activity.Filter{From: from, To: from.AddDate(0, 0, m.days())}
}

// rebuildGestures replaces the gesture machine after a geometry change.
func (m *Model) rebuildGestures() {
	opts := []calendar.GestureOption{
		calendar.WithThrottle(m.config.DragThrottle()),
	}
	if m.viewKind == ViewDay {
		opts = append(opts, calendar.WithDayView())
	} else {
		opts = append(opts, calendar.WithGeometry(1, max(1, m.colWidth)+1))
	}
	m.gestures = calendar.NewGestures(m.axis, opts...)
}

// visibleRows returns the number of time rows that fit on screen.
func (m Model) visibleRows() int {
	rows := m.height - titleLines - view.GridHeaderLines - view.FooterHeight
	return max(0, min(rows, m.axis.Rows()))
}

// calculateColWidth splits the width left of the time column evenly.
func (m Model) calculateColWidth() int {
	days := m.days()
	w := (m.width - timeColumnWidth - days) / days
	return max(minColumnWidth, w)
}

// ensureCursorVisible scrolls so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if visible <= 0 {
		m.scroll = 0
		return
	}
	if m.cursor.Row < m.scroll {
		m.scroll = m.cursor.Row
	}
	if m.cursor.Row >= m.scroll+visible {
		m.scroll = m.cursor.Row - visible + 1
	}
	m.scroll = max(0, min(m.scroll, m.axis.Rows()-visible))
}

// setStatus shows a temporary footer message.
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	d := 3 * time.Second
	if isErr {
		d = 5 * time.Second
	}
	m.statusTime = m.now().Add(d)
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}
