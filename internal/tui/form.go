package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/tui/view"
)

// Form fields in focus order.
const (
	fieldKind = iota
	fieldStatus
	fieldDate
	fieldStart
	fieldEnd
	fieldResponsible
	fieldSubject
	fieldRequest
	fieldNotes
	fieldPublic
	fieldCount
)

// fieldKeys maps form rows to the activity.Form field names used in
// validation errors.
var fieldKeys = map[int][]string{
	fieldKind:        {"Kind"},
	fieldStatus:      {"Status"},
	fieldDate:        {"Date"},
	fieldStart:       {"Start"},
	fieldEnd:         {"End"},
	fieldResponsible: {"ResponsibleUserID"},
	fieldSubject:     {"ClientID", "PropertyID"},
	fieldRequest:     {"RequestID"},
	fieldNotes:       {"EmployeeDescription"},
	fieldPublic:      {"PublicDescription"},
}

// activityForm is the state of the create/edit modal.
type activityForm struct {
	editing *activity.Activity // nil when creating

	kinds  []activity.Kind
	kind   int
	status int
	date   time.Time
	start  int // minutes from midnight
	end    int
	step   int // picker step in minutes

	users       []activity.User
	responsible int64

	subject textinput.Model
	request textinput.Model
	notes   textinput.Model
	public  textinput.Model

	focus   int
	errors  map[int]string
	err     string
	pending bool
}

func newTextInput(placeholder string, limit int, s *Styles) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = s.ModalInputTextStyle
	ti.PromptStyle = s.ModalInputTextStyle
	ti.PlaceholderStyle = s.ModalPlaceholderStyle
	ti.Cursor.Style = s.ModalInputCursorStyle
	ti.Cursor.TextStyle = s.ModalInputTextStyle
	return ti
}

// newActivityForm builds the modal from a pre-filled activity.Form.
func newActivityForm(f activity.Form, editing *activity.Activity, users []activity.User, step int, loc *time.Location, s *Styles) *activityForm {
	af := &activityForm{
		editing:     editing,
		kinds:       slices.Clone(activity.Kinds),
		step:        max(1, step),
		users:       users,
		responsible: f.ResponsibleUserID,
		errors:      make(map[int]string),
		subject:     newTextInput("id", 12, s),
		request:     newTextInput("id", 12, s),
		notes:       newTextInput("Notes for the team", activity.MaxEmployeeDescription, s),
		public:      newTextInput("Shown to the client once done", 0, s),
	}

	if i := slices.Index(af.kinds, f.Kind); i >= 0 {
		af.kind = i
	} else if f.Kind != "" {
		af.kinds = append(af.kinds, f.Kind)
		af.kind = len(af.kinds) - 1
	}
	af.status = max(0, slices.Index(activity.Statuses, f.Status))

	if d, err := time.ParseInLocation("2006-01-02", f.Date, loc); err == nil {
		af.date = d
	}
	af.start, _ = activity.ClockToMinutes(f.Start)
	af.end, _ = activity.ClockToMinutes(f.End)

	switch {
	case f.ClientID != nil:
		af.subject.SetValue(strconv.FormatInt(*f.ClientID, 10))
	case f.PropertyID != nil:
		af.subject.SetValue(strconv.FormatInt(*f.PropertyID, 10))
	}
	if f.RequestID != nil {
		af.request.SetValue(strconv.FormatInt(*f.RequestID, 10))
	}
	af.notes.SetValue(f.EmployeeDescription)
	af.public.SetValue(f.PublicDescription)

	return af
}

// Title returns the modal title.
func (f *activityForm) Title() string {
	if f.editing != nil {
		return "Edit activity"
	}
	return "New activity"
}

func (f *activityForm) currentKind() activity.Kind {
	return f.kinds[f.kind]
}

func (f *activityForm) currentStatus() activity.Status {
	return activity.Statuses[f.status]
}

func (f *activityForm) publicEnabled() bool {
	return f.currentStatus() == activity.StatusDone
}

// focusNext moves focus by delta, skipping the public description unless
// the status allows it.
func (f *activityForm) focusNext(delta int) {
	for range fieldCount {
		f.focus = (f.focus + delta + fieldCount) % fieldCount
		if f.focus != fieldPublic || f.publicEnabled() {
			break
		}
	}
	f.syncFocus()
}

func (f *activityForm) syncFocus() {
	inputs := map[int]*textinput.Model{
		fieldSubject: &f.subject,
		fieldRequest: &f.request,
		fieldNotes:   &f.notes,
		fieldPublic:  &f.public,
	}
	for field, in := range inputs {
		if field == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f *activityForm) input() *textinput.Model {
	switch f.focus {
	case fieldSubject:
		return &f.subject
	case fieldRequest:
		return &f.request
	case fieldNotes:
		return &f.notes
	case fieldPublic:
		return &f.public
	}
	return nil
}

// adjust moves the focused picker by delta steps. It reports whether the
// focused field is a picker.
func (f *activityForm) adjust(delta int) bool {
	switch f.focus {
	case fieldKind:
		f.kind = (f.kind + delta + len(f.kinds)) % len(f.kinds)
	case fieldStatus:
		f.status = (f.status + delta + len(activity.Statuses)) % len(activity.Statuses)
		if !f.publicEnabled() {
			f.public.SetValue("")
		}
	case fieldDate:
		f.date = f.date.AddDate(0, 0, delta)
	case fieldStart:
		dur := f.end - f.start
		f.start = max(0, min(f.start+delta*f.step, 24*60-f.step))
		f.end = min(24*60, f.start+max(dur, f.step))
	case fieldEnd:
		f.end = max(f.start+f.step, min(f.end+delta*f.step, 24*60))
	case fieldResponsible:
		if len(f.users) == 0 {
			return true
		}
		i := slices.IndexFunc(f.users, func(u activity.User) bool { return u.ID == f.responsible })
		if i < 0 {
			i = 0
		} else {
			i = (i + delta + len(f.users)) % len(f.users)
		}
		f.responsible = f.users[i].ID
	default:
		return false
	}
	return true
}

// Update feeds a key to the focused text input.
func (f *activityForm) Update(msg tea.KeyMsg) tea.Cmd {
	in := f.input()
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

// Form converts the modal state to an activity.Form. Malformed ids are
// reported as field errors.
func (f *activityForm) Form() (activity.Form, map[int]string) {
	out := activity.Form{
		Kind:                f.currentKind(),
		Status:              f.currentStatus(),
		Date:                f.date.Format("2006-01-02"),
		Start:               activity.MinutesToClock(f.start),
		End:                 activity.MinutesToClock(f.end),
		EmployeeDescription: strings.TrimSpace(f.notes.Value()),
		ResponsibleUserID:   f.responsible,
	}
	if f.publicEnabled() {
		out.PublicDescription = strings.TrimSpace(f.public.Value())
	}

	bad := make(map[int]string)
	if id, ok, err := parseID(f.subject.Value()); err != nil {
		bad[fieldSubject] = err.Error()
	} else if ok {
		if out.Kind.SubjectIsClient() {
			out.ClientID = activity.Ref(id)
		} else {
			out.PropertyID = activity.Ref(id)
		}
	}
	if id, ok, err := parseID(f.request.Value()); err != nil {
		bad[fieldRequest] = err.Error()
	} else if ok {
		out.RequestID = activity.Ref(id)
	}
	return out, bad
}

func parseID(s string) (int64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false, fmt.Errorf("%q is not a valid id", s)
	}
	return id, true, nil
}

// Build validates the form and returns the activity to submit.
// On failure the field errors are stored on the form.
func (f *activityForm) Build(loc *time.Location) (*activity.Activity, bool) {
	f.errors = make(map[int]string)
	f.err = ""

	form, bad := f.Form()
	if len(bad) > 0 {
		f.errors = bad
		return nil, false
	}
	a, err := form.Build(loc)
	if err != nil {
		f.SetError(err)
		return nil, false
	}
	if f.editing != nil {
		a.ID = f.editing.ID
		a.ClientName = f.editing.ClientName
	}
	for _, u := range f.users {
		if u.ID == a.ResponsibleUserID {
			a.Responsible = &u
			break
		}
	}
	return a, true
}

// SetError shows err on the fields it names, or as a form-level message.
func (f *activityForm) SetError(err error) {
	var ve *activity.ValidationError
	if !errors.As(err, &ve) {
		f.err = err.Error()
		return
	}
	for field, keys := range fieldKeys {
		for _, k := range keys {
			if fe, ok := ve.Fields[k]; ok {
				f.errors[field] = fe.Error()
			}
		}
	}
	if len(f.errors) == 0 {
		f.err = err.Error()
	}
}

func (f *activityForm) responsibleLabel() string {
	for _, u := range f.users {
		if u.ID == f.responsible {
			return u.DisplayName()
		}
	}
	if f.responsible > 0 {
		return fmt.Sprintf("User #%d", f.responsible)
	}
	return "Not set"
}

// Model returns the view model of the form body.
func (f *activityForm) Model() view.ActivityFormModel {
	kindLabels := make([]string, len(f.kinds))
	for i, k := range f.kinds {
		kindLabels[i] = k.Label()
	}
	statusLabels := make([]string, len(activity.Statuses))
	for i, s := range activity.Statuses {
		statusLabels[i] = s.Label()
	}

	subjectLabel := "Property ID"
	if f.currentKind().SubjectIsClient() {
		subjectLabel = "Client ID"
	}

	public := view.FormField{Label: "Public", Value: f.public.View()}
	if !f.publicEnabled() {
		public.Value = "Only when done"
		public.Disabled = true
	}

	fields := []view.FormField{
		{Label: "Kind", Options: kindLabels, Active: f.kind, Hint: "←/→"},
		{Label: "Status", Options: statusLabels, Active: f.status, Hint: "←/→"},
		{Label: "Date", Value: f.date.Format("Mon 2006-01-02"), Hint: "←/→ day"},
		{Label: "Start", Value: activity.MinutesToClock(f.start), Hint: fmt.Sprintf("←/→ %dm", f.step)},
		{Label: "End", Value: activity.MinutesToClock(f.end), Hint: fmt.Sprintf("←/→ %dm", f.step)},
		{Label: "Responsible", Value: f.responsibleLabel(), Hint: "←/→"},
		{Label: subjectLabel, Value: f.subject.View()},
		{Label: "Request ID", Value: f.request.View()},
		{Label: "Notes", Value: f.notes.View(), Hint: fmt.Sprintf("%d/%d", len([]rune(f.notes.Value())), activity.MaxEmployeeDescription)},
		public,
	}
	for i := range fields {
		fields[i].Focused = i == f.focus
		fields[i].Error = f.errors[i]
	}

	model := view.ActivityFormModel{
		MetaDate:  f.date.Format("Mon Jan 2"),
		TimeRange: activity.MinutesToClock(f.start) + "-" + activity.MinutesToClock(f.end),
		Fields:    fields,
		Error:     f.err,
	}
	if f.pending {
		model.Error = "Saving..."
	}
	return model
}
