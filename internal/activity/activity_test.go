package activity

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Kind
		wantOK bool
	}{
		{name: "wire string", input: "Visita", want: KindVisit, wantOK: true},
		{name: "wire string with accent", input: "Adquisición", want: KindAcquisition, wantOK: true},
		{name: "english label", input: "Direct contact", want: KindDirectContact, wantOK: true},
		{name: "case insensitive", input: "CALL", want: KindCall, wantOK: true},
		{name: "normalized key", input: "meeting-or-course", want: KindMeetingOrCourse, wantOK: true},
		{name: "short alias", input: "zone", want: KindZone, wantOK: true},
		{name: "unknown", input: "Lunch", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKind(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseKind(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input  string
		want   Status
		wantOK bool
	}{
		{input: "En proceso", want: StatusScheduled, wantOK: true},
		{input: "realizada", want: StatusDone, wantOK: true},
		{input: "Not done", want: StatusNotDone, wantOK: true},
		{input: "not-done", want: StatusNotDone, wantOK: true},
		{input: "pending", want: StatusScheduled, wantOK: true},
		{input: "archived", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseStatus(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKindSubjectIsClient(t *testing.T) {
	clients := map[Kind]bool{
		KindAcquisition:     false,
		KindVisit:           true,
		KindCall:            false,
		KindDirectContact:   false,
		KindGeneric:         true,
		KindZone:            false,
		KindMeetingOrCourse: true,
	}
	for k, want := range clients {
		if got := k.SubjectIsClient(); got != want {
			t.Errorf("%s.SubjectIsClient() = %v, want %v", k.Label(), got, want)
		}
	}
}

func TestUnknownKindLabel(t *testing.T) {
	k := Kind("Tasación")
	if k.Known() {
		t.Fatal("expected unknown kind")
	}
	if k.Label() != "Tasación" {
		t.Errorf("Label() = %q, want wire string", k.Label())
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{user: User{Username: "ana", FirstName: "Ana", LastName: "Ruiz"}, want: "Ana Ruiz"},
		{user: User{Username: "ana", FirstName: "Ana"}, want: "Ana"},
		{user: User{Username: "ana", LastName: "Ruiz"}, want: "Ruiz"},
		{user: User{Username: "ana"}, want: "ana"},
	}
	for _, tt := range tests {
		if got := tt.user.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestActivityOverlaps(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	a := &Activity{StartAt: at(9, 0), EndAt: at(10, 0)}
	tests := []struct {
		name  string
		other *Activity
		want  bool
	}{
		{name: "touching after", other: &Activity{StartAt: at(10, 0), EndAt: at(11, 0)}, want: false},
		{name: "touching before", other: &Activity{StartAt: at(8, 0), EndAt: at(9, 0)}, want: false},
		{name: "inside", other: &Activity{StartAt: at(9, 15), EndAt: at(9, 30)}, want: true},
		{name: "partial", other: &Activity{StartAt: at(9, 45), EndAt: at(10, 30)}, want: true},
		{name: "nil", other: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActivityCloneIsDeep(t *testing.T) {
	a := &Activity{
		ID:          1,
		ClientID:    Ref(7),
		Responsible: &User{ID: 3, Username: "ana"},
	}
	c := a.Clone()
	*c.ClientID = 8
	c.Responsible.Username = "luis"

	if *a.ClientID != 7 {
		t.Errorf("original ClientID changed to %d", *a.ClientID)
	}
	if a.Responsible.Username != "ana" {
		t.Errorf("original Responsible changed to %q", a.Responsible.Username)
	}
}

func TestActivityShift(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Activity{StartAt: start, EndAt: start.Add(time.Hour)}

	moved := a.Shift(15 * time.Minute)
	if !moved.StartAt.Equal(start.Add(15*time.Minute)) || moved.Duration() != time.Hour {
		t.Errorf("Shift() = %v-%v", moved.StartAt, moved.EndAt)
	}
	if !a.StartAt.Equal(start) {
		t.Error("Shift() mutated the receiver")
	}
}

func TestSetStatusClearsPublicDescription(t *testing.T) {
	a := &Activity{Status: StatusDone, PublicDescription: "Visited the flat"}

	if got := a.SubmittedPublicDescription(); got != "Visited the flat" {
		t.Errorf("SubmittedPublicDescription() = %q", got)
	}

	a.SetStatus(StatusNotDone)
	if a.PublicDescription != "" {
		t.Errorf("PublicDescription = %q, want empty", a.PublicDescription)
	}
	if got := a.SubmittedPublicDescription(); got != PendingPublicDescription {
		t.Errorf("SubmittedPublicDescription() = %q, want placeholder", got)
	}
}

func TestLinkSubject(t *testing.T) {
	a := &Activity{}
	a.LinkClient(4)
	a.LinkProperty(9)
	if a.ClientID != nil {
		t.Error("LinkProperty should clear the client")
	}
	if a.PropertyID == nil || *a.PropertyID != 9 {
		t.Errorf("PropertyID = %v, want 9", a.PropertyID)
	}

	a.LinkClient(4)
	if a.PropertyID != nil || a.ClientID == nil || *a.ClientID != 4 {
		t.Errorf("LinkClient() left client=%v property=%v", a.ClientID, a.PropertyID)
	}
}

func TestClockToMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "00:00", want: 0},
		{input: "06:15", want: 375},
		{input: "23:45", want: 1425},
		{input: "24:00", want: 1440},
		{input: "24:15", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "9:00", wantErr: true},
		{input: "ab:cd", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ClockToMinutes(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeFormat) {
					t.Errorf("ClockToMinutes(%q) error = %v, want ErrInvalidTimeFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClockToMinutes(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ClockToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestAtEndOfDay(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	got, err := At(date, "24:00", time.UTC)
	if err != nil {
		t.Fatalf("At() error: %v", err)
	}
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At(24:00) = %v, want %v", got, want)
	}
}

func TestRoundUpToQuarter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "09:00:00", want: "09:00"},
		{in: "09:01:00", want: "09:15"},
		{in: "09:14:59", want: "09:15"},
		{in: "09:46:00", want: "10:00"},
		{in: "23:50:00", want: "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			in, _ := time.Parse("15:04:05", tt.in)
			if got := ClockOf(RoundUpToQuarter(in)); got != tt.want {
				t.Errorf("RoundUpToQuarter(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func validForm() Form {
	return Form{
		Kind:              KindVisit,
		Status:            StatusScheduled,
		Date:              "2025-03-10",
		Start:             "09:00",
		End:               "10:00",
		ResponsibleUserID: 3,
		ClientID:          Ref(12),
	}
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *Form)
		field   string
		wantErr error
	}{
		{name: "valid", mutate: func(f *Form) {}},
		{name: "end before start", mutate: func(f *Form) { f.End = "08:45" }, field: "End", wantErr: ErrEndBeforeStart},
		{name: "end equals start", mutate: func(f *Form) { f.End = "09:00" }, field: "End", wantErr: ErrEndBeforeStart},
		{name: "end of day", mutate: func(f *Form) { f.Start = "23:00"; f.End = "24:00" }},
		{name: "bad clock", mutate: func(f *Form) { f.Start = "9h" }, field: "Start", wantErr: ErrInvalidTimeFormat},
		{name: "missing responsible", mutate: func(f *Form) { f.ResponsibleUserID = 0 }, field: "ResponsibleUserID", wantErr: ErrMissingResponsible},
		{name: "client and property", mutate: func(f *Form) { f.PropertyID = Ref(5) }, field: "ClientID", wantErr: ErrClientAndProperty},
		{name: "long description", mutate: func(f *Form) { f.EmployeeDescription = strings.Repeat("x", 1025) }, field: "EmployeeDescription", wantErr: ErrDescriptionTooLong},
		{name: "max description", mutate: func(f *Form) { f.EmployeeDescription = strings.Repeat("x", 1024) }},
		{name: "unknown kind", mutate: func(f *Form) { f.Kind = "Lunch" }, field: "Kind"},
		{name: "bad date", mutate: func(f *Form) { f.Date = "10/03/2025" }, field: "Date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			err := f.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Fatalf("Validate() fields = %v, want %s", verr.Fields, tt.field)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormBuild(t *testing.T) {
	f := validForm()
	f.PublicDescription = "ignored while scheduled"

	a, err := f.Build(time.UTC)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if want := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC); !a.StartAt.Equal(want) {
		t.Errorf("StartAt = %v, want %v", a.StartAt, want)
	}
	if a.Duration() != time.Hour {
		t.Errorf("Duration() = %v, want 1h", a.Duration())
	}
	if a.PublicDescription != "" {
		t.Errorf("PublicDescription = %q, want empty when not done", a.PublicDescription)
	}

	f.Status = StatusDone
	a, err = f.Build(time.UTC)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if a.PublicDescription != "ignored while scheduled" {
		t.Errorf("PublicDescription = %q, want kept when done", a.PublicDescription)
	}
}

func TestFormForRoundTrip(t *testing.T) {
	start := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	a := &Activity{
		Kind:              KindCall,
		Status:            StatusScheduled,
		StartAt:           start,
		EndAt:             start.Add(time.Hour),
		PropertyID:        Ref(5),
		ResponsibleUserID: 2,
	}

	f := FormFor(a)
	if f.End != "24:00" {
		t.Errorf("End = %q, want 24:00", f.End)
	}
	b, err := f.Build(time.UTC)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !b.StartAt.Equal(a.StartAt) || !b.EndAt.Equal(a.EndAt) {
		t.Errorf("round trip = %v-%v, want %v-%v", b.StartAt, b.EndAt, a.StartAt, a.EndAt)
	}
}

func TestNewFormDefaults(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 7, 30, 0, time.UTC)
	f := NewForm(now, now, 3)

	if f.Start != "09:15" || f.End != "10:15" {
		t.Errorf("NewForm times = %s-%s, want 09:15-10:15", f.Start, f.End)
	}
	if f.Kind != KindVisit || f.Status != StatusScheduled {
		t.Errorf("NewForm kind/status = %s/%s", f.Kind, f.Status)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("NewForm should validate: %v", err)
	}
}

func TestValidateActivity(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	base := func() *Activity {
		return &Activity{StartAt: start, EndAt: start.Add(time.Hour), ResponsibleUserID: 1, Status: StatusScheduled}
	}

	if err := Validate(base(), 15*time.Minute); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	short := base()
	short.EndAt = start.Add(10 * time.Minute)
	if err := Validate(short, 15*time.Minute); !errors.Is(err, ErrDurationTooShort) {
		t.Errorf("Validate(short) = %v, want ErrDurationTooShort", err)
	}

	inverted := base()
	inverted.EndAt = start
	if err := Validate(inverted, 0); !errors.Is(err, ErrEndBeforeStart) {
		t.Errorf("Validate(inverted) = %v, want ErrEndBeforeStart", err)
	}

	public := base()
	public.PublicDescription = "done already"
	if err := Validate(public, 0); !errors.Is(err, ErrPublicDescNotDone) {
		t.Errorf("Validate(public) = %v, want ErrPublicDescNotDone", err)
	}
}

func TestUpdateApply(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Activity{
		ID:                  1,
		Kind:                KindVisit,
		StartAt:             start,
		EndAt:               start.Add(time.Hour),
		EmployeeDescription: "keys at reception",
	}

	u := Times(start.Add(30*time.Minute), start.Add(90*time.Minute))
	if got := u.Changed(); len(got) != 2 || got[0] != FieldStartAt || got[1] != FieldEndAt {
		t.Fatalf("Changed() = %v", got)
	}
	if u.IsFull() {
		t.Error("time update should not be full")
	}

	out := u.Apply(a)
	if !out.StartAt.Equal(start.Add(30 * time.Minute)) {
		t.Errorf("StartAt = %v", out.StartAt)
	}
	if out.EmployeeDescription != "keys at reception" || out.Kind != KindVisit {
		t.Error("Apply() touched unchanged fields")
	}
	if !a.StartAt.Equal(start) {
		t.Error("Apply() mutated the input")
	}
}

func TestUpdateBuildersDoNotShareFields(t *testing.T) {
	base := NewUpdate().WithKind(KindCall)
	a := base.WithResponsible(3)
	b := base.WithEmployeeDescription("x")

	if a.Has(FieldEmployeeDescription) || b.Has(FieldResponsibleUserID) {
		t.Error("derived updates share their changed set")
	}
	if base.Has(FieldResponsibleUserID) {
		t.Error("base update was mutated")
	}
}

func TestUpdateWithStatusClearsPublic(t *testing.T) {
	u := NewUpdate().WithStatus(StatusNotDone)
	if !u.Has(FieldPublicDescription) || u.Values.PublicDescription != "" {
		t.Errorf("WithStatus(NotDone) fields = %v", u.Changed())
	}
	if NewUpdate().WithStatus(StatusDone).Has(FieldPublicDescription) {
		t.Error("WithStatus(Done) should leave the public description alone")
	}
}

func TestReplaceAndDiff(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Activity{ID: 1, Kind: KindZone, StartAt: start, EndAt: start.Add(time.Hour), PropertyID: Ref(4)}

	if !Replace(a).IsFull() {
		t.Error("Replace() should carry every field")
	}

	b := a.Clone()
	b.EndAt = b.EndAt.Add(15 * time.Minute)
	b.PropertyID = Ref(5)
	d := Diff(a, b)
	if got := d.Changed(); len(got) != 2 || got[0] != FieldEndAt || got[1] != FieldPropertyID {
		t.Errorf("Diff() changed = %v", got)
	}
	if !Diff(a, a.Clone()).Empty() {
		t.Error("Diff of equal activities should be empty")
	}
}

func TestFilterMatch(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	acts := []*Activity{
		{ID: 1, StartAt: day.Add(9 * time.Hour), ResponsibleUserID: 1, ClientID: Ref(10)},
		{ID: 2, StartAt: day.Add(33 * time.Hour), ResponsibleUserID: 2, PropertyID: Ref(20)},
		{ID: 3, StartAt: day.Add(-time.Hour), ResponsibleUserID: 1, RequestID: Ref(30)},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{name: "empty", filter: Filter{}, want: []int64{1, 2, 3}},
		{name: "day range", filter: Filter{From: day, To: day.AddDate(0, 0, 1)}, want: []int64{1}},
		{name: "user", filter: Filter{UserIDs: []int64{2}}, want: []int64{2}},
		{name: "client", filter: Filter{ClientID: 10}, want: []int64{1}},
		{name: "property", filter: Filter{PropertyID: 20}, want: []int64{2}},
		{name: "request", filter: Filter{RequestID: 30}, want: []int64{3}},
		{name: "no match", filter: Filter{ClientID: 99}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(acts)
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() returned %d activities, want %d", len(got), len(tt.want))
			}
			for i, a := range got {
				if a.ID != tt.want[i] {
					t.Errorf("Apply()[%d].ID = %d, want %d", i, a.ID, tt.want[i])
				}
			}
		})
	}
}
