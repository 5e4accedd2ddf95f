// Package activity defines the agenda domain types for hawkeye.
package activity

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrEndBeforeStart     = errors.New("end time must be after start time")
	ErrMissingResponsible = errors.New("a responsible user is required")
	ErrDescriptionTooLong = errors.New("employee description exceeds 1024 characters")
	ErrClientAndProperty  = errors.New("an activity links a client or a property, not both")
	ErrPublicDescNotDone  = errors.New("public description is only editable when the activity is done")
	ErrInvalidTimeFormat  = errors.New("time must be in HH:MM format")
	ErrDurationTooShort   = errors.New("duration is shorter than one calendar interval")
)

// Domain errors.
var (
	ErrNotFound = errors.New("activity not found")
)

// MaxEmployeeDescription is the character cap on the employee description.
const MaxEmployeeDescription = 1024

// PendingPublicDescription is submitted as public description until the activity is done.
const PendingPublicDescription = "Descripción aún no disponible"

// Kind is the activity type. Values are the CRM wire strings.
type Kind string

const (
	KindAcquisition     Kind = "Adquisición"
	KindVisit           Kind = "Visita"
	KindCall            Kind = "Llamada"
	KindDirectContact   Kind = "Contacto directo"
	KindGeneric         Kind = "Genérica"
	KindZone            Kind = "Zona"
	KindMeetingOrCourse Kind = "Reunión o curso"
)

// Kinds lists the selectable kinds in form order.
var Kinds = []Kind{
	KindAcquisition,
	KindVisit,
	KindCall,
	KindDirectContact,
	KindGeneric,
	KindZone,
	KindMeetingOrCourse,
}

// Known reports whether k is one of the fixed kinds.
func (k Kind) Known() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

// Label returns the English display name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindAcquisition:
		return "Acquisition"
	case KindVisit:
		return "Visit"
	case KindCall:
		return "Call"
	case KindDirectContact:
		return "Direct contact"
	case KindGeneric:
		return "Generic"
	case KindZone:
		return "Zone"
	case KindMeetingOrCourse:
		return "Meeting or course"
	default:
		return string(k)
	}
}

// SubjectIsClient reports whether the kind takes a client as primary subject.
// All other kinds take a property.
func (k Kind) SubjectIsClient() bool {
	switch k {
	case KindVisit, KindGeneric, KindMeetingOrCourse:
		return true
	default:
		return false
	}
}

// ParseKind accepts a wire string or an English label (case-insensitive).
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if equalFold(s, string(k)) || equalFold(s, k.Label()) {
			return k, true
		}
	}
	switch normalizeKey(s) {
	case "acquisition":
		return KindAcquisition, true
	case "visit":
		return KindVisit, true
	case "call":
		return KindCall, true
	case "directcontact", "direct":
		return KindDirectContact, true
	case "generic":
		return KindGeneric, true
	case "zone":
		return KindZone, true
	case "meeting", "course", "meetingorcourse":
		return KindMeetingOrCourse, true
	}
	return "", false
}

// Status is the activity state. Values are the CRM wire strings.
type Status string

const (
	StatusScheduled Status = "En proceso"
	StatusDone      Status = "Realizada"
	StatusNotDone   Status = "No realizada"
)

// Statuses lists the selectable statuses in form order.
var Statuses = []Status{StatusScheduled, StatusDone, StatusNotDone}

// Label returns the English display name of the status.
func (s Status) Label() string {
	switch s {
	case StatusScheduled:
		return "Scheduled"
	case StatusDone:
		return "Done"
	case StatusNotDone:
		return "Not done"
	default:
		return string(s)
	}
}

// ParseStatus accepts a wire string or an English label (case-insensitive).
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if equalFold(s, string(st)) || equalFold(s, st.Label()) {
			return st, true
		}
	}
	switch normalizeKey(s) {
	case "scheduled", "pending":
		return StatusScheduled, true
	case "done":
		return StatusDone, true
	case "notdone":
		return StatusNotDone, true
	}
	return "", false
}

// User is the embedded user reference returned by the API.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName returns "First Last", falling back to the username.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// Activity is a scheduled, time-ranged task or appointment.
type Activity struct {
	ID                  int64
	Kind                Kind
	Status              Status
	StartAt             time.Time
	EndAt               time.Time
	EmployeeDescription string
	PublicDescription   string
	ClientID            *int64
	PropertyID          *int64
	RequestID           *int64
	ResponsibleUserID   int64

	// Read-only decorations filled by the API when available.
	Responsible *User
	ClientName  string
}

// Duration returns EndAt - StartAt.
func (a *Activity) Duration() time.Duration {
	return a.EndAt.Sub(a.StartAt)
}

// IsDone reports whether the activity has been marked as done.
func (a *Activity) IsDone() bool {
	return a.Status == StatusDone
}

// Overlaps reports whether two activities share any instant.
func (a *Activity) Overlaps(other *Activity) bool {
	if other == nil {
		return false
	}
	return a.StartAt.Before(other.EndAt) && other.StartAt.Before(a.EndAt)
}

// Shift returns a copy moved by d.
func (a *Activity) Shift(d time.Duration) *Activity {
	c := a.Clone()
	c.StartAt = c.StartAt.Add(d)
	c.EndAt = c.EndAt.Add(d)
	return c
}

// Clone returns a deep copy.
func (a *Activity) Clone() *Activity {
	c := *a
	c.ClientID = cloneID(a.ClientID)
	c.PropertyID = cloneID(a.PropertyID)
	c.RequestID = cloneID(a.RequestID)
	if a.Responsible != nil {
		u := *a.Responsible
		c.Responsible = &u
	}
	return &c
}

// SubmittedPublicDescription returns the public description sent to the store:
// the real text when done, the pending placeholder otherwise.
func (a *Activity) SubmittedPublicDescription() string {
	if a.IsDone() {
		return a.PublicDescription
	}
	return PendingPublicDescription
}

// SetStatus changes the status, clearing the public description when leaving Done.
func (a *Activity) SetStatus(s Status) {
	a.Status = s
	if s != StatusDone {
		a.PublicDescription = ""
	}
}

// LinkClient sets the client as primary subject and clears the property.
func (a *Activity) LinkClient(id int64) {
	a.ClientID = &id
	a.PropertyID = nil
}

// LinkProperty sets the property as primary subject and clears the client.
func (a *Activity) LinkProperty(id int64) {
	a.PropertyID = &id
	a.ClientID = nil
}

// Ref returns a pointer to id, for optional references.
func Ref(id int64) *int64 {
	return &id
}

func cloneID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
