package activity

import (
	"slices"
	"time"
)

// Field names an updatable activity attribute.
type Field string

const (
	FieldKind                Field = "kind"
	FieldStatus              Field = "status"
	FieldStartAt             Field = "start_at"
	FieldEndAt               Field = "end_at"
	FieldEmployeeDescription Field = "employee_description"
	FieldPublicDescription   Field = "public_description"
	FieldClientID            Field = "client_id"
	FieldPropertyID          Field = "property_id"
	FieldRequestID           Field = "request_id"
	FieldResponsibleUserID   Field = "responsible_user_id"
)

// AllFields is the changed-set of a full replacement.
var AllFields = []Field{
	FieldKind,
	FieldStatus,
	FieldStartAt,
	FieldEndAt,
	FieldEmployeeDescription,
	FieldPublicDescription,
	FieldClientID,
	FieldPropertyID,
	FieldRequestID,
	FieldResponsibleUserID,
}

// Update is a typed partial update. Only attributes named in Fields are applied;
// the rest of Values is ignored.
type Update struct {
	Fields map[Field]bool
	Values Activity
}

// NewUpdate starts an empty update.
func NewUpdate() Update {
	return Update{Fields: make(map[Field]bool)}
}

// Replace builds an update carrying every field of a.
func Replace(a *Activity) Update {
	u := NewUpdate()
	u.Values = *a.Clone()
	for _, f := range AllFields {
		u.Fields[f] = true
	}
	return u
}

// Times builds an update that only changes the time range.
func Times(start, end time.Time) Update {
	return NewUpdate().WithStart(start).WithEnd(end)
}

// Has reports whether f is in the changed set.
func (u Update) Has(f Field) bool {
	return u.Fields[f]
}

// IsFull reports whether the update replaces every field.
func (u Update) IsFull() bool {
	for _, f := range AllFields {
		if !u.Fields[f] {
			return false
		}
	}
	return true
}

// Changed returns the changed fields in canonical order.
func (u Update) Changed() []Field {
	out := make([]Field, 0, len(u.Fields))
	for _, f := range AllFields {
		if u.Fields[f] {
			out = append(out, f)
		}
	}
	return out
}

func (u Update) with(f Field) Update {
	fields := make(map[Field]bool, len(u.Fields)+1)
	for k, v := range u.Fields {
		fields[k] = v
	}
	fields[f] = true
	u.Fields = fields
	return u
}

// WithStart sets StartAt.
func (u Update) WithStart(t time.Time) Update {
	u = u.with(FieldStartAt)
	u.Values.StartAt = t
	return u
}

// WithEnd sets EndAt.
func (u Update) WithEnd(t time.Time) Update {
	u = u.with(FieldEndAt)
	u.Values.EndAt = t
	return u
}

// WithStatus sets Status. Leaving Done also clears the public description.
func (u Update) WithStatus(s Status) Update {
	u = u.with(FieldStatus)
	u.Values.Status = s
	if s != StatusDone {
		u = u.with(FieldPublicDescription)
		u.Values.PublicDescription = ""
	}
	return u
}

// WithKind sets Kind.
func (u Update) WithKind(k Kind) Update {
	u = u.with(FieldKind)
	u.Values.Kind = k
	return u
}

// WithEmployeeDescription sets the employee description.
func (u Update) WithEmployeeDescription(s string) Update {
	u = u.with(FieldEmployeeDescription)
	u.Values.EmployeeDescription = s
	return u
}

// WithPublicDescription sets the public description.
func (u Update) WithPublicDescription(s string) Update {
	u = u.with(FieldPublicDescription)
	u.Values.PublicDescription = s
	return u
}

// WithResponsible sets the responsible user.
func (u Update) WithResponsible(id int64) Update {
	u = u.with(FieldResponsibleUserID)
	u.Values.ResponsibleUserID = id
	return u
}

// Apply returns a copy of a with the changed fields applied.
func (u Update) Apply(a *Activity) *Activity {
	out := a.Clone()
	v := u.Values
	for _, f := range u.Changed() {
		switch f {
		case FieldKind:
			out.Kind = v.Kind
		case FieldStatus:
			out.Status = v.Status
		case FieldStartAt:
			out.StartAt = v.StartAt
		case FieldEndAt:
			out.EndAt = v.EndAt
		case FieldEmployeeDescription:
			out.EmployeeDescription = v.EmployeeDescription
		case FieldPublicDescription:
			out.PublicDescription = v.PublicDescription
		case FieldClientID:
			out.ClientID = cloneID(v.ClientID)
		case FieldPropertyID:
			out.PropertyID = cloneID(v.PropertyID)
		case FieldRequestID:
			out.RequestID = cloneID(v.RequestID)
		case FieldResponsibleUserID:
			out.ResponsibleUserID = v.ResponsibleUserID
		}
	}
	return out
}

// Diff returns the update that turns before into after.
func Diff(before, after *Activity) Update {
	u := NewUpdate()
	if before.Kind != after.Kind {
		u = u.WithKind(after.Kind)
	}
	if before.Status != after.Status {
		u = u.with(FieldStatus)
		u.Values.Status = after.Status
	}
	if !before.StartAt.Equal(after.StartAt) {
		u = u.WithStart(after.StartAt)
	}
	if !before.EndAt.Equal(after.EndAt) {
		u = u.WithEnd(after.EndAt)
	}
	if before.EmployeeDescription != after.EmployeeDescription {
		u = u.WithEmployeeDescription(after.EmployeeDescription)
	}
	if before.PublicDescription != after.PublicDescription {
		u = u.WithPublicDescription(after.PublicDescription)
	}
	if !sameRef(before.ClientID, after.ClientID) {
		u = u.with(FieldClientID)
		u.Values.ClientID = cloneID(after.ClientID)
	}
	if !sameRef(before.PropertyID, after.PropertyID) {
		u = u.with(FieldPropertyID)
		u.Values.PropertyID = cloneID(after.PropertyID)
	}
	if !sameRef(before.RequestID, after.RequestID) {
		u = u.with(FieldRequestID)
		u.Values.RequestID = cloneID(after.RequestID)
	}
	if before.ResponsibleUserID != after.ResponsibleUserID {
		u = u.WithResponsible(after.ResponsibleUserID)
	}
	return u
}

// Empty reports whether nothing changes.
func (u Update) Empty() bool {
	return !slices.ContainsFunc(AllFields, u.Has)
}

func sameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
