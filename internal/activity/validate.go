package activity

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError collects field-level problems found before submission.
type ValidationError struct {
	Fields map[string]error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range sortedKeys(e.Fields) {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Fields[name]))
	}
	return "invalid activity: " + strings.Join(parts, "; ")
}

// Unwrap exposes the individual field errors to errors.Is.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Fields))
	for _, name := range sortedKeys(e.Fields) {
		out = append(out, e.Fields[name])
	}
	return out
}

// Form is the user-editable shape of an activity, as entered in a form or CLI flags.
type Form struct {
	Kind                Kind   `validate:"required,activity_kind"`
	Status              Status `validate:"required,activity_status"`
	Date                string `validate:"required,datetime=2006-01-02"`
	Start               string `validate:"required,clock"`
	End                 string `validate:"required,clock,clock_after=Start"`
	EmployeeDescription string `validate:"max=1024"`
	PublicDescription   string
	ClientID            *int64 `validate:"omitempty,gt=0,excluded_with=PropertyID"`
	PropertyID          *int64 `validate:"omitempty,gt=0"`
	RequestID           *int64 `validate:"omitempty,gt=0"`
	ResponsibleUserID   int64  `validate:"required,gt=0"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("activity_kind", func(fl validator.FieldLevel) bool {
			return Kind(fl.Field().String()).Known()
		})
		_ = v.RegisterValidation("activity_status", func(fl validator.FieldLevel) bool {
			_, ok := ParseStatus(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, err := ClockToMinutes(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("clock_after", func(fl validator.FieldLevel) bool {
			other, _, _, ok := fl.GetStructFieldOKAdvanced2(fl.Parent(), fl.Param())
			if !ok {
				return false
			}
			end, err1 := ClockToMinutes(fl.Field().String())
			start, err2 := ClockToMinutes(other.String())
			if err1 != nil || err2 != nil {
				return true // reported by the clock rule
			}
			return end > start
		})
		validate = v
	})
	return validate
}

// Validate checks the form and returns a *ValidationError describing every failing field.
func (f Form) Validate() error {
	err := formValidator().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]error)}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = fieldError(fe)
	}
	return out
}

func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "ResponsibleUserID":
		return ErrMissingResponsible
	case "EmployeeDescription":
		return ErrDescriptionTooLong
	case "ClientID":
		if fe.Tag() == "excluded_with" {
			return ErrClientAndProperty
		}
	case "Start", "End":
		if fe.Tag() == "clock_after" {
			return ErrEndBeforeStart
		}
		if fe.Tag() == "clock" {
			return ErrInvalidTimeFormat
		}
	}
	return fmt.Errorf("failed %q rule", fe.Tag())
}

// Build validates the form and produces an activity in loc.
// The public description is only kept when the status is Done.
func (f Form) Build(loc *time.Location) (*Activity, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	date, err := time.ParseInLocation("2006-01-02", f.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	start, err := At(date, f.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	end, err := At(date, f.End, loc)
	if err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}
	status, _ := ParseStatus(string(f.Status))

	a := &Activity{
		Kind:                f.Kind,
		Status:              status,
		StartAt:             start,
		EndAt:               end,
		EmployeeDescription: f.EmployeeDescription,
		ClientID:            cloneID(f.ClientID),
		PropertyID:          cloneID(f.PropertyID),
		RequestID:           cloneID(f.RequestID),
		ResponsibleUserID:   f.ResponsibleUserID,
	}
	if status == StatusDone {
		a.PublicDescription = f.PublicDescription
	}
	return a, nil
}

// FormFor returns a form pre-filled from an existing activity.
func FormFor(a *Activity) Form {
	return Form{
		Kind:                a.Kind,
		Status:              a.Status,
		Date:                a.StartAt.Format("2006-01-02"),
		Start:               ClockOf(a.StartAt),
		End:                 endClock(a.StartAt, a.EndAt),
		EmployeeDescription: a.EmployeeDescription,
		PublicDescription:   a.PublicDescription,
		ClientID:            cloneID(a.ClientID),
		PropertyID:          cloneID(a.PropertyID),
		RequestID:           cloneID(a.RequestID),
		ResponsibleUserID:   a.ResponsibleUserID,
	}
}

// NewForm returns a blank form for date with default times: now rounded up to the
// next quarter hour, lasting one hour.
func NewForm(date, now time.Time, responsible int64) Form {
	start := RoundUpToQuarter(now)
	end := start.Add(time.Hour)
	return Form{
		Kind:              KindVisit,
		Status:            StatusScheduled,
		Date:              date.Format("2006-01-02"),
		Start:             ClockOf(start),
		End:               endClock(start, end),
		ResponsibleUserID: responsible,
	}
}

// Validate checks the interactive invariants of an already-built activity.
func Validate(a *Activity, minDuration time.Duration) error {
	fields := make(map[string]error)
	if !a.EndAt.After(a.StartAt) {
		fields["End"] = ErrEndBeforeStart
	} else if minDuration > 0 && a.Duration() < minDuration {
		fields["End"] = ErrDurationTooShort
	}
	if a.ResponsibleUserID <= 0 {
		fields["ResponsibleUserID"] = ErrMissingResponsible
	}
	if a.ClientID != nil && a.PropertyID != nil {
		fields["ClientID"] = ErrClientAndProperty
	}
	if len([]rune(a.EmployeeDescription)) > MaxEmployeeDescription {
		fields["EmployeeDescription"] = ErrDescriptionTooLong
	}
	if a.PublicDescription != "" && !a.IsDone() {
		fields["PublicDescription"] = ErrPublicDescNotDone
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// endClock renders an end time, using "24:00" when it falls on the next midnight.
func endClock(start, end time.Time) string {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if (sy != ey || sm != em || sd != ed) && end.Hour() == 0 && end.Minute() == 0 {
		return "24:00"
	}
	return ClockOf(end)
}

func sortedKeys(m map[string]error) []string {
	return slices.Sorted(maps.Keys(m))
}
