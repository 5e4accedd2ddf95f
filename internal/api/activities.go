package api

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
	"github.com/hawkeyecrm/hawkeye/internal/applog"
)

const activitiesPath = "/api/actividades/"

// wireActivity is the CRM representation of an activity. usuario_responsable
// is only read; writes name the user through usuario_responsable_id.
type wireActivity struct {
	ID                  int64          `json:"id,omitempty"`
	Kind                string         `json:"tipo"`
	Status              string         `json:"estado"`
	Start               string         `json:"fecha_inicio"`
	End                 string         `json:"fecha_fin"`
	EmployeeDescription string         `json:"descripcion_empleado"`
	PublicDescription   string         `json:"descripcion_publica"`
	Client              *int64         `json:"cliente"`
	Property            *int64         `json:"inmueble"`
	Request             *int64         `json:"pedido"`
	Responsible         *activity.User `json:"usuario_responsable,omitempty"`
	ResponsibleID       int64          `json:"usuario_responsable_id,omitempty"`
}

// wireName maps update fields to CRM attribute names.
var wireName = map[activity.Field]string{
	activity.FieldKind:                "tipo",
	activity.FieldStatus:              "estado",
	activity.FieldStartAt:             "fecha_inicio",
	activity.FieldEndAt:               "fecha_fin",
	activity.FieldEmployeeDescription: "descripcion_empleado",
	activity.FieldPublicDescription:   "descripcion_publica",
	activity.FieldClientID:            "cliente",
	activity.FieldPropertyID:          "inmueble",
	activity.FieldRequestID:           "pedido",
	activity.FieldResponsibleUserID:   "usuario_responsable_id",
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func toWire(a *activity.Activity) wireActivity {
	return wireActivity{
		Kind:                string(a.Kind),
		Status:              string(a.Status),
		Start:               formatTime(a.StartAt),
		End:                 formatTime(a.EndAt),
		EmployeeDescription: a.EmployeeDescription,
		PublicDescription:   a.SubmittedPublicDescription(),
		Client:              a.ClientID,
		Property:            a.PropertyID,
		Request:             a.RequestID,
		ResponsibleID:       a.ResponsibleUserID,
	}
}

func (c *Client) fromWire(w wireActivity) (*activity.Activity, error) {
	start, err := time.Parse(time.RFC3339, w.Start)
	if err != nil {
		return nil, fmt.Errorf("activity %d: fecha_inicio: %w", w.ID, err)
	}
	end, err := time.Parse(time.RFC3339, w.End)
	if err != nil {
		return nil, fmt.Errorf("activity %d: fecha_fin: %w", w.ID, err)
	}

	a := &activity.Activity{
		ID:                  w.ID,
		Kind:                activity.Kind(w.Kind),
		Status:              activity.Status(w.Status),
		StartAt:             start.In(c.loc),
		EndAt:               end.In(c.loc),
		EmployeeDescription: w.EmployeeDescription,
		PublicDescription:   w.PublicDescription,
		ClientID:            w.Client,
		PropertyID:          w.Property,
		RequestID:           w.Request,
	}
	if a.PublicDescription == activity.PendingPublicDescription {
		a.PublicDescription = ""
	}
	if w.Responsible != nil {
		u := *w.Responsible
		a.Responsible = &u
		a.ResponsibleUserID = u.ID
	}
	return a, nil
}

// patchBody builds a partial payload holding only the changed attributes.
func patchBody(u activity.Update) map[string]any {
	v := u.Values
	body := make(map[string]any, len(u.Fields))
	for _, f := range u.Changed() {
		name := wireName[f]
		switch f {
		case activity.FieldKind:
			body[name] = string(v.Kind)
		case activity.FieldStatus:
			body[name] = string(v.Status)
		case activity.FieldStartAt:
			body[name] = formatTime(v.StartAt)
		case activity.FieldEndAt:
			body[name] = formatTime(v.EndAt)
		case activity.FieldEmployeeDescription:
			body[name] = v.EmployeeDescription
		case activity.FieldPublicDescription:
			if v.PublicDescription == "" {
				body[name] = activity.PendingPublicDescription
			} else {
				body[name] = v.PublicDescription
			}
		case activity.FieldClientID:
			body[name] = v.ClientID
		case activity.FieldPropertyID:
			body[name] = v.PropertyID
		case activity.FieldRequestID:
			body[name] = v.RequestID
		case activity.FieldResponsibleUserID:
			body[name] = v.ResponsibleUserID
		}
	}
	return body
}

func activityPath(id int64) string {
	return fmt.Sprintf("%s%d/", activitiesPath, id)
}

// listPath picks the narrowest CRM endpoint for the filter.
func listPath(f activity.Filter) string {
	switch {
	case f.ClientID != 0:
		return fmt.Sprintf("%scliente/%d/", activitiesPath, f.ClientID)
	case f.PropertyID != 0:
		return fmt.Sprintf("%sinmueble/%d/", activitiesPath, f.PropertyID)
	case f.RequestID != 0:
		return fmt.Sprintf("%spedido/%d/", activitiesPath, f.RequestID)
	}
	return activitiesPath
}

// List fetches activities and filters them locally, ordered by start time.
func (c *Client) List(ctx context.Context, f activity.Filter) ([]*activity.Activity, error) {
	var wire []wireActivity
	if err := c.do(ctx, http.MethodGet, listPath(f), nil, &wire); err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	out := make([]*activity.Activity, 0, len(wire))
	for _, w := range wire {
		a, err := c.fromWire(w)
		if err != nil {
			c.log.Warn("ACTIVITY_SKIPPED", applog.Fields{"id": w.ID, "error": err.Error()})
			continue
		}
		out = append(out, a)
	}
	out = f.Apply(out)
	slices.SortStableFunc(out, func(a, b *activity.Activity) int {
		if n := a.StartAt.Compare(b.StartAt); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Get fetches one activity.
func (c *Client) Get(ctx context.Context, id int64) (*activity.Activity, error) {
	var w wireActivity
	if err := c.do(ctx, http.MethodGet, activityPath(id), nil, &w); err != nil {
		return nil, notFound(err, id)
	}
	return c.fromWire(w)
}

// Create posts a new activity and returns the stored copy.
func (c *Client) Create(ctx context.Context, a *activity.Activity) (*activity.Activity, error) {
	var w wireActivity
	if err := c.do(ctx, http.MethodPost, activitiesPath, toWire(a), &w); err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}
	return c.fromWire(w)
}

// Update sends a PUT for full replacements and a PATCH otherwise.
func (c *Client) Update(ctx context.Context, id int64, u activity.Update) (*activity.Activity, error) {
	var (
		w   wireActivity
		err error
	)
	if u.IsFull() {
		err = c.do(ctx, http.MethodPut, activityPath(id), toWire(&u.Values), &w)
	} else {
		err = c.do(ctx, http.MethodPatch, activityPath(id), patchBody(u), &w)
	}
	if err != nil {
		return nil, notFound(err, id)
	}
	return c.fromWire(w)
}

func notFound(err error, id int64) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return fmt.Errorf("activity %d: %w", id, activity.ErrNotFound)
	}
	return fmt.Errorf("activity %d: %w", id, err)
}

// ListUsers returns the users activities can be assigned to.
func (c *Client) ListUsers(ctx context.Context) ([]activity.User, error) {
	var users []activity.User
	if err := c.do(ctx, http.MethodGet, "/api/usuarios/", nil, &users); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	slices.SortFunc(users, func(a, b activity.User) int {
		return cmp.Compare(a.DisplayName(), b.DisplayName())
	})
	return users, nil
}

var (
	_ activity.Store         = (*Client)(nil)
	_ activity.UserDirectory = (*Client)(nil)
)
