package activity

import (
	"context"
	"time"
)

// Filter narrows a List call. Zero values mean "no constraint".
type Filter struct {
	From       time.Time // inclusive, compared against StartAt
	To         time.Time // exclusive, compared against StartAt
	UserIDs    []int64   // responsible users
	ClientID   int64
	PropertyID int64
	RequestID  int64
}

// Match reports whether a passes the filter.
func (f Filter) Match(a *Activity) bool {
	if !f.From.IsZero() && a.StartAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !a.StartAt.Before(f.To) {
		return false
	}
	if len(f.UserIDs) > 0 {
		found := false
		for _, id := range f.UserIDs {
			if id == a.ResponsibleUserID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ClientID != 0 && (a.ClientID == nil || *a.ClientID != f.ClientID) {
		return false
	}
	if f.PropertyID != 0 && (a.PropertyID == nil || *a.PropertyID != f.PropertyID) {
		return false
	}
	if f.RequestID != 0 && (a.RequestID == nil || *a.RequestID != f.RequestID) {
		return false
	}
	return true
}

// Apply filters a slice, keeping order.
func (f Filter) Apply(in []*Activity) []*Activity {
	out := make([]*Activity, 0, len(in))
	for _, a := range in {
		if a != nil && f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// Store is the backing activity store.
type Store interface {
	// List returns the activities matching the filter, ordered by start time.
	List(ctx context.Context, f Filter) ([]*Activity, error)

	// Get retrieves an activity by ID. Returns ErrNotFound when missing.
	Get(ctx context.Context, id int64) (*Activity, error)

	// Create stores a new activity. The store assigns the ID and returns the stored copy.
	Create(ctx context.Context, a *Activity) (*Activity, error)

	// Update applies a partial or full update and returns the stored copy.
	Update(ctx context.Context, id int64, u Update) (*Activity, error)
}

// UserDirectory lists the users that can be responsible for activities.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]User, error)
}
