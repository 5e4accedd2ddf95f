// Package session holds the CRM credentials of the signed-in user and signals
// when they can no longer be refreshed.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session errors.
var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrExpired        = errors.New("session expired, please log in again")
	ErrMalformedToken = errors.New("malformed token")
)

// Tokens is the access/refresh pair issued by the CRM.
type Tokens struct {
	Access  string
	Refresh string
}

// Claims are the fields hawkeye reads from an access token. Tokens are not
// verified locally; the API remains the authority.
type Claims struct {
	UserID    int64
	Username  string
	TokenType string
	ExpiresAt time.Time
}

// ExpiresWithin reports whether the token expires before now+d.
func (c Claims) ExpiresWithin(now time.Time, d time.Duration) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now.Add(d))
}

// ParseClaims decodes the payload of a JWT without checking its signature.
func ParseClaims(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var out Claims
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	out.TokenType, _ = claims["token_type"].(string)
	out.Username, _ = claims["username"].(string)

	switch v := claims["user_id"].(type) {
	case float64:
		out.UserID = int64(v)
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Claims{}, fmt.Errorf("%w: user_id %q", ErrMalformedToken, v)
		}
		out.UserID = id
	}
	return out, nil
}

// Store persists tokens between runs.
type Store interface {
	LoadSession(ctx context.Context) (Tokens, error)
	SaveSession(ctx context.Context, t Tokens) error
	ClearSession(ctx context.Context) error
}

// Session is the credential holder shared by the API client and the UI.
// It is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	tokens  Tokens
	claims  Claims
	expired chan struct{}
	closed  bool
	store   Store
}

// New creates a session. tokens may be empty.
func New(tokens Tokens) *Session {
	s := &Session{expired: make(chan struct{})}
	s.setLocked(tokens)
	return s
}

// Load restores the session saved in store. A missing session yields an
// empty, logged-out Session.
func Load(ctx context.Context, store Store) (*Session, error) {
	tokens, err := store.LoadSession(ctx)
	if err != nil && !errors.Is(err, ErrNotLoggedIn) {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	s := New(tokens)
	s.store = store
	return s, nil
}

// LoggedIn reports whether an access token is held.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access != ""
}

// Tokens returns the current pair.
func (s *Session) Tokens() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// Access returns the bearer token.
func (s *Session) Access() string {
	return s.Tokens().Access
}

// Refresh returns the refresh token.
func (s *Session) Refresh() string {
	return s.Tokens().Refresh
}

// Claims returns the decoded access token claims.
func (s *Session) Claims() Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

// Expired is closed when the session can no longer be refreshed.
// A later Login hands out a new channel.
func (s *Session) Expired() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expired
}

// Login stores a fresh pair and re-arms the expiry signal.
func (s *Session) Login(ctx context.Context, t Tokens) error {
	s.mu.Lock()
	s.setLocked(t)
	if s.closed {
		s.expired = make(chan struct{})
		s.closed = false
	}
	s.mu.Unlock()
	return s.save(ctx, t)
}

// SetAccess replaces the access token after a refresh.
func (s *Session) SetAccess(ctx context.Context, access string) error {
	s.mu.Lock()
	t := s.tokens
	t.Access = access
	s.setLocked(t)
	s.mu.Unlock()
	return s.save(ctx, t)
}

// Expire clears the tokens and fires the expiry signal once.
func (s *Session) Expire(ctx context.Context) error {
	s.mu.Lock()
	s.setLocked(Tokens{})
	if !s.closed {
		close(s.expired)
		s.closed = true
	}
	s.mu.Unlock()
	return s.clear(ctx)
}

// Logout clears the tokens without signalling expiry.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.setLocked(Tokens{})
	s.mu.Unlock()
	return s.clear(ctx)
}

func (s *Session) setLocked(t Tokens) {
	s.tokens = t
	s.claims = Claims{}
	if t.Access != "" {
		if c, err := ParseClaims(t.Access); err == nil {
			s.claims = c
		}
	}
}

func (s *Session) save(ctx context.Context, t Tokens) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveSession(ctx, t); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *Session) clear(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
