// Package api is the REST client for the Hawkeye CRM.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hawkeyecrm/hawkeye/internal/applog"
	"github.com/hawkeyecrm/hawkeye/internal/observability"
	"github.com/hawkeyecrm/hawkeye/internal/session"
)

// Client errors.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidLogin  = errors.New("invalid credentials")
	ErrNoBaseURL     = errors.New("api base URL is not configured")
	ErrNoRefreshable = errors.New("no refresh token")

	errEmptyAccess = errors.New("empty access token")
)

// DefaultTimeout bounds explicit requests.
const DefaultTimeout = 15 * time.Second

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// StatusError is a non-2xx response. Body holds the raw payload so forms can
// show the server's field errors verbatim.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, body)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// Client talks to the CRM REST API on behalf of a session.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	log     *applog.Logger
	metrics *observability.Metrics
	loc     *time.Location
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the request logger.
func WithLogger(l *applog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics sets the request counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout sets the deadline used by Timeout for explicit requests.
// Gesture writes do not use it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLocation sets the zone activity times are shown in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.loc = loc }
}

// New creates a client for baseURL, e.g. "https://crm.example.com".
func New(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if sess == nil {
		sess = session.New(session.Tokens{})
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		session: sess,
		loc:     time.Local,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

// Timeout derives a context bounded by the configured request timeout.
func (c *Client) Timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	} `json:"user"`
}

// LoginInfo describes the signed-in user.
type LoginInfo struct {
	UserID   int64
	Username string
	Email    string
	Role     string
}

// Login exchanges credentials for tokens and stores them in the session.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginInfo, error) {
	var out loginResponse
	err := c.send(ctx, http.MethodPost, "/api/auth/login/", "", loginRequest{username, password}, &out)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLogin, detail(err))
		}
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if err := c.session.Login(ctx, session.Tokens{Access: out.Access, Refresh: out.Refresh}); err != nil {
		return nil, err
	}
	c.log.Info("LOGIN", applog.Fields{"user": out.User.Username})
	return &LoginInfo{
		UserID:   out.User.ID,
		Username: out.User.Username,
		Email:    out.User.Email,
		Role:     out.User.Role,
	}, nil
}

// RefreshAccess trades the refresh token for a new access token.
func (c *Client) RefreshAccess(ctx context.Context) error {
	refresh := c.session.Refresh()
	if refresh == "" {
		return ErrNoRefreshable
	}
	var out struct {
		Access string `json:"access"`
	}
	err := c.send(ctx, http.MethodPost, "/api/auth/refresh/", "", map[string]string{"refresh": refresh}, &out)
	c.metrics.RecordRefresh(err == nil && out.Access != "")
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}
	if out.Access == "" {
		return fmt.Errorf("refreshing token: %w", errEmptyAccess)
	}
	return c.session.SetAccess(ctx, out.Access)
}

// do performs an authenticated call. A 401 triggers one refresh and one retry.
// When the CRM rejects the refresh or the retry the session is expired and
// session.ErrExpired returned; a refresh that never got an answer keeps the
// session and returns the transport error.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if !c.session.LoggedIn() {
		return session.ErrNotLoggedIn
	}

	err := c.send(ctx, method, path, c.session.Access(), in, out)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	c.log.Info("AUTH_REFRESH", applog.Fields{"method": method, "path": path})
	if rerr := c.RefreshAccess(ctx); rerr != nil {
		c.log.Warn("AUTH_REFRESH_FAILED", applog.Fields{"error": rerr.Error()})
		if !refreshRejected(rerr) {
			return rerr
		}
		return c.expire(ctx)
	}

	err = c.send(ctx, method, path, c.session.Access(), in, out)
	if errors.Is(err, ErrUnauthorized) {
		return c.expire(ctx)
	}
	return err
}

// refreshRejected reports whether a refresh failed because the CRM refused it,
// as opposed to the request never completing.
func refreshRejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se) || errors.Is(err, ErrNoRefreshable) || errors.Is(err, errEmptyAccess)
}

func (c *Client) expire(ctx context.Context) error {
	if err := c.session.Expire(ctx); err != nil {
		c.log.Error("SESSION_CLEAR_FAILED", err, nil)
	}
	c.log.Warn("SESSION_EXPIRED", nil)
	return session.ErrExpired
}

// send performs one HTTP round trip with JSON in and out.
func (c *Client) send(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRequest(method, 0)
		c.log.Debug("HTTP_ERROR", applog.Fields{"method": method, "path": path, "request_id": reqID, "error": err.Error()})
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.metrics.RecordRequest(method, resp.StatusCode)
	c.log.Debug("HTTP", applog.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": reqID,
		"ms":         time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(raw)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

// detail extracts the "detail" message of a DRF error payload.
func detail(err error) string {
	var se *StatusError
	if !errors.As(err, &se) {
		return err.Error()
	}
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal([]byte(se.Body), &payload) == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(se.Code)
}
