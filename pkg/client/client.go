package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Error codes the client branches on. They mirror the server's error
// envelope; matching is exact, never on message text.
const (
	codeMissingToken          = "MISSING_TOKEN"
	codeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
)

// APIError is a structured error returned by the server.
type APIError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsAuthFailure reports whether the error means the current token is
// unusable.
func (e *APIError) IsAuthFailure() bool {
	return e.Code == codeMissingToken || e.Code == codeInvalidOrExpiredToken
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Store      Store
	Notifier   Notifier
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Client talks to the gym service. It owns a Session: every request
// carries the current auth header, and any response that signals an
// unusable token tears the session down globally so no handler has to
// deal with stale credentials itself.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	logger  *zap.Logger
}

// New constructs a Client. Store defaults to an in-memory store and
// Logger to a no-op logger.
func New(opts Options) *Client {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    opts.HTTPClient,
		session: NewSession(opts.Store, opts.Notifier, opts.Logger),
		logger:  opts.Logger,
	}
}

// Session exposes the client's session for state inspection and route
// guarding.
func (c *Client) Session() *Session {
	return c.session
}

type loginData struct {
	Kind    Kind            `json:"kind"`
	Staff   *StaffProfile   `json:"staff,omitempty"`
	Student *StudentProfile `json:"student,omitempty"`
	Auth    struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	} `json:"auth"`
}

// Login authenticates against POST /login with a single identifier and
// secret; the server decides whether the principal is staff or a
// student. On success the session is replaced and persisted.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*Snapshot, error) {
	var data loginData
	err := c.doJSON(ctx, http.MethodPost, "/login", map[string]string{
		"identifier": identifier,
		"secret":     secret,
	}, &data, false)
	if err != nil {
		return nil, err
	}

	snap := Snapshot{
		Token:   data.Auth.Token,
		Kind:    data.Kind,
		Staff:   data.Staff,
		Student: data.Student,
	}
	if err := c.session.Begin(snap); err != nil {
		c.logger.Warn("session persisted partially", zap.Error(err))
	}
	copied := snap
	return &copied, nil
}

// Logout discards the session locally. The server keeps no session
// state, so no request is made.
func (c *Client) Logout() {
	c.session.End()
}

type verifyData struct {
	Valid bool `json:"valid"`
}

// Restore loads a persisted session, if any, and verifies its token
// against GET /auth/verify-token. A definitive {"valid": false} clears
// the session; a network failure retains it optimistically, leaving
// the first authenticated request to settle the question.
func (c *Client) Restore(ctx context.Context) State {
	snap := c.session.loadPersisted()
	if snap == nil {
		return StateUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/verify-token", nil)
	if err != nil {
		c.session.confirmRestore(true, false)
		return c.session.State()
	}
	req.Header.Set("Authorization", "Bearer "+snap.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.session.confirmRestore(true, false)
		return c.session.State()
	}
	defer resp.Body.Close()

	var data verifyData
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&data) != nil {
		// The endpoint always answers 200 with a verdict; anything else
		// means the server itself is unwell, which is not the token's
		// fault.
		c.session.confirmRestore(true, false)
		return c.session.State()
	}

	c.session.confirmRestore(data.Valid, true)
	return c.session.State()
}

// Do sends an authenticated request and decodes the "data" envelope
// into out (which may be nil). Auth failures tear the session down
// before the error is returned.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.doJSON(ctx, method, path, body, out, true)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if header := c.session.AuthHeader(); header != "" {
			req.Header.Set("Authorization", header)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) handleErrorResponse(resp *http.Response) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
		return &APIError{
			Code:       "INTERNAL_ERROR",
			Message:    http.StatusText(resp.StatusCode),
			HTTPStatus: resp.StatusCode,
		}
	}
	apiErr := envelope.Error
	apiErr.HTTPStatus = resp.StatusCode

	if apiErr.IsAuthFailure() {
		c.session.Expire(apiErr.Code)
	}
	return &apiErr
}
