// Package transport posts {action, payload} envelopes to the single API
// endpoint with the stored bearer credential.
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// Credentials is the durable identity/token pair (session.Store).
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, user domain.User, token string) error
	Clear(ctx context.Context) error
}

type envelope struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// Client talks to the action endpoint. It never retries.
type Client struct {
	httpClient     *resty.Client
	path           string
	creds          Credentials
	onUnauthorized func()
	logger         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUnauthorizedHandler sets the hook that returns the user to the login
// surface. It may run more than once.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.SetTimeout(d)
		}
	}
}

// NewClient creates a client posting to baseURL+path, e.g. "http://host:9999" + "/api".
func NewClient(baseURL, path string, creds Credentials, logger *zap.Logger, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	c := &Client{
		httpClient: httpClient,
		path:       path,
		creds:      creds,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts one action. A missing credential fails with ErrUnauthorized
// before any network traffic. HTTP 401 clears the stored identity and fails
// with ErrUnauthorized. Other failures become ErrTransport.
func (c *Client) Send(ctx context.Context, action string, payload any) (*Response, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		c.logger.Error("Failed to read session token", zap.String("action", action), zap.Error(err))
	}
	if token == "" {
		c.toLogin()
		return nil, ErrUnauthorized
	}
	if payload == nil {
		payload = map[string]any{}
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Cache-Control", "no-cache").
		SetBody(envelope{Action: action, Payload: payload}).
		Post(c.path)
	if err != nil {
		c.logger.Error("API request failed", zap.String("action", action), zap.Error(err))
		return nil, ErrTransport
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		if err := c.creds.Clear(ctx); err != nil {
			c.logger.Error("Failed to clear rejected session", zap.Error(err))
		}
		c.logger.Warn("Session rejected by server", zap.String("action", action))
		c.toLogin()
		return nil, ErrUnauthorized
	}
	if !resp.IsSuccess() {
		c.logger.Error("API request failed",
			zap.String("action", action),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, ErrTransport
	}

	var out Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		c.logger.Error("Failed to decode API response", zap.String("action", action), zap.Error(err))
		return nil, ErrTransport
	}
	return &out, nil
}

// Login authenticates without a bearer credential. On success the identity
// and token are stored and the identity returned.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(envelope{Action: "login", Payload: map[string]string{
			"username": username,
			"password": password,
		}}).
		Post(c.path)
	if err != nil {
		c.logger.Error("Login request failed", zap.Error(err))
		return nil, ErrLoginUnreachable
	}

	var out Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		c.logger.Error("Failed to decode login response",
			zap.Int("status_code", resp.StatusCode()),
			zap.Error(err),
		)
		return nil, ErrLoginUnreachable
	}

	var user domain.User
	var token string
	if out.OK() && out.Has("user") && out.Has("token") {
		if err := out.Decode("user", &user); err == nil {
			_ = out.Decode("token", &token)
		}
	}
	if user.Username == "" || token == "" {
		msg := out.Message
		if msg == "" {
			msg = defaultLoginFailure
		}
		return nil, &ApplicationError{Message: msg}
	}

	if err := c.creds.Save(ctx, user, token); err != nil {
		return nil, err
	}
	c.logger.Info("Logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return &user, nil
}

// Logout tells the server to drop the session, then clears local state
// whatever the outcome of the request.
func (c *Client) Logout(ctx context.Context) error {
	token, _ := c.creds.Token(ctx)
	if token != "" {
		if _, err := c.Send(ctx, "logout", map[string]string{"token": token}); err != nil {
			c.logger.Warn("Logout request failed", zap.Error(err))
		}
	}
	return c.creds.Clear(ctx)
}

func (c *Client) toLogin() {
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
