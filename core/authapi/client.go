package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gymdesk/authkit/core/session"
	"github.com/gymdesk/authkit/pkg/logger"
)

// Config holds backend connection configuration.
type Config struct {
	BaseURL string        `env:"AUTH_API_BASE_URL,required"`
	Timeout time.Duration `env:"AUTH_API_TIMEOUT" envDefault:"15s"`
}

// Client calls the authentication endpoints of the platform backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client; tests inject the
// httptest server's client here.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the backend at cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.log = c.log.With(logger.Component("authapi"))

	return c, nil
}

// Login exchanges credentials for a token pair, or a two-factor challenge
// when the account has 2FA enabled.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyTwoFactor completes a two-factor challenge. The temp token from
// the login response authenticates the request.
func (c *Client) VerifyTwoFactor(ctx context.Context, tempToken, code, fp string) (*AuthResult, error) {
	body := verifyTwoFactorRequest{Code: code, DeviceFingerprint: fp}

	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/verify-2fa", tempToken, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Refresh mints a new access token from the refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken, fp string) (string, error) {
	body := refreshRequest{RefreshToken: refreshToken, DeviceFingerprint: fp}

	var result refreshResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh-token", "", body, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// Logout revokes the refresh token server-side. Callers treat this as
// best-effort and must not gate local cleanup on its success.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", accessToken, logoutRequest{RefreshToken: refreshToken}, nil)
}

// Profile verifies the access token against the server and returns the
// authenticated principal. A rejected token yields ErrUnauthorized.
func (c *Client) Profile(ctx context.Context, accessToken string) (*session.Principal, error) {
	var result profileResponse
	if err := c.do(ctx, http.MethodGet, "/profile", accessToken, nil, &result); err != nil {
		return nil, err
	}
	return &result.Admin, nil
}

// RequestPasswordReset asks the backend to send a reset email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/request-password-reset", "", passwordResetRequest{Email: email}, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("authapi: encode %s request: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("authapi: build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed",
			slog.String("path", path),
			logger.Error(err),
			logger.Duration(time.Since(started)),
		)
		return errors.Join(ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrUnreachable, fmt.Errorf("authapi: decode %s response: %w", path, err))
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	// Body limited to keep a hostile or broken server from ballooning memory.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, apiErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.Join(ErrUnauthorized, apiErr)
	}
	return apiErr
}
