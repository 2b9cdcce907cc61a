// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

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

	"golang.org/x/time/rate"
)

// Configuration constants for the backend client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the number of retry attempts for transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// MaxResponseSize bounds response bodies to keep a misbehaving server
	// from exhausting memory.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoCredential is returned by authenticated calls when no bearer
	// token is available.
	ErrNoCredential = errors.New("no credential available")

	// ErrUnauthorized is returned on 401 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadEnvelope is returned when the response does not follow the
	// {success, data, message} shape.
	ErrBadEnvelope = errors.New("malformed response envelope")
)

// APIError carries the backend's message for success=false responses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "backend: " + e.Message
	}
	return fmt.Sprintf("backend: request failed with status %d", e.Status)
}

// =============================================================================
// TOKEN SOURCE
// =============================================================================

// TokenSource supplies the bearer credential for authenticated calls.
// An empty token means "not logged in".
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, handy for tests.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Mangaba REST API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenSource
	maxRetries int
}

// Config holds construction options for the backend client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.example.com". Required.
	BaseURL string

	// Tokens supplies the bearer credential. Optional; without it only
	// unauthenticated endpoints work.
	Tokens TokenSource

	// Timeout per request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSec caps outgoing request rate. Zero disables limiting.
	RequestsPerSec float64

	// MaxRetries for transient failures. Zero means DefaultMaxRetries.
	MaxRetries int
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = DefaultMaxRetries
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), int(cfg.RequestsPerSec)+1)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		tokens:     cfg.Tokens,
		maxRetries: retries,
	}
}

// HasCredential reports whether a bearer token is currently available.
func (c *Client) HasCredential() bool {
	return c.tokens != nil && c.tokens.Token() != ""
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthData, error) {
	var out AuthData
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthData, error) {
	var out AuthData
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", RegisterRequest{Name: name, Email: email, Password: password}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*UserDTO, error) {
	var out UserDTO
	if err := c.doJSON(ctx, http.MethodGet, "/auth/profile", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a fresh credential.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthData, error) {
	var out AuthData
	err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/change-password",
		ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil, true)
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// CreateChat asks the backend to open a chat, optionally bound to a hub
// and agent.
func (c *Client) CreateChat(ctx context.Context, hubID, agentID string) (*ChatDTO, error) {
	var out ChatDTO
	err := c.doJSON(ctx, http.MethodPost, "/chats", CreateChatRequest{HubID: hubID, AgentID: agentID}, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PostMessage appends a message to a backend chat.
func (c *Client) PostMessage(ctx context.Context, chatID string, req PostMessageRequest) (*MessageDTO, error) {
	var out MessageDTO
	err := c.doJSON(ctx, http.MethodPost, "/chats/"+chatID+"/messages", req, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChat fetches a chat including its messages.
func (c *Client) GetChat(ctx context.Context, chatID string) (*ChatDTO, error) {
	var out ChatDTO
	if err := c.doJSON(ctx, http.MethodGet, "/chats/"+chatID, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// DIRECTORY ENDPOINTS
// =============================================================================

// ListHubs fetches the remote hub list.
func (c *Client) ListHubs(ctx context.Context) ([]HubDTO, error) {
	var out []HubDTO
	if err := c.doJSON(ctx, http.MethodGet, "/hubs", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAgents fetches the remote agent list.
func (c *Client) ListAgents(ctx context.Context) ([]AgentDTO, error) {
	var out []AgentDTO
	if err := c.doJSON(ctx, http.MethodGet, "/agents", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// doJSON performs a request and decodes the envelope into out (which may
// be nil for calls with no interesting payload). Transient failures are
// retried with exponential backoff; 4xx responses are not retried.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, authed bool) error {
	if c.baseURL == "" {
		return &APIError{Message: "backend URL not configured"}
	}

	token := ""
	if authed {
		if !c.HasCredential() {
			return ErrNoCredential
		}
		token = c.tokens.Token()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		retryable, err := c.attempt(ctx, method, path, payload, out, token)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

// attempt performs a single request. The boolean reports whether the
// failure is worth retrying.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out any, token string) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return false, ErrUnauthorized
	}
	if resp.StatusCode >= 500 {
		return true, &APIError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return true, fmt.Errorf("read response: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	if !env.Success {
		return false, &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if env.Data == nil {
			return false, fmt.Errorf("%w: missing data", ErrBadEnvelope)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return false, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
		}
	}
	return false, nil
}
