// Package identity is a small HTTP client for the BaaS identity endpoints
// (GoTrue style): password and refresh-token grants, current user, logout.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iudanet/gophboard/pkg/api"
)

// DefaultPathPrefix - путь identity эндпоинтов относительно base URL
const DefaultPathPrefix = "/auth/v1/"

// Client представляет HTTP клиент identity провайдера
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	prefix     string
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient задает http клиент (например, общий с cookie jar)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPathPrefix задает префикс identity эндпоинтов
func WithPathPrefix(prefix string) Option {
	return func(c *Client) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewClient создает новый identity клиент
func NewClient(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		prefix:  DefaultPathPrefix,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.prefix = "/" + strings.Trim(c.prefix, "/") + "/"
	return c
}

// PathPrefix returns the normalized identity path prefix
func (c *Client) PathPrefix() string {
	return c.prefix
}

// PasswordGrant выполняет вход по email и паролю
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*api.SessionResponse, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	var resp api.SessionResponse
	req := api.PasswordGrantRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "token?grant_type=password", "", req, &resp); err != nil {
		return nil, fmt.Errorf("password grant failed: %w", err)
	}
	return &resp, nil
}

// RefreshGrant обменивает refresh token на новую сессию
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*api.SessionResponse, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	var resp api.SessionResponse
	req := api.RefreshGrantRequest{RefreshToken: refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, "token?grant_type=refresh_token", "", req, &resp); err != nil {
		return nil, fmt.Errorf("refresh grant failed: %w", err)
	}
	return &resp, nil
}

// GetUser возвращает пользователя, которому принадлежит access token
func (c *Client) GetUser(ctx context.Context, accessToken string) (*api.User, error) {
	var user api.User
	if err := c.doRequest(ctx, http.MethodGet, "user", accessToken, nil, &user); err != nil {
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	return &user, nil
}

// Logout завершает сессию на стороне провайдера
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	if err := c.doRequest(ctx, http.MethodPost, "logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос к identity эндпоинту
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result any) error {
	endpoint, err := url.JoinPath(c.baseURL, c.prefix)
	if err != nil {
		return fmt.Errorf("failed to build url: %w", err)
	}
	endpoint += path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Status:  resp.StatusCode,
			Message: api.ErrorMessage(respBody, resp.StatusCode),
		}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
