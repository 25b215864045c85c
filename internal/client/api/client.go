// Package api implements the authenticated fetch used by every feature of the
// client: throttle check, token read with proactive refresh, HTTP call and
// normalization of every outcome into a Response that never carries a panic
// or a bare error to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iudanet/gophboard/internal/client/auth"
	"github.com/iudanet/gophboard/internal/client/metrics"
	"github.com/iudanet/gophboard/internal/client/throttle"
	pkgapi "github.com/iudanet/gophboard/pkg/api"
)

const (
	// MsgSuppressed возвращается, когда запрос подавлен throttle
	MsgSuppressed = "authorization required: too many failed attempts"
	// MsgUnauthorized возвращается на 401
	MsgUnauthorized = "Unauthorized"

	// HeaderRequestID - заголовок корреляции запроса
	HeaderRequestID = "X-Request-ID"
	// HeaderAPIKey - заголовок с публичным ключом BaaS
	HeaderAPIKey = "apikey"

	// StatusSuppressed - статус подавленного запроса
	StatusSuppressed = http.StatusTooManyRequests
)

// TokenSource читает текущую сессию
type TokenSource interface {
	GetToken(ctx context.Context) auth.TokenBundle
}

// Client выполняет аутентифицированные запросы к BaaS
type Client struct {
	httpClient     *http.Client
	baseURL        *url.URL
	tokens         TokenSource
	refresher      auth.SessionRefresher
	throttle       *throttle.Throttle
	logger         *slog.Logger
	metrics        *metrics.Collector
	now            func() time.Time
	anonKey        string
	identityPrefix string
}

// Config - параметры клиента
type Config struct {
	BaseURL        string
	AnonKey        string
	IdentityPrefix string
	Timeout        time.Duration
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient задает http клиент
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics attaches metrics collector
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClock overrides time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewHTTPClient creates http client with a cookie jar and instrumented transport
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Jar:       jar,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, nil
}

// NewClient создает новый клиент
func NewClient(
	cfg Config,
	tokens TokenSource,
	refresher auth.SessionRefresher,
	th *throttle.Throttle,
	logger *slog.Logger,
	opts ...Option,
) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", cfg.BaseURL)
	}

	prefix := cfg.IdentityPrefix
	if prefix == "" {
		prefix = "/auth/v1/"
	}

	c := &Client{
		baseURL:        base,
		tokens:         tokens,
		refresher:      refresher,
		throttle:       th,
		logger:         logger,
		now:            time.Now,
		anonKey:        cfg.AnonKey,
		identityPrefix: "/" + strings.Trim(prefix, "/") + "/",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc, err := NewHTTPClient(cfg.Timeout)
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}

	return c, nil
}

// Request выполняет запрос и нормализует результат. Никогда не паникует
// и не возвращает nil.
func (c *Client) Request(ctx context.Context, target string, opts *Options) (resp *Response) {
	if opts == nil {
		opts = &Options{}
	}
	method := opts.method()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("authenticated fetch panicked", "url", target, "panic", r)
			resp = failure(http.StatusInternalServerError, fmt.Sprintf("internal error: %v", r), nil)
		}
		c.metrics.CountResult(method, resp.Status)
	}()

	endpoint, err := c.resolve(target)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error(), nil)
	}
	key := endpoint.String()

	// 1. Подавление после серии 401
	if c.throttle.ShouldSuppress(key) {
		c.metrics.Suppressed("request")
		c.logger.Debug("request suppressed by throttle", "url", key, "state", c.throttle.State(key))
		return failure(StatusSuppressed, MsgSuppressed, nil)
	}

	// 2. Токен и проактивное обновление
	token := c.tokens.GetToken(ctx)
	if token.NeedsRefresh(c.now()) && !c.isIdentityEndpoint(endpoint) {
		if c.refresher.Refresh(ctx) {
			token = c.tokens.GetToken(ctx)
		} else {
			c.logger.Warn("session refresh failed, using current token", "url", key)
		}
	}

	// 3. HTTP запрос
	req, requestID, err := c.newRequest(ctx, method, endpoint, token, opts)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error(), nil)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "url", key, "request_id", requestID, "error", err)
		return failure(http.StatusInternalServerError, fmt.Sprintf("request failed: %v", err), nil)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return failure(http.StatusInternalServerError, fmt.Sprintf("failed to read response body: %v", err), nil)
	}

	elapsed := time.Since(start)
	c.metrics.ObserveFetch(method, httpResp.StatusCode, elapsed)
	c.logger.Debug("request completed",
		"method", method,
		"url", key,
		"status", httpResp.StatusCode,
		"request_id", requestID,
		"elapsed", elapsed,
	)

	return c.interpret(key, httpResp, body)
}

// interpret применяет шаги 4-6: 401, прочие ошибки, успех
func (c *Client) interpret(key string, httpResp *http.Response, body []byte) *Response {
	status := httpResp.StatusCode

	if status == http.StatusUnauthorized {
		c.throttle.RecordFailure(key)
		return failure(status, MsgUnauthorized, jsonDetails(body))
	}

	if status < 200 || status >= 300 {
		return failure(status, pkgapi.ErrorMessage(body, status), jsonDetails(body))
	}

	c.throttle.RecordSuccess(key)

	env, err := pkgapi.DecodeEnvelope(body)
	if err != nil {
		return failure(http.StatusInternalServerError, fmt.Sprintf("failed to decode response: %v", err), nil)
	}
	if env.Error != nil {
		return failure(status, env.Error.Message, env.Error.Raw)
	}

	return &Response{
		Body:   env.Payload,
		Kind:   env.Kind,
		Status: status,
		Header: httpResp.Header,
	}
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	endpoint *url.URL,
	token auth.TokenBundle,
	opts *Options,
) (*http.Request, string, error) {
	bodyReader, err := opts.bodyReader()
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.anonKey != "" {
		req.Header.Set(HeaderAPIKey, c.anonKey)
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())

	for k, v := range opts.Headers {
		// Authorization задается только из сессии, Content-Type всегда JSON
		switch http.CanonicalHeaderKey(k) {
		case "Authorization", "Content-Type":
			continue
		}
		req.Header.Set(k, v)
	}

	if token.HasToken() {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	return req, req.Header.Get(HeaderRequestID), nil
}

// resolve разрешает относительный URL относительно base URL
func (c *Client) resolve(target string) (*url.URL, error) {
	if target == "" {
		return nil, errors.New("empty request url")
	}
	ref, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid request url: %w", err)
	}
	return c.baseURL.ResolveReference(ref), nil
}

func (c *Client) isIdentityEndpoint(u *url.URL) bool {
	return strings.HasPrefix(u.Path, c.identityPrefix) || u.Path+"/" == c.identityPrefix
}

func jsonDetails(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil
	}
	return json.RawMessage(trimmed)
}
