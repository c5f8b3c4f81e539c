package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/usuarios/internal/client/models"
	"github.com/dmitrijs2005/usuarios/internal/logging"
)

const (
	defaultTimeout = 10 * time.Second

	// RequestIDHeader carries a per-call correlation id.
	RequestIDHeader = "X-Request-ID"

	maxResponseBody = 1 << 20
)

// envelope is the wire shape of every usuarios response.
type envelope struct {
	Error string          `json:"error,omitempty"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// HTTPClient talks to the usuarios API over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  logging.Logger
	metrics *Metrics
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. "http://localhost:5000/api").
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("empty base URL")
	}

	c := &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: defaultTimeout,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	var u models.User
	err := c.do(ctx, "login", http.MethodPost, "/usuarios/login", creds, &u)
	return u, err
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	var u models.User
	err := c.do(ctx, "register", http.MethodPost, "/usuarios/registrar", reg, &u)
	return u, err
}

func (c *HTTPClient) GetUserByID(ctx context.Context, id models.UserID) (models.User, error) {
	var u models.User
	err := c.do(ctx, "get_user", http.MethodGet, "/usuarios/"+url.PathEscape(id.String()), nil, &u)
	return u, err
}

func (c *HTTPClient) UpdateUser(ctx context.Context, upd models.UserUpdate) (models.User, error) {
	var u models.User
	err := c.do(ctx, "update_user", http.MethodPost, "/usuarios/actualizar", upd, &u)
	return u, err
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id models.UserID) error {
	payload := struct {
		ID models.UserID `json:"id"`
	}{ID: id}
	return c.do(ctx, "delete_user", http.MethodPost, "/usuarios/eliminar", payload, nil)
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one round trip. When out is non-nil the envelope body must be
// present and is decoded into it.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqID := uuid.NewString()
	start := time.Now()
	status := 0
	defer func() {
		c.metrics.observe(op, status, time.Since(start))
		if err != nil {
			c.logger.Debug(ctx, "api call failed", "op", op, "request_id", reqID, "status", status, "error", err)
		}
	}()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return unavailable(op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return unavailable(op, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("%s: decode response: %w", op, decodeErr)
	}
	if len(env.Body) == 0 || string(env.Body) == "null" {
		return fmt.Errorf("%s: %w", op, ErrEmptyBody)
	}
	if err := json.Unmarshal(env.Body, out); err != nil {
		return fmt.Errorf("%s: decode body: %w", op, err)
	}
	return nil
}
