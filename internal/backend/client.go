// Package backend is the typed client of the survey backend REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-portal/internal/models"
)

const loginPath = "/auth/login"

type tokenKey struct{}

// WithToken attaches the backend bearer token used by calls made with ctx
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token attached with WithToken
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// UnauthorizedFunc is called when the backend rejects the credentials of a call
type UnauthorizedFunc func(ctx context.Context)

// Client talks JSON to the survey backend and unwraps its response envelope
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *slog.Logger
	onUnauthorized UnauthorizedFunc
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// OnUnauthorized registers the credential clearing hook. It fires for every 401
// except a failed login.
func (c *Client) OnUnauthorized(fn UnauthorizedFunc) {
	c.onUnauthorized = fn
}

type envelope struct {
	Success *bool                  `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Meta    *models.PaginationMeta `json:"meta"`
	Error   *models.APIErrorBody   `json:"error"`
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
}

// do performs a JSON call and decodes the unwrapped payload into out
func (c *Client) do(ctx context.Context, r request, out interface{}) (*models.PaginationMeta, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: 0, Code: CodeNetworkError, Message: err.Error()}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.statusError(ctx, r, resp.StatusCode, raw)
	}

	payload, meta := unwrap(raw)
	if out == nil || len(payload) == 0 {
		return meta, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return meta, &APIError{Status: resp.StatusCode, Code: CodeRequestError, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return meta, nil
}

// doRaw performs a call and returns the raw body, for binary downloads
func (c *Client) doRaw(ctx context.Context, r request) ([]byte, string, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &APIError{Status: 0, Code: CodeNetworkError, Message: err.Error()}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", c.statusError(ctx, r, resp.StatusCode, raw)
	}
	return raw, resp.Header.Get("Content-Type"), nil
}

func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, &APIError{Status: 0, Code: CodeRequestError, Message: err.Error()}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, &APIError{Status: 0, Code: CodeRequestError, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.DebugContext(ctx, "Backend request", "method", r.method, "path", r.path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.WarnContext(ctx, "Backend unreachable", "method", r.method, "path", r.path, "error", err)
		return nil, &APIError{Status: 0, Code: CodeNetworkError, Message: "network connection failed, please check your connection"}
	}
	return resp, nil
}

func (c *Client) statusError(ctx context.Context, r request, status int, raw []byte) *APIError {
	var env envelope
	var code, message string
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		code, message = env.Error.Code, env.Error.Message
	}
	apiErr := newStatusError(status, code, message)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	c.logger.Log(ctx, level, "Backend error", "method", r.method, "path", r.path, "status", status, "code", apiErr.Code)

	if status == http.StatusUnauthorized && !strings.Contains(r.path, loginPath) && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return apiErr
}

// unwrap returns the data of a {success, data} envelope, or the body itself
// when it is not wrapped
func unwrap(raw []byte) (json.RawMessage, *models.PaginationMeta) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return trimmed, nil
	}
	data, ok := fields["data"]
	if !ok {
		return trimmed, nil
	}

	var meta *models.PaginationMeta
	if rawMeta, ok := fields["meta"]; ok {
		var m models.PaginationMeta
		if json.Unmarshal(rawMeta, &m) == nil {
			meta = &m
		}
	}
	return data, meta
}
