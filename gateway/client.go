// Package gateway is the single point of HTTP and WebSocket egress to the
// mandate backend. All request construction, anti-forgery token handling,
// and response-shape normalization live here; callers get typed results.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client talks to the mandate backend. All transport is credentialed: the
// cookie jar carries the session, and every mutating call attaches the
// anti-forgery token.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu   sync.Mutex
	csrf string
}

// New creates a backend client for the given base URL. The cookie jar holds
// the session cookie for the life of the client.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("gateway: base URL is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: cookie jar: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// APIError is a non-success response from the backend, carrying the best
// message the error body offered.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a 401/403 from the backend. Callers use
// this to decide on a login redirect; the gateway itself never retries.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

type csrfResponse struct {
	Token string `json:"csrf_token"`
}

// csrfToken returns the cached anti-forgery token, fetching it on first use.
// There is no automatic refresh: a rejected token surfaces as a request
// failure and the caller invalidates explicitly.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.csrf != "" {
		return c.csrf, nil
	}

	var resp csrfResponse
	if err := c.get(ctx, "/api/csrf_token", nil, &resp); err != nil {
		return "", fmt.Errorf("fetch csrf token: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("fetch csrf token: empty token in response")
	}
	c.csrf = resp.Token
	return c.csrf, nil
}

// InvalidateCSRF drops the cached anti-forgery token so the next mutating
// call fetches a fresh one.
func (c *Client) InvalidateCSRF() {
	c.mu.Lock()
	c.csrf = ""
	c.mu.Unlock()
}

// get issues a credentialed GET. No anti-forgery token is attached.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, nil, "", out)
}

// post issues a credentialed POST carrying the anti-forgery token. body may
// be nil for bodyless mutations.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	token, err := c.csrfToken(ctx)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPost, path, nil, body, token, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, csrf string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	// Content-Type only when there is a body to describe.
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the best-available message out of an error body: the
// detail field, then message, then a generic fallback when the body is not
// JSON at all.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil || len(data) == 0 {
		return "request failed"
	}

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "request failed"
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	if payload.Message != "" {
		return payload.Message
	}
	return "request failed"
}
