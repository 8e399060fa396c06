// Package apiclient is the HTTP client for the storefront backend. It owns
// the base URL, attaches the bearer credential to outbound requests, and
// normalizes whatever error shape the backend returns into an APIError.
package apiclient

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

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// TokenFunc returns the current bearer token, or "" when no session exists.
// It is read fresh on every request.
type TokenFunc func() string

// Client talks to the backend REST API.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// New builds a client for the backend at baseURL. token may be nil for an
// unauthenticated client.
func New(baseURL string, token TokenFunc, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url must be absolute: %q", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base: base,
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &authTransport{
				base:  base,
				token: token,
				next:  http.DefaultTransport,
			},
		},
		log: logger,
	}, nil
}

// authTransport adds "Authorization: Bearer <token>" to requests aimed at the
// backend origin. Requests to any other origin pass through untouched.
type authTransport struct {
	base  *url.URL
	token TokenFunc
	next  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != nil {
		if tok := t.token(); tok != "" && sameOrigin(req.URL, t.base) {
			clone := req.Clone(req.Context())
			clone.Header.Set("Authorization", "Bearer "+tok)
			return t.next.RoundTrip(clone)
		}
	}
	return t.next.RoundTrip(req)
}

func sameOrigin(u, base *url.URL) bool {
	return strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(u.Host, base.Host)
}

// Do issues a request against the backend and returns the raw response body.
// path is joined to the base URL. Non-2xx responses become *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: ExtractMessage(raw, resp.StatusCode)}
		c.log.Debug("backend error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return raw, apiErr
	}
	return raw, nil
}

// GetJSON fetches path and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// PostJSON posts body to path and decodes the JSON response into out.
// out may be nil when the response body is irrelevant.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	raw, err := c.Do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// PutJSON puts body to path and decodes the JSON response into out.
func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	raw, err := c.Do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// DeleteJSON issues a DELETE and decodes the JSON response into out.
func (c *Client) DeleteJSON(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.Do(ctx, http.MethodDelete, path, query, nil)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
