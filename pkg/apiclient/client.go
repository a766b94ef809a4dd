package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// envelope mirrors the server response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

// Client talks to the rental API. Reads go through a deduplicating cache;
// writes invalidate the collections they touch. The cookie jar carries the
// admin session cookie between calls.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *Cache
}

// New creates a client for the given API base URL
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		cache: NewCache(),
	}, nil
}

// Cache exposes the underlying response cache
func (c *Client) Cache() *Cache {
	return c.cache
}

// GetJSON fetches path and decodes the response data into out. Results are
// cached by path; concurrent requests for the same path share one HTTP call.
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.cache.Fetch(path, func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// GetText fetches path and returns the body as text. Non-JSON successes
// (health probes, proxy pages) come back verbatim; results are cached the
// same way GetJSON caches them.
func (c *Client) GetText(ctx context.Context, path string) (string, error) {
	body, err := c.cache.Fetch(path, func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PostJSON sends a POST with a JSON body and decodes the response data into out
func (c *Client) PostJSON(ctx context.Context, path string, in, out interface{}) error {
	return c.mutate(ctx, http.MethodPost, path, in, out)
}

// PutJSON sends a PUT with a JSON body and decodes the response data into out
func (c *Client) PutJSON(ctx context.Context, path string, in, out interface{}) error {
	return c.mutate(ctx, http.MethodPut, path, in, out)
}

// PatchJSON sends a PATCH with a JSON body and decodes the response data into out
func (c *Client) PatchJSON(ctx context.Context, path string, in, out interface{}) error {
	return c.mutate(ctx, http.MethodPatch, path, in, out)
}

// Delete sends a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.mutate(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) mutate(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}

	c.invalidateFor(path)

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// invalidateFor drops cache entries made stale by a write to path
func (c *Client) invalidateFor(path string) {
	c.cache.Invalidate(collectionPrefix(path))

	// Bookings change item availability and the dashboard counters
	if strings.Contains(path, "/bookings") {
		c.cache.Invalidate("/api/costumes")
		c.cache.Invalidate("/api/accessories")
		c.cache.Invalidate("/api/items")
		c.cache.Invalidate("/api/admin/items")
		c.cache.Invalidate("/api/admin/dashboard")
	}
	if strings.Contains(path, "/items") || strings.Contains(path, "/categories") {
		c.cache.Invalidate("/api/costumes")
		c.cache.Invalidate("/api/accessories")
		c.cache.Invalidate("/api/admin/dashboard")
	}
}

// collectionPrefix trims trailing id and action segments so a write to
// /api/admin/items/<id>/image invalidates all /api/admin/items entries
func collectionPrefix(path string) string {
	known := []string{"items", "bookings", "categories", "costumes", "accessories", "dashboard"}
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		for _, name := range known {
			if segments[i] == name {
				return "/" + strings.Join(segments[:i+1], "/")
			}
		}
	}
	return path
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// Successful non-JSON bodies are passed through untouched
	if resp.StatusCode < 400 && !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		return raw, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			// Non-JSON error body (proxy page, plain text); use it as the message
			message := strings.TrimSpace(string(raw))
			if message == "" {
				message = http.StatusText(resp.StatusCode)
			}
			return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
		}
		return nil, fmt.Errorf("malformed response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return nil, apiErr
	}

	return env.Data, nil
}
