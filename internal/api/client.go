package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCannotConnect marks transport-level failures (no response at all).
	ErrCannotConnect = errors.New("cannot connect to the platform API")

	// ErrUnauthorized marks 401/403 responses so commands can prompt a re-login.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound marks 404 responses (acting on a row deleted elsewhere).
	ErrNotFound = errors.New("resource not found")
)

const defaultErrorMessage = "request failed, please try again"

// TokenProvider supplies the bearer token at call time. The token is read
// per request, never cached in the client, so a login during the same
// process is picked up immediately.
type TokenProvider interface {
	Token() (string, error)
}

// TokenFunc adapts a plain function to a TokenProvider.
type TokenFunc func() (string, error)

func (f TokenFunc) Token() (string, error) { return f() }

// Client issues authenticated JSON requests against the platform API and
// normalizes its success/error envelopes.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

func NewClient(baseURL string, tokens TokenProvider, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// do executes the request and returns the decoded body fields keyed by name.
// Non-2xx statuses and envelope-level failures come back as errors carrying
// the server's message (message preferred over error, then a generic default).
func (c *Client) do(req *http.Request) (map[string]json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotConnect, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if len(body) > 0 {
		// Tolerate non-JSON error bodies from proxies
		_ = json.Unmarshal(body, &fields)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fields, fmt.Errorf("%w: %s", ErrUnauthorized, serverMessage(fields))
	case http.StatusNotFound:
		return fields, fmt.Errorf("%w: %s", ErrNotFound, serverMessage(fields))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fields, errors.New(serverMessage(fields))
	}

	if raw, ok := fields["success"]; ok {
		var success bool
		if err := json.Unmarshal(raw, &success); err == nil && !success {
			return fields, errors.New(serverMessage(fields))
		}
	}

	return fields, nil
}

// serverMessage picks the user-facing failure text out of an envelope:
// message first, error second, generic default last.
func serverMessage(fields map[string]json.RawMessage) string {
	for _, key := range []string{"message", "error"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return defaultErrorMessage
}

// List fetches one page of a collection. rowsKey names the envelope field
// the rows arrive under, which varies per resource.
func (c *Client) List(ctx context.Context, path, rowsKey string, q ListQuery) (ListPage, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	for name, value := range q.Filters {
		if value != "" {
			values.Set(name, value)
		}
	}

	req, err := c.newRequest(ctx, http.MethodGet, path+"?"+values.Encode(), nil)
	if err != nil {
		return ListPage{}, err
	}

	fields, err := c.do(req)
	if err != nil {
		return ListPage{}, err
	}

	page := ListPage{Rows: fields[rowsKey]}
	if raw, ok := fields["total"]; ok {
		if err := json.Unmarshal(raw, &page.Total); err != nil {
			return ListPage{}, fmt.Errorf("failed to decode total: %w", err)
		}
	}
	if raw, ok := fields["totalPages"]; ok {
		if err := json.Unmarshal(raw, &page.TotalPages); err != nil {
			return ListPage{}, fmt.Errorf("failed to decode totalPages: %w", err)
		}
	}

	return page, nil
}

// Get fetches a single resource and decodes the envelope field named by key
// (or the whole body when key is empty) into out.
func (c *Client) Get(ctx context.Context, path, key string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	fields, err := c.do(req)
	if err != nil {
		return err
	}

	return decodeField(fields, key, out)
}

// Post creates a resource. When out is non-nil the envelope field named by
// key is decoded into it.
func (c *Client) Post(ctx context.Context, path string, body any, key string, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}

	fields, err := c.do(req)
	if err != nil {
		return err
	}

	return decodeField(fields, key, out)
}

// Put updates a resource (also used for status/featured toggle sub-routes).
func (c *Client) Put(ctx context.Context, path string, body any) error {
	req, err := c.newRequest(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}

	_, err = c.do(req)
	return err
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	_, err = c.do(req)
	return err
}

func decodeField(fields map[string]json.RawMessage, key string, out any) error {
	if out == nil {
		return nil
	}

	raw, ok := fields[key]
	if !ok {
		// Some endpoints return the payload at the top level
		data, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		raw = data
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response field %q: %w", key, err)
	}
	return nil
}
