package openf1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public OpenF1 API root.
const DefaultBaseURL = "https://api.openf1.org/v1"

// Client fetches data from the OpenF1 API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DriversURL returns the request URL for the drivers of a session.
func (c *Client) DriversURL(sessionKey int) string {
	q := url.Values{}
	q.Set("session_key", strconv.Itoa(sessionKey))
	return c.baseURL + "/drivers?" + q.Encode()
}

// Drivers issues one GET for the drivers of a session. Rows are returned in
// upstream order, duplicates included. It does not retry.
func (c *Client) Drivers(ctx context.Context, sessionKey int) ([]Driver, error) {
	u := c.DriversURL(sessionKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &NetworkError{
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: fmt.Errorf("read body: %w", err)}
	}

	var drivers []Driver
	if err := json.Unmarshal(body, &drivers); err != nil {
		return nil, &ParseError{URL: u, Err: err}
	}
	return drivers, nil
}
