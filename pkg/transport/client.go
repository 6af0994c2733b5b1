package transport

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/errors/fmt"
)

// Client issues requests against the gateway base URL, for example
// https://api.rino.co.tz/api/v1.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, rt http.RoundTripper, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Transport: rt, Timeout: timeout},
	}
}

func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimPrefix(path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("transport: error building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}
