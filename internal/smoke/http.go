package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPClient wraps http.Client with a base URL and prefix.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	prefix  string
}

func newHTTPClient(cfg *Config) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		prefix:  cfg.Prefix,
	}
}

// response is a fully read reply.
type response struct {
	Status    int
	Body      []byte
	RequestID string
}

// do sends a request under the configured prefix. body is marshalled to
// JSON unless nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (response, error) {
	return c.raw(ctx, method, c.prefix+path, body)
}

// raw sends a request to path without the prefix.
func (c *HTTPClient) raw(ctx context.Context, method, path string, body any) (response, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("failed to marshal request body: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", "smoke-"+uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return response{Status: resp.StatusCode, Body: data, RequestID: resp.Header.Get("X-Request-ID")}, nil
}

// waitHealthy polls /healthz until it answers 200 or ctx expires.
func (c *HTTPClient) waitHealthy(ctx context.Context, interval time.Duration) error {
	for {
		resp, err := c.raw(ctx, http.MethodGet, "/healthz", nil)
		if err == nil && resp.Status == http.StatusOK {
			return nil
		}
		select {
		case <-ctx.Done():
			if err == nil {
				err = fmt.Errorf("healthz answered %d", resp.Status)
			}
			return fmt.Errorf("service not healthy: %w", err)
		case <-time.After(interval):
		}
	}
}
