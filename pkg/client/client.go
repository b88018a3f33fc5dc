// Package client is a typed HTTP client for the bank products API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("bank product not found")

const (
	maxErrorBody    = 64 << 10
	maxResponseBody = 8 << 20
)

// BankProduct mirrors the API representation.
type BankProduct struct {
	ID    int64   `json:"id"`
	Title *string `json:"title"`
}

// APIError is a non-404 error response.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Config configures the client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

// Client talks to one bank products server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	backoff    time.Duration
}

// New creates a client. Timeout defaults to 30s and MaxRetries to 2; a
// negative MaxRetries disables retries. Only GET, PUT and DELETE are retried.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries: maxRetries,
		backoff:    100 * time.Millisecond,
	}
}

// Create posts a new product. Only the title is sent.
func (c *Client) Create(ctx context.Context, title *string) (BankProduct, error) {
	var out BankProduct
	resp, err := c.do(ctx, http.MethodPost, "/bankproducts", map[string]*string{"title": title})
	if err != nil {
		return out, err
	}
	return out, decodeResponse(resp, http.StatusCreated, &out)
}

// Get fetches one product.
func (c *Client) Get(ctx context.Context, id int64) (BankProduct, error) {
	var out BankProduct
	resp, err := c.do(ctx, http.MethodGet, productPath(id), nil)
	if err != nil {
		return out, err
	}
	return out, decodeResponse(resp, http.StatusOK, &out)
}

// List fetches every product.
func (c *Client) List(ctx context.Context) ([]BankProduct, error) {
	out := []BankProduct{}
	resp, err := c.do(ctx, http.MethodGet, "/bankproducts", nil)
	if err != nil {
		return nil, err
	}
	if err := decodeResponse(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the title of an existing product.
func (c *Client) Update(ctx context.Context, id int64, title *string) (BankProduct, error) {
	var out BankProduct
	resp, err := c.do(ctx, http.MethodPut, productPath(id), map[string]*string{"title": title})
	if err != nil {
		return out, err
	}
	return out, decodeResponse(resp, http.StatusOK, &out)
}

// Delete removes a product.
func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, productPath(id), nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, http.StatusNoContent, nil)
}

func productPath(id int64) string {
	return "/bankproducts/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		if !retryable(method, resp.StatusCode) || attempt >= c.maxRetries {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff * time.Duration(1<<attempt)):
		}
	}
}

// retryable reports whether a response may be retried. POST is never
// retried: the server may have stored the record before the gateway failed.
func retryable(method string, status int) bool {
	if method == http.MethodPost {
		return false
	}
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func decodeResponse(resp *http.Response, want int, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != want {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return fmt.Errorf("read error response body: %w", err)
		}
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if target == nil {
		_, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return err
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
