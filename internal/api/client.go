// Package api is the typed client for the Ideahub backend's REST surface.
// Every authenticated call reads the bearer token from its TokenSource
// immediately before the request; a missing token blocks the call locally.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ideahub/internal/apperr"
	"ideahub/internal/metrics"
)

// TokenSource supplies the bearer token for authenticated calls. It is read
// synchronously right before each request so logout is always observed.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to one Ideahub backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	metrics *metrics.Collector
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, collector *metrics.Collector, log *slog.Logger) *Client {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		metrics: collector,
		log:     log,
	}
}

// backendError is the error body shape the backend returns on failures.
type backendError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doJSON issues one request with a JSON body (nil payload means no body) and
// decodes a 2xx response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, operation, method, path string, payload any, authenticated bool, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return apperr.New(apperr.ErrInvalidInput, operation+": encoding request", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperr.New(apperr.ErrInvalidInput, operation+": building request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, operation, authenticated, out)
}

// do attaches auth, sends, and maps the response. Latency and error counts
// are recorded per operation.
func (c *Client) do(req *http.Request, operation string, authenticated bool, out any) error {
	if authenticated {
		token, err := c.tokens.Token()
		if err != nil {
			// Precondition failure: no request leaves the client.
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	c.metrics.IncrementRequests()

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncrementErrors()
		c.log.Debug("request failed", "operation", operation, "error", err)
		return apperr.NewNetworkError(operation, err)
	}
	defer resp.Body.Close()

	c.metrics.AddOperationLatency(operation, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncrementErrors()
		return apperr.NewNetworkError(operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncrementErrors()
		message := ""
		var backendErr backendError
		if json.Unmarshal(respBody, &backendErr) == nil {
			if backendErr.Message != "" {
				message = backendErr.Message
			} else if backendErr.Error != "" {
				message = backendErr.Error
			}
		}
		c.log.Debug("backend error", "operation", operation, "status", resp.StatusCode, "message", message)
		return apperr.NewBackendError(operation, resp.StatusCode, message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperr.New(apperr.ErrBackend, fmt.Sprintf("%s: decoding response", operation), err)
	}
	return nil
}
