// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

// Package capture is the HTTP client for the external capture/egress service
// that records composite room audio/video.
package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/logging"
)

const (
	// DefaultClientTimeout is the default HTTP client timeout for capture API requests
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Config holds the configuration for the capture client
type Config struct {
	// BaseURL is the capture service endpoint. An empty value means capture
	// is not configured for this deployment.
	BaseURL   string
	APIKey    string
	APISecret string
	// Optional: override auth URL, defaults to BaseURL + "/oauth/token"
	AuthURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Client is the HTTP client for the capture service
type Client struct {
	httpClient  *http.Client
	config      Config
	oauthConfig *clientcredentials.Config
}

// NewClient creates a new capture service client
func NewClient(config Config) *Client {
	if config.AuthURL == "" && config.BaseURL != "" {
		config.AuthURL = strings.TrimSuffix(config.BaseURL, "/") + "/oauth/token"
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	oauthConfig := &clientcredentials.Config{
		ClientID:     config.APIKey,
		ClientSecret: config.APISecret,
		TokenURL:     config.AuthURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		oauthConfig: oauthConfig,
	}
}

// IsConfigured reports whether the client has an endpoint and credentials.
func (c *Client) IsConfigured() bool {
	return c.config.BaseURL != "" && c.config.APIKey != "" && c.config.APISecret != ""
}

// IsLocalMode reports whether the configured endpoint is a local/dev capture
// service writing to the local filesystem.
func (c *Client) IsLocalMode() bool {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}

// getAuthenticatedClient returns an HTTP client that automatically handles OAuth2 authentication
func (c *Client) getAuthenticatedClient(ctx context.Context) *http.Client {
	return &http.Client{
		Timeout: c.config.Timeout,
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: c.oauthConfig.TokenSource(ctx),
		},
	}
}

// shouldRetry determines if an error or HTTP status code should be retried
func shouldRetry(statusCode int, err error) bool {
	// Retry on network/connection errors
	if err != nil {
		return true
	}

	// Retry on server errors (5xx)
	if statusCode >= 500 && statusCode < 600 {
		return true
	}

	// Retry on rate limiting (429)
	if statusCode == http.StatusTooManyRequests {
		return true
	}

	// Don't retry on client errors (4xx)
	return false
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// Add jitter to prevent thundering herd
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)
	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}

	return backoffWithJitter
}

// doRequest performs an authenticated HTTP request to the capture API with retry logic
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if !c.IsConfigured() {
		return nil, domain.ErrCaptureNotConfigured
	}

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	requestURL := strings.TrimSuffix(c.config.BaseURL, "/") + path
	var lastErr error
	var lastStatus int

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		startTime := time.Now()
		resp, err := c.getAuthenticatedClient(ctx).Do(req)
		duration := time.Since(startTime)

		if err == nil && resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			slog.DebugContext(ctx, "capture API request completed",
				"method", method,
				"path", path,
				"status", resp.StatusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
			)
			return resp, nil
		}

		lastErr = err
		lastStatus = 0
		if resp != nil {
			lastStatus = resp.StatusCode
			_ = resp.Body.Close()
		}

		if !shouldRetry(lastStatus, err) {
			break
		}

		if attempt < c.config.MaxRetries {
			backoff := c.calculateBackoff(attempt)
			slog.WarnContext(ctx, "capture API request failed, retrying",
				"method", method,
				"path", path,
				"status", lastStatus,
				"attempt", attempt+1,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff.String(),
				logging.ErrKey, err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	if lastErr != nil {
		slog.ErrorContext(ctx, "capture API request failed after all retries",
			"method", method,
			"path", path,
			"max_retries", c.config.MaxRetries,
			logging.ErrKey, lastErr,
			logging.PriorityCritical())
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
	}

	slog.ErrorContext(ctx, "capture API request failed after all retries",
		"method", method,
		"path", path,
		"status", lastStatus,
		"max_retries", c.config.MaxRetries,
		logging.PriorityCritical())
	return nil, fmt.Errorf("request failed after %d attempts: status %d", c.config.MaxRetries+1, lastStatus)
}

// parseErrorResponse attempts to parse a capture API error response
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf("capture API error (status %d): %s", statusCode, errResp.Message)
	}
	return fmt.Errorf("capture API error (status %d): %s", statusCode, string(body))
}
