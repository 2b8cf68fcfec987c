// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/helper/gc"
)

// ErrFetch wraps every network, timeout or HTTP status failure reported by [HTTPConfig.Fetch].
var ErrFetch = errors.New("x509chain: fetch failed")

const (
	// DefaultTimeout bounds a single issuer or CRL download.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize caps the size of a downloaded certificate or CRL.
	DefaultMaxBodySize = 32 << 20
)

// Fetcher retrieves the raw bytes behind a URL.
//
// [Chain] uses it for AIA issuer downloads and CRL downloads. Tests replace it
// with an in-memory implementation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts an ordinary function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// HTTPConfig holds HTTP client configuration for certificate operations
type HTTPConfig struct {
	Timeout     time.Duration // HTTP request timeout
	Version     string        // Application version for User-Agent
	UserAgent   string        // Custom User-Agent string, if empty will be constructed from Version
	MaxBodySize int64         // Maximum response size in bytes, 0 means DefaultMaxBodySize

	mu     sync.Mutex
	client *http.Client
}

// NewHTTPConfig creates a new HTTP configuration with default values.
//
// It initializes the configuration with a default timeout of 10 seconds
// and the provided application version.
//
// Parameters:
//   - version: Application version string
//
// Returns:
//   - *HTTPConfig: New HTTP configuration
func NewHTTPConfig(version string) *HTTPConfig {
	return &HTTPConfig{
		Timeout:     DefaultTimeout,
		Version:     version,
		UserAgent:   "",
		MaxBodySize: DefaultMaxBodySize,
	}
}

// GetUserAgent returns the User-Agent string, constructing it if not set.
//
// If a custom User-Agent is configured, it returns that. Otherwise, it
// constructs a default one including the application version and GitHub URL.
//
// Returns:
//   - string: User-Agent string
func (c *HTTPConfig) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return fmt.Sprintf("X.509-Trust-Validator/%s (+https://github.com/H0llyW00dzZ/x509-trust-validator)", c.Version)
}

// Client returns an HTTP client configured with the current timeout.
//
// It reuses the cached http.Client while the timeout is unchanged and builds a
// new one when it changes, so clients in use are never modified.
//
// Returns:
//   - *http.Client: Configured HTTP client
//
// Thread Safety: Safe for concurrent use.
func (c *HTTPConfig) Client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// A client already handed out may be inside Do; replace it, never mutate it.
	if c.client == nil || c.client.Timeout != timeout {
		c.client = &http.Client{Timeout: timeout}
	}

	return c.client
}

// Fetch downloads url with a GET request.
//
// Any transport error, timeout or non-200 status is returned wrapped in [ErrFetch].
// The body is read through a pooled buffer and copied before returning.
//
// Thread Safety: Safe for concurrent use.
func (c *HTTPConfig) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	// Set the User-Agent header with version information and GitHub link
	req.Header.Set("User-Agent", c.GetUserAgent())

	resp, err := c.Client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetch, url, resp.StatusCode)
	}

	limit := c.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	data, err := gc.ReadAll(resp.Body, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response from %s: %w", ErrFetch, url, err)
	}

	return data, nil
}
