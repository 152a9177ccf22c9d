// Package http builds retrying HTTP clients on top of hashicorp/go-retryablehttp.
// Every attempt is logged at debug level through the context logger of the
// request.
package http

import (
	"net/http"
	"time"

	"github.com/gabapcia/txflow/internal/pkg/logger"

	"github.com/hashicorp/go-retryablehttp"
)

type config struct {
	timeout      time.Duration
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	retryMax     int
}

// Option configures a client built by NewClient.
type Option func(*config)

// requestLogHook records every attempt made by a retryablehttp.Client.
func requestLogHook(_ retryablehttp.Logger, req *http.Request, attempt int) {
	logger.Debug(req.Context(), "sending http request",
		"http.method", req.Method,
		"http.url", req.URL.Redacted(),
		"http.attempt", attempt,
	)
}

// NewClient returns a retryablehttp.Client configured with opts.
//
// Defaults:
//   - timeout:      5 seconds
//   - retryWaitMin: 1 second
//   - retryWaitMax: 5 seconds
//   - retryMax:     2 retries
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:      5 * time.Second,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RequestLogHook = requestLogHook
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.RetryMax = cfg.retryMax
	return client
}

// WithTimeout bounds a single HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin sets the minimum delay between attempts.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax sets the maximum delay between attempts.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax sets how many times a failed request is retried. Zero disables
// retries, which is what non idempotent calls such as broadcasts need.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}
