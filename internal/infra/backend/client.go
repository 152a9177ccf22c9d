// Package backend talks to the wallet backend: it records transaction
// outcomes in the ledger and asks the bridge service to move funds between
// networks. Requests are sent once; a failed report is never retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabapcia/txflow/internal/pkg/logger"
	transporthttp "github.com/gabapcia/txflow/internal/pkg/transport/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrUnauthenticated is returned when no bearer token is configured.
	ErrUnauthenticated = errors.New("no backend session")

	// ErrSessionExpired is returned when the bearer token is a JWT whose
	// expiry has passed. The request is not sent.
	ErrSessionExpired = errors.New("backend session expired")

	// ErrUnexpectedStatus is returned for non 2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected backend status")
)

// maxErrorBody caps how much of an error response is kept in the error.
const maxErrorBody = 512

type client struct {
	baseURL    string
	token      string
	httpClient *retryablehttp.Client
	now        func() time.Time
}

// checkSession refuses to send requests with a missing or expired token.
// Opaque tokens that do not parse as JWT are sent as they are.
func (c *client) checkSession() error {
	if c.token == "" {
		return ErrUnauthenticated
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, &claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}

	if !c.now().Before(exp.Time) {
		return fmt.Errorf("%w at %s", ErrSessionExpired, exp.Time.UTC().Format(time.RFC3339))
	}

	return nil
}

// post sends body as JSON to path and decodes the response into out when out
// is not nil.
func (c *client) post(ctx context.Context, path string, body, out any) error {
	if err := c.checkSession(); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		logger.Debug(ctx, "backend rejected request", "http.path", path, "http.status", res.StatusCode)
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, res.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(out)
}

type config struct {
	timeout time.Duration
	now     func() time.Time
}

// Option configures the backend client.
type Option func(*config)

// WithTimeout bounds a single backend request.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// NewClient returns a backend client for baseURL authenticating with token.
func NewClient(baseURL, token string, opts ...Option) *client {
	cfg := config{
		timeout: 10 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := transporthttp.NewClient(
		transporthttp.WithTimeout(cfg.timeout),
		transporthttp.WithRetryMax(0),
	)
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		now:        cfg.now,
	}
}
