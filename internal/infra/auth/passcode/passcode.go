// Package passcode gates signing behind a passcode typed on the terminal and
// checked against a bcrypt hash. It stands in for the biometric prompt of a
// mobile device.
package passcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gabapcia/txflow/internal/confirmation"
	"github.com/gabapcia/txflow/internal/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var (
	// ErrIncorrectPasscode is returned when every attempt was wrong.
	ErrIncorrectPasscode = errors.New("incorrect passcode")

	// ErrSkipped is returned when the user submits an empty passcode.
	ErrSkipped = errors.New("authentication skipped")

	// ErrNoTerminal is returned when the passcode cannot be read without echo.
	ErrNoTerminal = errors.New("standard input is not a terminal")

	// ErrNotConfigured is returned by every check when no passcode hash was
	// configured.
	ErrNotConfigured = errors.New("passcode not configured")
)

// PromptFunc asks the user for the passcode, showing reason.
type PromptFunc func(ctx context.Context, reason string) ([]byte, error)

type authenticator struct {
	hash     []byte
	prompt   PromptFunc
	attempts int
}

var _ confirmation.Authenticator = (*authenticator)(nil)

// Authenticate prompts until the passcode matches or the attempts run out.
func (a *authenticator) Authenticate(ctx context.Context, reason string) error {
	if len(a.hash) == 0 {
		return ErrNotConfigured
	}

	for attempt := 1; attempt <= a.attempts; attempt++ {
		input, err := a.prompt(ctx, reason)
		if err != nil {
			return err
		}

		if len(input) == 0 {
			return ErrSkipped
		}

		if err := bcrypt.CompareHashAndPassword(a.hash, input); err == nil {
			return nil
		}

		logger.Warn(ctx, "incorrect passcode", "auth.attempt", attempt, "auth.max_attempts", a.attempts)
	}

	return ErrIncorrectPasscode
}

// TerminalPrompt reads the passcode from in without echo, writing the prompt
// to out. Cancelling ctx abandons the read.
func TerminalPrompt(in *os.File, out io.Writer) PromptFunc {
	return func(ctx context.Context, reason string) ([]byte, error) {
		fd := int(in.Fd())
		if !term.IsTerminal(fd) {
			return nil, ErrNoTerminal
		}

		fmt.Fprintf(out, "%s\nPasscode: ", reason)

		type result struct {
			input []byte
			err   error
		}

		done := make(chan result, 1)
		go func() {
			input, err := term.ReadPassword(fd)
			done <- result{input, err}
		}()

		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil, ctx.Err()
		case r := <-done:
			fmt.Fprintln(out)
			return r.input, r.err
		}
	}
}

// Hash returns the bcrypt hash to configure for passcode.
func Hash(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

type config struct {
	prompt   PromptFunc
	attempts int
}

// Option configures the authenticator.
type Option func(*config)

// WithPrompt replaces the terminal prompt.
func WithPrompt(prompt PromptFunc) Option {
	return func(c *config) {
		c.prompt = prompt
	}
}

// WithAttempts sets how many wrong passcodes are tolerated before failing.
func WithAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// New returns an authenticator checking passcodes against the bcrypt hash.
// By default it prompts on the process terminal and allows three attempts.
// An empty hash yields an authenticator that refuses every request.
func New(hash string, opts ...Option) (*authenticator, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid passcode hash: %w", err)
		}
	}

	cfg := config{
		prompt:   TerminalPrompt(os.Stdin, os.Stderr),
		attempts: 3,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &authenticator{
		hash:     []byte(hash),
		prompt:   cfg.prompt,
		attempts: cfg.attempts,
	}, nil
}
