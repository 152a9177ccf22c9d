package confirmation

import (
	"context"
	"errors"
)

// ErrAuthenticationFailed is returned when the user fails or skips the
// authentication check.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Authenticator gates signing behind a biometric or passcode check.
type Authenticator interface {
	// Authenticate prompts the user with reason and returns nil only when the
	// check succeeded.
	Authenticate(ctx context.Context, reason string) error
}

// Outcome statuses sent to the ledger.
const (
	StatusCompleted = "completed" // confirmed on chain
	StatusSubmitted = "submitted" // broadcast, confirmation polling timed out
)

// Outcome is the record of a broadcast transaction sent to the backend ledger.
type Outcome struct {
	Type   string `json:"type"`
	TxHash string `json:"txHash"`
	Amount string `json:"amount"`
	Token  string `json:"token"`
	Chain  string `json:"chain"`
	From   string `json:"fromAddress"`
	To     string `json:"toAddress"`
	Status string `json:"status"`
}

// Reporter records outcomes. Calls are best effort and never retried.
type Reporter interface {
	Report(ctx context.Context, outcome Outcome) error
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, Outcome) error { return nil }
