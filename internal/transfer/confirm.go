package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/pkg/resilience/retry"
)

// newConfirmationPolicy polls at a fixed interval until the transaction is
// final, a terminal error is seen or attempts run out. RPC errors are treated
// as transient.
func newConfirmationPolicy(attempts uint, interval time.Duration) retry.Retry {
	return retry.New(
		retry.WithAttempts(attempts),
		retry.WithDelay(interval),
		retry.WithMaxDelay(interval),
		retry.WithFixedDelay(),
		retry.WithRetryIf(func(err error) bool {
			return !errors.Is(err, ErrTransactionReverted)
		}),
	)
}

// awaitConfirmation runs poll under the confirmation policy. It reports
// whether the transaction reached a final state. Only ErrTransactionReverted
// is returned as an error: running out of attempts or losing the context is
// logged and reported as unconfirmed because the transaction is already live.
func (s *service) awaitConfirmation(ctx context.Context, hash string, poll func(ctx context.Context) error) (bool, error) {
	err := s.confirmation.Execute(ctx, func() error {
		return poll(ctx)
	})

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrTransactionReverted):
		return false, err
	case ctx.Err() != nil:
		logger.Warn(ctx, "confirmation polling interrupted", "tx.hash", hash, "error", err)
		return false, nil
	default:
		logger.Warn(ctx, "confirmation polling timed out", "tx.hash", hash, "error", err)
		return false, nil
	}
}
