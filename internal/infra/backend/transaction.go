package backend

import (
	"context"

	"github.com/gabapcia/txflow/internal/confirmation"
)

const transactionsPath = "/api/transactions"

// Report implements confirmation.Reporter by posting the outcome to the
// ledger.
func (c *client) Report(ctx context.Context, outcome confirmation.Outcome) error {
	return c.post(ctx, transactionsPath, outcome, nil)
}

var _ confirmation.Reporter = (*client)(nil)
