// Package cli exposes the transaction flow as the txflow command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/gabapcia/txflow/internal/bridge"
	"github.com/gabapcia/txflow/internal/confirmation"
	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/urfave/cli/v3"
)

// Modal is the confirmation flow driven by the send and withdraw commands.
type Modal interface {
	Open(req transfer.Request) error
	Fee(ctx context.Context) string
	CanSubmit() bool
	Confirm(ctx context.Context) error
	Dismiss() error
	View() confirmation.View
}

// Dependencies are the services the commands run against.
type Dependencies struct {
	Registry    *network.Registry
	Transfers   transfer.Service
	Withdrawals bridge.Service
	Modal       Modal

	// HashPasscode produces the value of TXFLOW_PASSCODE_HASH.
	HashPasscode func(passcode string) (string, error)

	// In answers the confirmation question; Out receives command output.
	// They default to the process stdin and stdout.
	In  io.Reader
	Out io.Writer
}

// Run builds the txflow command tree and runs it with args.
//
// Commands:
//
//   - `networks`: lists the supported networks and tokens.
//   - `estimate`: prints the fee estimate of a transfer.
//   - `send`: runs the confirmation flow for a transfer.
//   - `withdraw`: runs the withdrawal flow, bridging Solana funds first.
//   - `hash-passcode`: prints the bcrypt hash of a passcode.
func Run(ctx context.Context, args []string, deps Dependencies) error {
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}

	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "txflow",
		Description:           "Estimate, confirm, sign and broadcast transfers on EVM chains and Solana.",
		Usage:                 "txflow [command] [flags]",
		Writer:                deps.Out,
		Commands: []*cli.Command{
			listNetworksCommand(deps),
			estimateFeeCommand(deps),
			sendCommand(deps),
			withdrawCommand(deps),
			hashPasscodeCommand(deps),
		},
	}

	return app.Run(ctx, args)
}
