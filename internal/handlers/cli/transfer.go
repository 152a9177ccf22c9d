package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabapcia/txflow/internal/confirmation"
	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/urfave/cli/v3"
)

var (
	// ErrCancelled is returned when the user declines the confirmation question.
	ErrCancelled = errors.New("transaction cancelled")

	// ErrSubmissionDisabled is returned when the request is incomplete.
	ErrSubmissionDisabled = errors.New("enter a recipient and an amount greater than zero")
)

// userError carries a message fit for the terminal and the underlying cause.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

func humanized(err error) error {
	return &userError{msg: confirmation.Humanize(err), err: err}
}

func transferFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "network",
			Usage:    "Network to send on (e.g., base, celo, solana)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "Token symbol; defaults to USDC",
			Value: "USDC",
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "Amount in token units (e.g., 10.5)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "Recipient address",
			Required: true,
		},
	}
}

func requestFromFlags(c *cli.Command) transfer.Request {
	return transfer.Request{
		Amount:    c.String("amount"),
		Token:     strings.ToUpper(c.String("token")),
		Recipient: c.String("to"),
		Network:   strings.ToLower(c.String("network")),
		Kind:      transfer.Kind(c.String("kind")),
	}
}

// estimateFeeCommand prints the fee of a transfer without sending it.
//
// Usage example:
//
//	txflow estimate --network base --token ETH --amount 0.01 --to 0xABC...
func estimateFeeCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "estimate",
		Description: "Estimate the network fee of a transfer.",
		Usage:       "Prints the estimated fee. Never sends anything.",
		Flags:       transferFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Fprintf(deps.Out, "Estimated fee: %s\n", deps.Transfers.EstimateFee(ctx, requestFromFlags(c)))
			return nil
		},
	}
}

// sendCommand runs the confirmation flow for a transfer.
//
// Usage example:
//
//	txflow send --network base --token USDC --amount 10 --to 0xABC...
func sendCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "send",
		Description: "Review, authenticate, sign and broadcast a transfer, then wait for confirmation.",
		Usage:       "Sends a transfer after passcode confirmation.",
		Flags: append(transferFlags(),
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Ledger type of the transaction (transfer, withdrawal, payment)",
				Value: string(transfer.KindTransfer),
			},
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Skip the confirmation question; the passcode is still required",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := deps.Modal.Open(requestFromFlags(c)); err != nil {
				return err
			}

			return runConfirmation(ctx, deps, c.Bool("yes"))
		},
	}
}

// withdrawCommand runs the withdrawal flow. Solana funds are bridged to the
// destination chain before the confirmation flow opens there.
//
// Usage example:
//
//	txflow withdraw --network solana --amount 25 --to 0xABC...
func withdrawCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "withdraw",
		Description: "Withdraw funds to an external address, bridging from Solana when needed.",
		Usage:       "Withdraws funds after passcode confirmation.",
		Flags: append(transferFlags(),
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Skip the confirmation question; the passcode is still required",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			req := requestFromFlags(c)

			opened, err := deps.Withdrawals.Withdraw(ctx, req)
			if err != nil {
				return humanized(err)
			}

			if opened.Network != req.Network {
				fmt.Fprintf(deps.Out, "Bridged %s %s from %s to %s\n", opened.Amount, opened.Token, req.Network, opened.Network)
			}

			return runConfirmation(ctx, deps, c.Bool("yes"))
		},
	}
}

// runConfirmation drives the open modal to a final state and prints it.
func runConfirmation(ctx context.Context, deps Dependencies, skipQuestion bool) error {
	defer func() {
		if err := deps.Modal.Dismiss(); err != nil {
			logger.Debug(ctx, "failed to dismiss confirmation flow", "error", err)
		}
	}()

	view := deps.Modal.View()
	req := view.Request

	fmt.Fprintf(deps.Out, "Send %s %s to %s on %s\n", req.Amount, req.Token, req.Recipient, req.Network)
	fmt.Fprintf(deps.Out, "Estimated fee: %s\n", deps.Modal.Fee(ctx))

	if !deps.Modal.CanSubmit() {
		return ErrSubmissionDisabled
	}

	if !skipQuestion {
		fmt.Fprint(deps.Out, "Confirm? [y/N] ")

		answer, _ := bufio.NewReader(deps.In).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(deps.Out, "Cancelled")
			return ErrCancelled
		}
	}

	confirmErr := deps.Modal.Confirm(ctx)
	if errors.Is(confirmErr, confirmation.ErrAuthenticationFailed) || errors.Is(confirmErr, confirmation.ErrDismissed) {
		return humanized(confirmErr)
	}

	view = deps.Modal.View()
	switch view.State {
	case confirmation.StateSuccess:
		fmt.Fprintf(deps.Out, "Transaction sent: %s\n", view.Hash)
		fmt.Fprintf(deps.Out, "Explorer: %s\n", view.ExplorerURL)
		if !view.Confirmed {
			fmt.Fprintln(deps.Out, "Confirmation is taking longer than usual; check the explorer for the final status.")
		}
		return nil
	case confirmation.StateFailed:
		return &userError{msg: view.ErrorMessage, err: confirmErr}
	default:
		return fmt.Errorf("unexpected flow state %s", view.State)
	}
}
