package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// hashPasscodeCommand prints the bcrypt hash to configure as the passcode.
//
// Usage example:
//
//	txflow hash-passcode --passcode 123456
func hashPasscodeCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "hash-passcode",
		Description: "Hash a passcode for TXFLOW_PASSCODE_HASH.",
		Usage:       "Prints the bcrypt hash of the passcode.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "passcode",
				Usage:    "Passcode to hash",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			hash, err := deps.HashPasscode(c.String("passcode"))
			if err != nil {
				return err
			}

			fmt.Fprintln(deps.Out, hash)
			return nil
		},
	}
}
