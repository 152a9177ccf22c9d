package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

// listNetworksCommand prints the registry.
//
// Usage example:
//
//	txflow networks
func listNetworksCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "networks",
		Description: "List the networks and tokens transfers can be sent on.",
		Usage:       "Lists supported networks.",
		Action: func(ctx context.Context, c *cli.Command) error {
			w := tabwriter.NewWriter(deps.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NETWORK\tFAMILY\tNATIVE\tTOKENS")

			for _, id := range deps.Registry.IDs() {
				chain, err := deps.Registry.Lookup(id)
				if err != nil {
					return err
				}

				tokens := make([]string, 0, len(chain.Tokens))
				for symbol := range chain.Tokens {
					tokens = append(tokens, symbol)
				}
				slices.Sort(tokens)

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", chain.ID, chain.Family, chain.NativeSymbol, strings.Join(tokens, ","))
			}

			return w.Flush()
		},
	}
}
