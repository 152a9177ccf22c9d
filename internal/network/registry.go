// Package network holds the registry of supported chains: RPC endpoints,
// explorer links, chain ids and the token contracts registered on each one.
// A Registry is built once at startup and passed to every component that
// needs chain configuration.
package network

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gabapcia/txflow/internal/pkg/validator"
)

// Registry is an immutable, validated set of chains.
type Registry struct {
	chains map[string]Chain
	order  []string
}

// NewRegistry validates every chain and indexes it by identifier. Identifiers
// and token symbols are normalized (lower-case ids, upper-case symbols).
func NewRegistry(chains ...Chain) (*Registry, error) {
	r := &Registry{
		chains: make(map[string]Chain, len(chains)),
		order:  make([]string, 0, len(chains)),
	}

	for _, c := range chains {
		c.ID = strings.ToLower(c.ID)

		tokens := make(map[string]Token, len(c.Tokens))
		for symbol, t := range c.Tokens {
			symbol = strings.ToUpper(symbol)
			if t.Symbol == "" {
				t.Symbol = symbol
			}
			tokens[symbol] = t
		}
		c.Tokens = tokens

		if err := validator.Validate(c); err != nil {
			return nil, fmt.Errorf("chain %q: %w", c.ID, err)
		}

		if _, ok := r.chains[c.ID]; ok {
			return nil, fmt.Errorf("chain %q registered twice", c.ID)
		}

		if c.IsEVM() {
			if other, err := r.ByChainID(c.ChainID); err == nil {
				return nil, fmt.Errorf("chain %q reuses chain id %d of %q", c.ID, c.ChainID, other.ID)
			}
		}

		r.chains[c.ID] = c
		r.order = append(r.order, c.ID)
	}

	return r, nil
}

// Lookup returns the chain registered under id.
func (r *Registry) Lookup(id string) (Chain, error) {
	c, ok := r.chains[strings.ToLower(id)]
	if !ok {
		return Chain{}, fmt.Errorf("%w: %s", ErrNetworkNotSupported, id)
	}

	return c, nil
}

// ByChainID returns the EVM chain with the given numeric chain id.
func (r *Registry) ByChainID(chainID uint64) (Chain, error) {
	for _, id := range r.order {
		if c := r.chains[id]; c.IsEVM() && c.ChainID == chainID {
			return c, nil
		}
	}

	return Chain{}, fmt.Errorf("%w: chain id %d", ErrNetworkNotSupported, chainID)
}

// Chains returns the registered chains in registration order.
func (r *Registry) Chains() []Chain {
	chains := make([]Chain, 0, len(r.order))
	for _, id := range r.order {
		chains = append(chains, r.chains[id])
	}

	return chains
}

// IDs returns the registered identifiers sorted alphabetically.
func (r *Registry) IDs() []string {
	ids := slices.Clone(r.order)
	slices.Sort(ids)
	return ids
}
