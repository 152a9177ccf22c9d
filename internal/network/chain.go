package network

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrNetworkNotSupported is returned when a chain identifier is not registered.
	ErrNetworkNotSupported = errors.New("network not supported")

	// ErrTokenNotSupported is returned when a token symbol has no contract or
	// mint registered on the requested chain.
	ErrTokenNotSupported = errors.New("token not supported")

	// ErrMissingRPC is returned when a chain has no RPC endpoint configured.
	ErrMissingRPC = errors.New("missing rpc configuration")
)

// Family groups chains that share the same address and transaction format.
type Family string

const (
	FamilyEVM    Family = "evm"
	FamilySolana Family = "solana"
)

// Solana clusters understood by the registry.
const (
	ClusterMainnet = "mainnet-beta"
	ClusterDevnet  = "devnet"
	ClusterTestnet = "testnet"
)

// Token is a non-native asset registered on a chain. Address is the ERC-20
// contract on EVM chains and the SPL mint on Solana.
type Token struct {
	Symbol   string `validate:"required"`
	Address  string `validate:"required"`
	Decimals int32  `validate:"gte=0,lte=36"`
}

// Chain is the static configuration of a supported network.
type Chain struct {
	ID             string           `validate:"required"`
	Name           string           `validate:"required"`
	Family         Family           `validate:"required,oneof=evm solana"`
	ExplorerURL    string           `validate:"required,url"` // transaction URL prefix, the hash is appended
	Cluster        string           `validate:"omitempty,oneof=mainnet-beta devnet testnet"`
	RPCURL         string           `validate:"omitempty,url"`
	ChainID        uint64           `validate:"required_if=Family evm"`
	NativeSymbol   string           `validate:"required"`
	NativeDecimals int32            `validate:"gte=0,lte=36"`
	Tokens         map[string]Token `validate:"omitempty,dive"`
}

// IsEVM reports whether the chain belongs to the EVM family.
func (c Chain) IsEVM() bool {
	return c.Family == FamilyEVM
}

// IsNative reports whether symbol names the chain's native currency.
func (c Chain) IsNative(symbol string) bool {
	return strings.EqualFold(c.NativeSymbol, symbol)
}

// Token returns the registered token for symbol. Lookups are case-insensitive.
func (c Chain) Token(symbol string) (Token, error) {
	t, ok := c.Tokens[strings.ToUpper(symbol)]
	if !ok {
		return Token{}, fmt.Errorf("%w: Token %s not supported on %s", ErrTokenNotSupported, symbol, c.ID)
	}

	return t, nil
}

// Endpoint returns the RPC URL of the chain or ErrMissingRPC.
func (c Chain) Endpoint() (string, error) {
	if c.RPCURL == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRPC, c.ID)
	}

	return c.RPCURL, nil
}

// ExplorerTxURL returns the block explorer link for a transaction hash or
// signature. Solana links carry the cluster when it is not mainnet.
func (c Chain) ExplorerTxURL(hash string) string {
	link := c.ExplorerURL + hash
	if c.Family == FamilySolana && c.Cluster != "" && c.Cluster != ClusterMainnet {
		link += "?cluster=" + url.QueryEscape(c.Cluster)
	}

	return link
}
