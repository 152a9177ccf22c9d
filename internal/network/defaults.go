package network

import (
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
)

// USDC mints on Solana.
const (
	usdcMintMainnet = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	usdcMintDevnet  = "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU"
)

type config struct {
	rpcURLs       map[string]string
	solanaCluster string
}

// Option customizes the chains returned by DefaultChains.
type Option func(*config)

// WithRPCURL replaces the RPC endpoint of the chain id. Empty urls are ignored.
func WithRPCURL(id, url string) Option {
	return func(c *config) {
		if url != "" {
			c.rpcURLs[strings.ToLower(id)] = url
		}
	}
}

// WithSolanaCluster selects the Solana cluster. Unless an explicit RPC URL is
// also given, the public endpoint of the cluster is used.
func WithSolanaCluster(cluster string) Option {
	return func(c *config) {
		if cluster != "" {
			c.solanaCluster = cluster
		}
	}
}

func solanaDefaults(cluster string) (rpcURL, usdcMint string) {
	switch cluster {
	case ClusterDevnet:
		return rpc.DevNet_RPC, usdcMintDevnet
	case ClusterTestnet:
		return rpc.TestNet_RPC, usdcMintDevnet
	default:
		return rpc.MainNetBeta_RPC, usdcMintMainnet
	}
}

// DefaultChains returns the networks supported out of the box: Base, Celo and
// Solana, each with USDC registered.
func DefaultChains(opts ...Option) []Chain {
	cfg := config{
		rpcURLs:       make(map[string]string),
		solanaCluster: ClusterMainnet,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	solanaRPC, solanaUSDC := solanaDefaults(cfg.solanaCluster)

	chains := []Chain{
		{
			ID:             "base",
			Name:           "Base",
			Family:         FamilyEVM,
			ExplorerURL:    "https://basescan.org/tx/",
			RPCURL:         "https://mainnet.base.org",
			ChainID:        8453,
			NativeSymbol:   "ETH",
			NativeDecimals: 18,
			Tokens: map[string]Token{
				"USDC": {Symbol: "USDC", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
			},
		},
		{
			ID:             "celo",
			Name:           "Celo",
			Family:         FamilyEVM,
			ExplorerURL:    "https://celoscan.io/tx/",
			RPCURL:         "https://forno.celo.org",
			ChainID:        42220,
			NativeSymbol:   "CELO",
			NativeDecimals: 18,
			Tokens: map[string]Token{
				"USDC": {Symbol: "USDC", Address: "0xcebA9300f2b948710d2653dD7B07f33A8B32118C", Decimals: 6},
			},
		},
		{
			ID:             "solana",
			Name:           "Solana",
			Family:         FamilySolana,
			ExplorerURL:    "https://explorer.solana.com/tx/",
			Cluster:        cfg.solanaCluster,
			RPCURL:         solanaRPC,
			NativeSymbol:   "SOL",
			NativeDecimals: 9,
			Tokens: map[string]Token{
				"USDC": {Symbol: "USDC", Address: solanaUSDC, Decimals: 6},
			},
		},
	}

	for i := range chains {
		if u, ok := cfg.rpcURLs[chains[i].ID]; ok {
			chains[i].RPCURL = u
		}
	}

	return chains
}
