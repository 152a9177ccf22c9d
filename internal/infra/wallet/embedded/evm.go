// Package embedded implements the wallet ports with keys held by the process.
// The EVM wallet answers the EIP-1193 requests used by the transfer flow,
// signs locally and broadcasts raw transactions through the chain RPC; the
// Solana wallet signs with an ed25519 key and submits through the cluster RPC.
package embedded

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrInvalidKey is returned when a private key cannot be decoded.
	ErrInvalidKey = errors.New("invalid private key")

	// ErrUnrecognizedChain is returned by wallet_switchEthereumChain for a
	// chain id that is not registered.
	ErrUnrecognizedChain = errors.New("unrecognized chain id")

	// ErrForeignSender is returned when a transaction names a sender the
	// wallet does not hold the key for.
	ErrForeignSender = errors.New("sender is not managed by this wallet")

	// ErrInvalidParams is returned for malformed request parameters.
	ErrInvalidParams = errors.New("invalid request params")
)

// EVMNode is the part of an EVM RPC connection the wallet needs.
type EVMNode interface {
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	Forward(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// EVMNodeDialer opens a connection to chain.
type EVMNodeDialer func(ctx context.Context, chain network.Chain) (EVMNode, error)

type evmWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address

	registry *network.Registry
	dial     EVMNodeDialer

	mu    sync.RWMutex
	chain network.Chain
}

var _ transfer.EVMProvider = (*evmWallet)(nil)

// Address returns the account controlled by the wallet.
func (w *evmWallet) Address() common.Address {
	return w.address
}

func (w *evmWallet) currentChain() network.Chain {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.chain
}

// decodeParam re-encodes the first request param into out so that callers
// may pass either typed structs or generic maps.
func decodeParam(params []any, out any) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: missing parameter", ErrInvalidParams)
	}

	raw, err := json.Marshal(params[0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	return nil
}

func (w *evmWallet) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	switch method {
	case "eth_accounts", "eth_requestAccounts":
		return json.Marshal([]common.Address{w.address})
	case "eth_chainId":
		return json.Marshal(hexutil.Uint64(w.currentChain().ChainID))
	case "wallet_switchEthereumChain":
		return w.switchChain(ctx, params)
	case "eth_sendTransaction":
		return w.sendTransaction(ctx, params)
	}

	node, err := w.dial(ctx, w.currentChain())
	if err != nil {
		return nil, err
	}

	return node.Forward(ctx, method, params...)
}

func (w *evmWallet) switchChain(ctx context.Context, params []any) (json.RawMessage, error) {
	var p struct {
		ChainID hexutil.Uint64 `json:"chainId"`
	}
	if err := decodeParam(params, &p); err != nil {
		return nil, err
	}

	chain, err := w.registry.ByChainID(uint64(p.ChainID))
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnrecognizedChain, uint64(p.ChainID))
	}

	w.mu.Lock()
	w.chain = chain
	w.mu.Unlock()

	logger.Debug(ctx, "wallet switched chain", "tx.network", chain.ID)
	return json.RawMessage("null"), nil
}

// buildTransaction turns eth_sendTransaction args into an unsigned
// transaction. EIP-1559 fields select a dynamic fee transaction.
func buildTransaction(args transfer.TransactionArgs, chainID *big.Int) *types.Transaction {
	value := new(big.Int)
	if args.Value != nil {
		value = args.Value.ToInt()
	}

	if args.MaxFeePerGas != nil {
		tip := new(big.Int)
		if args.MaxPriorityFeePerGas != nil {
			tip = args.MaxPriorityFeePerGas.ToInt()
		}

		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     uint64(args.Nonce),
			GasTipCap: tip,
			GasFeeCap: args.MaxFeePerGas.ToInt(),
			Gas:       uint64(args.Gas),
			To:        args.To,
			Value:     value,
			Data:      args.Data,
		})
	}

	gasPrice := new(big.Int)
	if args.GasPrice != nil {
		gasPrice = args.GasPrice.ToInt()
	}

	return types.NewTx(&types.LegacyTx{
		Nonce:    uint64(args.Nonce),
		GasPrice: gasPrice,
		Gas:      uint64(args.Gas),
		To:       args.To,
		Value:    value,
		Data:     args.Data,
	})
}

func (w *evmWallet) sendTransaction(ctx context.Context, params []any) (json.RawMessage, error) {
	var args transfer.TransactionArgs
	if err := decodeParam(params, &args); err != nil {
		return nil, err
	}

	if args.From != w.address {
		return nil, fmt.Errorf("%w: %s", ErrForeignSender, args.From.Hex())
	}

	chain := w.currentChain()
	chainID := new(big.Int).SetUint64(chain.ChainID)
	if args.ChainID != nil && args.ChainID.ToInt().Cmp(chainID) != 0 {
		return nil, fmt.Errorf("%w: transaction for chain %s while wallet is on %d", ErrInvalidParams, args.ChainID.ToInt(), chain.ChainID)
	}

	signed, err := types.SignTx(buildTransaction(args, chainID), types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return nil, err
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, err
	}

	node, err := w.dial(ctx, chain)
	if err != nil {
		return nil, err
	}

	hash, err := node.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transaction broadcast",
		"tx.network", chain.ID,
		"tx.hash", hash.Hex(),
		"tx.nonce", uint64(args.Nonce),
	)

	return json.Marshal(hash)
}

// NewEVMWallet returns an EVM provider for the hex encoded secp256k1 key. The
// wallet starts on the first EVM chain of registry.
func NewEVMWallet(hexKey string, registry *network.Registry, dial EVMNodeDialer) (*evmWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	w := &evmWallet{
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey),
		registry: registry,
		dial:     dial,
	}

	for _, c := range registry.Chains() {
		if c.IsEVM() {
			w.chain = c
			break
		}
	}

	return w, nil
}
