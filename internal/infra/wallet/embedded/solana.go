package embedded

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/gabapcia/txflow/internal/network"
	"github.com/gabapcia/txflow/internal/pkg/logger"
	"github.com/gabapcia/txflow/internal/transfer"

	sol "github.com/gagliardetto/solana-go"
)

// SolanaNode submits signed transactions to a cluster.
type SolanaNode interface {
	SendTransaction(ctx context.Context, tx *sol.Transaction) (sol.Signature, error)
}

// SolanaNodeDialer opens a connection to chain.
type SolanaNodeDialer func(ctx context.Context, chain network.Chain) (SolanaNode, error)

type solanaWallet struct {
	key   sol.PrivateKey
	chain network.Chain
	dial  SolanaNodeDialer
}

var _ transfer.SolanaProvider = (*solanaWallet)(nil)

func (w *solanaWallet) Wallets(context.Context) ([]sol.PublicKey, error) {
	return []sol.PublicKey{w.key.PublicKey()}, nil
}

func (w *solanaWallet) SignAndSendTransaction(ctx context.Context, owner sol.PublicKey, tx *sol.Transaction) (sol.Signature, error) {
	if !owner.Equals(w.key.PublicKey()) {
		return sol.Signature{}, fmt.Errorf("%w: %s", ErrForeignSender, owner)
	}

	_, err := tx.Sign(func(key sol.PublicKey) *sol.PrivateKey {
		if key.Equals(owner) {
			return &w.key
		}
		return nil
	})
	if err != nil {
		return sol.Signature{}, err
	}

	node, err := w.dial(ctx, w.chain)
	if err != nil {
		return sol.Signature{}, err
	}

	signature, err := node.SendTransaction(ctx, tx)
	if err != nil {
		return sol.Signature{}, err
	}

	logger.Info(ctx, "transaction broadcast", "tx.network", w.chain.ID, "tx.hash", signature.String())
	return signature, nil
}

// NewSolanaWallet returns a Solana provider for the base58 encoded ed25519
// key, submitting to chain.
func NewSolanaWallet(base58Key string, chain network.Chain, dial SolanaNodeDialer) (*solanaWallet, error) {
	key, err := sol.PrivateKeyFromBase58(base58Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, ed25519.PrivateKeySize, len(key))
	}

	return &solanaWallet{
		key:   key,
		chain: chain,
		dial:  dial,
	}, nil
}
